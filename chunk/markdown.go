// Copyright 2026 Quarry Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package chunk

import (
	"log/slog"

	"github.com/quarryhq/quarry/core"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Markdown is a block-aware chunker for structured text. It parses the
// document with goldmark and allows chunk boundaries only at top-level
// block starts (headings, paragraphs, lists, code fences), so chunks
// never begin mid-paragraph.
type Markdown struct {
	config Config
	logger *slog.Logger
}

var _ Chunker = (*Markdown)(nil)

// NewMarkdown creates a markdown chunker for the given size range.
func NewMarkdown(config Config) (*Markdown, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Markdown{
		config: config,
		logger: slog.Default().With("chunker", "markdown"),
	}, nil
}

// Name returns the chunker name.
func (m *Markdown) Name() string { return "markdown" }

// Chunk splits the document at block boundaries.
func (m *Markdown) Chunk(doc *core.Document) ([]*core.Chunk, error) {
	source := []byte(doc.Content)
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(source))

	cuts := m.blockStarts(root, doc.Content)
	spans := pack(len(doc.Content), cuts, m.config)
	chunks := materialize(doc, spans)

	m.logger.Debug("chunked markdown document",
		"path", doc.Path, "blocks", len(cuts), "chunks", len(chunks))
	return chunks, nil
}

// blockStarts collects the byte offsets where top-level blocks begin,
// adjusted to the start of their first line so heading markers and
// list bullets stay attached.
func (m *Markdown) blockStarts(root ast.Node, content string) []int {
	var cuts []int
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		start, ok := nodeStart(n)
		if !ok {
			continue
		}
		start = lineStart(content, start)
		// Fenced code blocks report their inner lines only; step back
		// over the opening fence line.
		if n.Kind() == ast.KindFencedCodeBlock && start > 0 {
			start = lineStart(content, start-1)
		}
		cuts = append(cuts, start)
	}
	return cuts
}

// nodeStart returns the source offset of the node's first line,
// descending into containers (lists, blockquotes) whose own segments
// are empty.
func nodeStart(n ast.Node) (int, bool) {
	if lines := n.Lines(); lines != nil && lines.Len() > 0 {
		return lines.At(0).Start, true
	}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if start, ok := nodeStart(child); ok {
			return start, true
		}
	}
	return 0, false
}
