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
	"strings"

	"github.com/quarryhq/quarry/core"
)

// Code is a syntax-aware chunker for source code. It scans the file
// tracking bracket nesting depth and allows chunk boundaries only at
// top-level declaration starts: a non-blank line at depth zero that
// follows a blank line. This keeps functions, types and classes intact
// whenever the size range permits. Files with no recognizable
// structure (a single oversized block) degrade to raw slicing at the
// maximum chunk size.
type Code struct {
	language string
	config   Config
	logger   *slog.Logger
}

var _ Chunker = (*Code)(nil)

// NewCode creates a code chunker for the given language and size range.
// The language is informational; boundary detection is language-neutral.
func NewCode(language string, config Config) (*Code, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Code{
		language: language,
		config:   config,
		logger:   slog.Default().With("chunker", "code", "language", language),
	}, nil
}

// Name returns the chunker name.
func (c *Code) Name() string { return "code" }

// Language returns the language this chunker was built for.
func (c *Code) Language() string { return c.language }

// Chunk splits the document at top-level declaration boundaries.
func (c *Code) Chunk(doc *core.Document) ([]*core.Chunk, error) {
	cuts := c.declarationStarts(doc.Content)
	spans := pack(len(doc.Content), cuts, c.config)
	chunks := materialize(doc, spans)

	c.logger.Debug("chunked source file",
		"path", doc.Path, "declarations", len(cuts), "chunks", len(chunks))
	return chunks, nil
}

// declarationStarts returns offsets of lines that look like top-level
// declaration starts. Depth tracking is a best-effort count of bracket
// characters; string and comment contents may skew it, in which case
// the affected region simply offers fewer boundaries and packing falls
// back to raw slicing there.
func (c *Code) declarationStarts(content string) []int {
	var cuts []int
	depth := 0
	prevBlank := true
	offset := 0

	for _, line := range strings.SplitAfter(content, "\n") {
		trimmed := strings.TrimSpace(line)
		blank := trimmed == ""

		if !blank && prevBlank && depth == 0 && offset > 0 && !indented(line) {
			cuts = append(cuts, offset)
		}

		for _, r := range line {
			switch r {
			case '{', '(', '[':
				depth++
			case '}', ')', ']':
				if depth > 0 {
					depth--
				}
			}
		}

		prevBlank = blank
		offset += len(line)
	}

	return cuts
}

// indented reports whether a line starts with whitespace. Indented
// lines are continuation or body lines in both brace-style and
// indentation-style languages, never top-level declaration starts.
func indented(line string) bool {
	return len(line) > 0 && (line[0] == ' ' || line[0] == '\t')
}
