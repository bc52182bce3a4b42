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


package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/quarryhq/quarry/core"
)

// Source produces the document stream an ingestion run consumes. The
// sequence is lazy and restartable per run; a returned error means
// enumeration itself failed and aborts the run.
type Source interface {
	Stream(ctx context.Context, out chan<- Result[*core.Document]) error
}

// FileSource enumerates files under a root directory, filtered by
// extension. Files that cannot be read become error-tagged results and
// flow through the pipeline; a failure to walk the tree is fatal.
type FileSource struct {
	root       string
	extensions []string
	logger     *slog.Logger
}

var _ Source = (*FileSource)(nil)

// NewFileSource creates a source for the given root and extension list.
// Extensions are matched case-insensitively and may be given with or
// without the leading dot.
func NewFileSource(root string, extensions []string) (*FileSource, error) {
	if root == "" {
		return nil, ErrRootRequired
	}
	if len(extensions) == 0 {
		return nil, ErrExtensionsRequired
	}

	normalized := make([]string, len(extensions))
	for i, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized[i] = strings.ToLower(ext)
	}

	return &FileSource{
		root:       root,
		extensions: normalized,
		logger:     slog.Default().With("component", "source", "root", root),
	}, nil
}

// Stream walks the tree and emits one result per matching file. Read
// failures are tagged to the file; walk failures abort enumeration.
func (s *FileSource) Stream(ctx context.Context, out chan<- Result[*core.Document]) error {
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !s.matches(path) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			s.logger.Warn("unreadable file", "path", path, "err", readErr)
			out <- Fail[*core.Document](path, fmt.Errorf("%w: %v", ErrUnreadableFile, readErr))
			return nil
		}

		out <- Ok(path, core.NewDocument(path, string(content)))
		return nil
	})
	if err != nil {
		return fmt.Errorf("enumerating %s: %w", s.root, err)
	}
	return nil
}

func (s *FileSource) matches(path string) bool {
	return slices.Contains(s.extensions, strings.ToLower(filepath.Ext(path)))
}
