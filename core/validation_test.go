package core

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   *Chunk
		wantErr error
	}{
		{
			name:  "valid chunk",
			chunk: &Chunk{Path: "a.go", Text: strings.Repeat("x", 100)},
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name:    "empty path",
			chunk:   &Chunk{Text: strings.Repeat("x", 100)},
			wantErr: ErrEmptyPath,
		},
		{
			name:    "empty text",
			chunk:   &Chunk{Path: "a.go"},
			wantErr: ErrEmptyContent,
		},
		{
			name:    "below minimum",
			chunk:   &Chunk{Path: "a.go", Text: "tiny"},
			wantErr: ErrChunkTooSmall,
		},
		{
			name:    "above maximum",
			chunk:   &Chunk{Path: "a.go", Text: strings.Repeat("x", 2000)},
			wantErr: ErrChunkTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk, 50, 1024)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunk_NoMaximum(t *testing.T) {
	chunk := &Chunk{Path: "a.go", Text: strings.Repeat("x", 5000)}
	if err := ValidateChunk(chunk, 50, 0); err != nil {
		t.Errorf("ValidateChunk() with maxSize=0 must not enforce an upper bound, got %v", err)
	}
}
