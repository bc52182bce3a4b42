package core

import (
	"testing"
)

func TestFingerprintOf(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
	}{
		{
			name:    "same input produces same fingerprint",
			path:    "src/main.go",
			content: "package main",
		},
		{
			name:    "empty content",
			path:    "empty.md",
			content: "",
		},
		{
			name:    "long content",
			path:    "docs/readme.md",
			content: "This is a much longer piece of content that should still hash consistently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp1 := FingerprintOf(tt.path, tt.content)
			fp2 := FingerprintOf(tt.path, tt.content)

			if fp1 != fp2 {
				t.Errorf("FingerprintOf() produced different fingerprints for same input: %d vs %d", fp1, fp2)
			}
		})
	}
}

func TestFingerprintOf_Different(t *testing.T) {
	if FingerprintOf("a.go", "content") == FingerprintOf("b.go", "content") {
		t.Errorf("FingerprintOf() produced same fingerprint for different paths")
	}
	if FingerprintOf("a.go", "content1") == FingerprintOf("a.go", "content2") {
		t.Errorf("FingerprintOf() produced same fingerprint for different content")
	}
}

func TestChunk_ID(t *testing.T) {
	a := &Chunk{Path: "src/main.go", Offset: 0, Text: "x"}
	b := &Chunk{Path: "src/main.go", Offset: 0, Text: "completely different text"}
	c := &Chunk{Path: "src/main.go", Offset: 128, Text: "x"}

	if a.ID() != b.ID() {
		t.Errorf("Chunk.ID() must depend only on path and offset: %s vs %s", a.ID(), b.ID())
	}
	if a.ID() == c.ID() {
		t.Errorf("Chunk.ID() produced same ID for different offsets")
	}
}

func TestChunk_EmbeddingText(t *testing.T) {
	chunk := &Chunk{Path: "a.md", Text: "body text"}

	if got := chunk.EmbeddingText(); got != "body text" {
		t.Errorf("EmbeddingText() without metadata = %q, want %q", got, "body text")
	}

	chunk.SetMeta("questions_and_answers", "Q: what? A: that")
	chunk.SetMeta("language", "markdown")

	want := "body text\n\nlanguage: markdown\n\nquestions_and_answers: Q: what? A: that"
	if got := chunk.EmbeddingText(); got != want {
		t.Errorf("EmbeddingText() = %q, want %q", got, want)
	}

	// Deterministic across calls
	if chunk.EmbeddingText() != chunk.EmbeddingText() {
		t.Errorf("EmbeddingText() is not deterministic")
	}
}

func TestChunk_Record(t *testing.T) {
	chunk := &Chunk{
		Path:   "src/lib.py",
		Offset: 42,
		Text:   "def f(): pass",
		Vector: []float32{0.1, 0.2},
	}
	chunk.SetMeta("language", "python")

	record := chunk.Record()

	if record.ID != chunk.ID() {
		t.Errorf("Record().ID = %s, want %s", record.ID, chunk.ID())
	}
	if record.Text != chunk.Text {
		t.Errorf("Record().Text = %q, want %q", record.Text, chunk.Text)
	}
	if record.Metadata["path"] != "src/lib.py" {
		t.Errorf("Record() must carry the source path in metadata, got %q", record.Metadata["path"])
	}
	if record.Metadata["language"] != "python" {
		t.Errorf("Record() dropped chunk metadata")
	}
	if len(record.Vector) != 2 {
		t.Errorf("Record() dropped the embedding vector")
	}
}

func TestQuestion_Advance(t *testing.T) {
	q := NewQuestion("What does module X do?")

	if q.State != StateRaw {
		t.Fatalf("NewQuestion() state = %s, want raw", q.State)
	}
	if q.Original != q.Text {
		t.Fatalf("NewQuestion() must initialize Text from Original")
	}

	for _, state := range []QuestionState{StateTransformed, StateTransformed, StateRetrieved, StateAnswered} {
		if err := q.Advance(state); err != nil {
			t.Fatalf("Advance(%s) returned error: %v", state, err)
		}
	}

	if err := q.Advance(StateRetrieved); err == nil {
		t.Errorf("Advance() backwards must fail")
	}
}

func TestQuestion_Context(t *testing.T) {
	q := NewQuestion("q")
	q.Hits = []*SearchHit{
		{Record: &StoredRecord{Text: "first"}, Score: 0.9},
		{Record: &StoredRecord{Text: "second"}, Score: 0.5},
	}

	ctx := q.Context()
	if len(ctx) != 2 || ctx[0] != "first" || ctx[1] != "second" {
		t.Errorf("Context() = %v, want [first second]", ctx)
	}
}
