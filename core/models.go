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


package core

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint is a stable content hash identifying a document across runs.
// It is used by the dedup cache to skip documents indexed by a prior run.
type Fingerprint uint64

// FingerprintOf computes a deterministic fingerprint from a document's
// path and content using BLAKE2b hashing. Identical (path, content)
// pairs always produce identical fingerprints.
func FingerprintOf(path string, content string) Fingerprint {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write([]byte(content))
	sum := h.Sum(nil)
	return Fingerprint(binary.LittleEndian.Uint64(sum))
}

// Bytes returns the fingerprint as an 8-byte little-endian key,
// suitable for use as a key-value store key.
func (f Fingerprint) Bytes() []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(f))
	return buf
}

// Document is one input unit of the ingestion pipeline: a file loaded
// from disk. Documents are immutable once loaded.
type Document struct {
	Path        string
	Content     string
	Fingerprint Fingerprint
}

// NewDocument creates a loaded document and computes its fingerprint.
func NewDocument(path, content string) *Document {
	return &Document{
		Path:        path,
		Content:     content,
		Fingerprint: FingerprintOf(path, content),
	}
}

// Chunk is a bounded-size, content-coherent fragment of a Document.
// It is the unit of enrichment, embedding and storage. The Path field
// is a non-owning back-reference to the parent document.
type Chunk struct {
	Path        string
	Fingerprint Fingerprint // parent document fingerprint
	Offset      int         // byte offset of Text within the parent content
	Text        string
	Metadata    map[string]string
	Vector      []float32 // absent until embedded
}

// ID returns the chunk's stable storage identifier, derived from the
// parent path and the chunk offset. Re-ingesting the same file yields
// the same identifiers, so storage writes are idempotent upserts.
func (c *Chunk) ID() string {
	h, _ := blake2b.New(8, nil)
	h.Write([]byte(c.Path))
	h.Write([]byte{'#'})
	h.Write([]byte(strconv.Itoa(c.Offset)))
	return hex.EncodeToString(h.Sum(nil))
}

// SetMeta attaches a metadata key/value pair, allocating the map lazily.
func (c *Chunk) SetMeta(key, value string) {
	if c.Metadata == nil {
		c.Metadata = make(map[string]string)
	}
	c.Metadata[key] = value
}

// EmbeddingText returns the text submitted to the embedding model:
// the chunk text concatenated with its metadata in deterministic key
// order, so enrichment affects embedding quality.
func (c *Chunk) EmbeddingText() string {
	if len(c.Metadata) == 0 {
		return c.Text
	}
	keys := make([]string, 0, len(c.Metadata))
	for k := range c.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(c.Text)
	for _, k := range keys {
		b.WriteString("\n\n")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(c.Metadata[k])
	}
	return b.String()
}

// Record converts an embedded chunk into the unit written to the
// vector store. The source path is always carried in the metadata so
// answers can reference files.
func (c *Chunk) Record() *StoredRecord {
	meta := make(map[string]string, len(c.Metadata)+1)
	for k, v := range c.Metadata {
		meta[k] = v
	}
	meta["path"] = c.Path
	return &StoredRecord{
		ID:       c.ID(),
		Text:     c.Text,
		Metadata: meta,
		Vector:   c.Vector,
	}
}

// StoredRecord is the unit persisted in the vector store.
type StoredRecord struct {
	ID       string
	Text     string
	Metadata map[string]string
	Vector   []float32
}

// SearchHit is a scored similarity-search match.
type SearchHit struct {
	Record *StoredRecord
	Score  float32
}

// QuestionState tracks a question's progress through the query pipeline.
// Transitions are monotonic within a run: a question never reverts to
// an earlier state.
type QuestionState int

const (
	// StateRaw is the initial state of a freshly created question.
	StateRaw QuestionState = iota + 1
	// StateTransformed means the transform chain has run at least once.
	StateTransformed
	// StateRetrieved means similarity-search context is attached.
	StateRetrieved
	// StateAnswered is the terminal success state.
	StateAnswered
	// StateFailed is the terminal error state.
	StateFailed
)

// String returns a human-readable state name.
func (s QuestionState) String() string {
	switch s {
	case StateRaw:
		return "raw"
	case StateTransformed:
		return "transformed"
	case StateRetrieved:
		return "retrieved"
	case StateAnswered:
		return "answered"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Question is one natural-language query flowing through the query
// pipeline. Original is never mutated; Text carries the transformed
// form used for retrieval.
type Question struct {
	Original  string
	Text      string
	Embedding []float32
	Hits      []*SearchHit
	Answer    string
	State     QuestionState
	Err       error
}

// NewQuestion creates a question in the Raw state.
func NewQuestion(text string) *Question {
	return &Question{
		Original: text,
		Text:     text,
		State:    StateRaw,
	}
}

// Advance moves the question to a later state. Moving backwards is a
// programming error and is rejected; re-entering the current state is
// allowed (the transform chain runs 1..N times).
func (q *Question) Advance(state QuestionState) error {
	if state < q.State {
		return fmt.Errorf("%w: %s -> %s", ErrStateRegression, q.State, state)
	}
	q.State = state
	return nil
}

// Fail marks the question terminally failed with the given error.
func (q *Question) Fail(err error) {
	q.State = StateFailed
	q.Err = err
}

// Context returns the retrieved context passages, in retrieval order.
func (q *Question) Context() []string {
	ctx := make([]string, 0, len(q.Hits))
	for _, hit := range q.Hits {
		ctx = append(ctx, hit.Record.Text)
	}
	return ctx
}
