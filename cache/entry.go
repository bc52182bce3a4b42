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


package cache

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Entry is the value stored per fingerprint: which document was
// indexed, when, and into how many chunks.
type Entry struct {
	Path      string
	IndexedAt time.Time
	Chunks    int
}

// NewEntry creates an entry timestamped with the current time.
func NewEntry(path string, chunks int) Entry {
	return Entry{
		Path:      path,
		IndexedAt: time.Now().UTC(),
		Chunks:    chunks,
	}
}

// MarshalEntry serializes an Entry to bytes using the MUS format.
// Timestamps are stored as Unix microseconds.
func MarshalEntry(e Entry) []byte {
	micros := e.IndexedAt.UnixMicro()
	size := ord.String.Size(e.Path) +
		varint.Int64.Size(micros) +
		varint.Int.Size(e.Chunks)

	buf := make([]byte, size)
	n := ord.String.Marshal(e.Path, buf)
	n += varint.Int64.Marshal(micros, buf[n:])
	varint.Int.Marshal(e.Chunks, buf[n:])
	return buf
}

// UnmarshalEntry deserializes an Entry from bytes.
func UnmarshalEntry(data []byte) (Entry, error) {
	var e Entry

	path, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return e, err
	}

	micros, m, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return e, err
	}
	n += m

	chunks, _, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return e, err
	}

	e.Path = path
	e.IndexedAt = time.UnixMicro(micros).UTC()
	e.Chunks = chunks
	return e, nil
}
