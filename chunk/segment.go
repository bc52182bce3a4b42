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
	"sort"

	"github.com/quarryhq/quarry/core"
)

// span is a half-open byte range [Start, End) within the source content.
type span struct {
	Start int
	End   int
}

// pack assembles chunks from candidate cut positions. Cuts mark
// positions where a chunk boundary is allowed (segment starts found by
// the content-aware scanners). Consecutive segments are merged greedily
// up to maxSize; a segment run that cannot fit is hard-split at maxSize
// boundaries. Sub-minimum trailing remainders are dropped, so every
// returned span satisfies minSize <= length <= maxSize and the spans
// cover the content gaplessly in order, except for dropped remainders.
func pack(contentLen int, cuts []int, cfg Config) []span {
	if contentLen == 0 {
		return nil
	}

	segments := segmentize(contentLen, cuts)

	var spans []span
	current := span{Start: segments[0].Start, End: segments[0].Start}

	flush := func() {
		for current.End-current.Start > cfg.MaxSize {
			spans = append(spans, span{Start: current.Start, End: current.Start + cfg.MaxSize})
			current.Start += cfg.MaxSize
		}
		if current.End-current.Start >= cfg.MinSize {
			spans = append(spans, current)
		}
		// Anything left is a sub-minimum remainder and is dropped.
	}

	for _, seg := range segments {
		merged := seg.End - current.Start
		if current.End > current.Start && merged > cfg.MaxSize && current.End-current.Start >= cfg.MinSize {
			flush()
			current = span{Start: seg.Start, End: seg.Start}
		}
		current.End = seg.End
	}
	flush()

	return spans
}

// segmentize turns cut positions into ordered, gapless segments
// covering [0, contentLen).
func segmentize(contentLen int, cuts []int) []span {
	positions := make([]int, 0, len(cuts)+2)
	positions = append(positions, 0)
	for _, c := range cuts {
		if c > 0 && c < contentLen {
			positions = append(positions, c)
		}
	}
	sort.Ints(positions)

	segments := make([]span, 0, len(positions))
	for i, start := range positions {
		end := contentLen
		if i+1 < len(positions) {
			end = positions[i+1]
		}
		if end > start {
			segments = append(segments, span{Start: start, End: end})
		}
	}
	return segments
}

// materialize converts spans into chunks of the given document.
func materialize(doc *core.Document, spans []span) []*core.Chunk {
	chunks := make([]*core.Chunk, 0, len(spans))
	for _, s := range spans {
		chunks = append(chunks, &core.Chunk{
			Path:        doc.Path,
			Fingerprint: doc.Fingerprint,
			Offset:      s.Start,
			Text:        doc.Content[s.Start:s.End],
		})
	}
	return chunks
}

// lineStart returns the offset of the first byte of the line containing pos.
func lineStart(content string, pos int) int {
	if pos > len(content) {
		pos = len(content)
	}
	for pos > 0 && content[pos-1] != '\n' {
		pos--
	}
	return pos
}
