package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPack_SingleSegment(t *testing.T) {
	cfg := Config{MinSize: 50, MaxSize: 1024}

	spans := pack(300, nil, cfg)
	require.Len(t, spans, 1)
	assert.Equal(t, span{Start: 0, End: 300}, spans[0])
}

func TestPack_DropsSubMinimumContent(t *testing.T) {
	cfg := Config{MinSize: 50, MaxSize: 1024}

	assert.Empty(t, pack(40, nil, cfg), "content below the minimum yields no spans")
	assert.Empty(t, pack(0, nil, cfg))
}

func TestPack_MergesSmallSegments(t *testing.T) {
	cfg := Config{MinSize: 50, MaxSize: 100}

	// Four 30-byte segments: greedy packing merges three (90 <= 100),
	// the trailing 30 bytes are below the minimum and dropped.
	spans := pack(120, []int{30, 60, 90}, cfg)
	require.Len(t, spans, 1)
	assert.Equal(t, span{Start: 0, End: 90}, spans[0])
}

func TestPack_HardSplitsOversizedSegments(t *testing.T) {
	cfg := Config{MinSize: 50, MaxSize: 100}

	// One 250-byte segment with no cut positions: raw slicing.
	spans := pack(250, nil, cfg)
	require.Len(t, spans, 3)
	assert.Equal(t, span{Start: 0, End: 100}, spans[0])
	assert.Equal(t, span{Start: 100, End: 200}, spans[1])
	assert.Equal(t, span{Start: 200, End: 250}, spans[2])
}

func TestPack_HardSplitDropsSubMinimumTail(t *testing.T) {
	cfg := Config{MinSize: 50, MaxSize: 100}

	// 230 = 100 + 100 + 30; the 30-byte tail is dropped.
	spans := pack(230, nil, cfg)
	require.Len(t, spans, 2)
	assert.Equal(t, 200, spans[1].End)
}

func TestPack_BoundsAndCoverage(t *testing.T) {
	tests := []struct {
		name       string
		contentLen int
		cuts       []int
		cfg        Config
	}{
		{name: "no cuts", contentLen: 5000, cfg: Config{MinSize: 50, MaxSize: 1024}},
		{name: "regular cuts", contentLen: 5000, cuts: []int{100, 900, 1000, 2500, 2600, 4999}, cfg: Config{MinSize: 50, MaxSize: 1024}},
		{name: "dense cuts", contentLen: 500, cuts: []int{10, 20, 30, 40, 200, 210, 490}, cfg: Config{MinSize: 50, MaxSize: 100}},
		{name: "cuts out of range ignored", contentLen: 300, cuts: []int{-5, 0, 150, 300, 999}, cfg: Config{MinSize: 50, MaxSize: 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := pack(tt.contentLen, tt.cuts, tt.cfg)

			covered := 0
			prevEnd := -1
			for i, s := range spans {
				length := s.End - s.Start
				assert.GreaterOrEqual(t, length, tt.cfg.MinSize, "span %d below minimum", i)
				assert.LessOrEqual(t, length, tt.cfg.MaxSize, "span %d above maximum", i)
				assert.Greater(t, s.Start, prevEnd-1, "span %d overlaps or reorders", i)
				prevEnd = s.End
				covered += length
			}

			// Dropped remainders are each below MinSize, and there is at
			// most one per hard-split run plus one at the end; coverage
			// must account for nearly everything.
			assert.GreaterOrEqual(t, covered, tt.contentLen-(len(spans)+1)*tt.cfg.MinSize,
				"too much content dropped")
		})
	}
}

func TestLineStart(t *testing.T) {
	content := "first\nsecond\nthird"

	assert.Equal(t, 0, lineStart(content, 3))
	assert.Equal(t, 6, lineStart(content, 6))
	assert.Equal(t, 6, lineStart(content, 11))
	assert.Equal(t, 13, lineStart(content, 18))
}
