package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/quarryhq/quarry/ai/mock"
	"github.com/quarryhq/quarry/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChunk(text string) *core.Chunk {
	doc := core.NewDocument("pkg/thing.go", text)
	return &core.Chunk{
		Path:        doc.Path,
		Fingerprint: doc.Fingerprint,
		Offset:      0,
		Text:        text,
	}
}

func TestQA_EnrichAttachesMetadata(t *testing.T) {
	completer := mock.NewCompleter()
	completer.Responses["func Add"] = "Q: What does Add do?\nA: It adds two integers."

	enricher, err := NewCodeQA(completer)
	require.NoError(t, err)

	chunk := testChunk("func Add(a, b int) int { return a + b }")
	original := chunk.Text

	enriched, err := enricher.Enrich(context.Background(), chunk)
	require.NoError(t, err)
	assert.Equal(t, original, enriched.Text, "enrichment must never alter chunk text")
	assert.Equal(t, "Q: What does Add do?\nA: It adds two integers.", enriched.Metadata[MetadataKey])
	assert.Equal(t, 1, completer.CallCount(), "one completion per chunk")
}

func TestQA_PromptCarriesPairCountAndText(t *testing.T) {
	completer := mock.NewCompleter()

	enricher, err := NewTextQA(completer, WithPairs(3))
	require.NoError(t, err)

	_, err = enricher.Enrich(context.Background(), testChunk("The cache is fail-open."))
	require.NoError(t, err)

	prompts := completer.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "Generate 3 question and answer pairs")
	assert.Contains(t, prompts[0], "The cache is fail-open.")
}

func TestQA_EmptyCompletionLeavesChunkUnenriched(t *testing.T) {
	completer := mock.NewCompleter()
	completer.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
		return "   \n", nil
	}

	enricher, err := NewTextQA(completer)
	require.NoError(t, err)

	enriched, err := enricher.Enrich(context.Background(), testChunk("some text"))
	require.NoError(t, err)
	assert.NotContains(t, enriched.Metadata, MetadataKey)
}

func TestQA_CompletionErrorPropagates(t *testing.T) {
	wantErr := errors.New("model unavailable")
	completer := mock.NewCompleter()
	completer.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", wantErr
	}

	enricher, err := NewCodeQA(completer)
	require.NoError(t, err)

	_, err = enricher.Enrich(context.Background(), testChunk("func main() {}"))
	assert.ErrorIs(t, err, wantErr)
}

func TestQA_ConstructorValidation(t *testing.T) {
	_, err := NewCodeQA(nil)
	assert.ErrorIs(t, err, ErrCompleterRequired)

	_, err = NewTextQA(mock.NewCompleter(), WithPairs(0))
	assert.ErrorIs(t, err, ErrInvalidPairCount)
}

func TestQA_Names(t *testing.T) {
	code, err := NewCodeQA(mock.NewCompleter())
	require.NoError(t, err)
	text, err := NewTextQA(mock.NewCompleter())
	require.NoError(t, err)

	assert.Equal(t, "code_qa", code.Name())
	assert.Equal(t, "text_qa", text.Name())
	assert.True(t, strings.HasSuffix(code.Name(), "_qa"))
}
