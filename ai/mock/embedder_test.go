package mock

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	embedder := NewMockEmbedder()

	first, err := embedder.EmbedText(context.Background(), "I feel anxious")
	require.NoError(t, err)
	second, err := embedder.EmbedText(context.Background(), "I feel anxious")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, DefaultDimensions)
	assert.Equal(t, 2, embedder.CallCount())
}

func TestMockEmbedder_ConcurrentCalls(t *testing.T) {
	embedder := NewMockEmbedder()

	// The ingestion pool embeds a batch from many goroutines at once; the
	// call counter must stay exact under that load.
	const goroutines = 32
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			_, err := embedder.EmbedText(context.Background(), "concurrent text")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines, embedder.CallCount())
}

func TestMockEmbedder_Reset(t *testing.T) {
	embedder := NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1}, nil
	}

	_, err := embedder.EmbedText(context.Background(), "text")
	require.NoError(t, err)
	require.Equal(t, 1, embedder.CallCount())

	embedder.Reset()
	assert.Equal(t, 0, embedder.CallCount())
	assert.Nil(t, embedder.EmbedTextFunc)
}

func TestMockCompleter_ConcurrentCalls(t *testing.T) {
	completer := NewMockCompleter()

	const goroutines = 32
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			_, err := completer.Complete(context.Background(), nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines, completer.CallCount())
}
