package reembed

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/poiesic/counselbase/ai/mock"
	"github.com/poiesic/counselbase/core"
	"github.com/poiesic/counselbase/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReembedder_Run(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	// Seed records with stale placeholder vectors
	for i := 0; i < 5; i++ {
		_, err := repo.AddTranscripts(ctx, &core.TranscriptRecord{
			Context:  "context",
			Response: "response",
			Vector:   []float32{42},
		})
		require.NoError(t, err)
	}

	config := &Config{
		BatchSize:      2,
		ReportInterval: 2,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}

	var progress bytes.Buffer
	r := NewReembedder(repo, mock.NewMockEmbedder(), config, &progress)

	require.NoError(t, r.Run(ctx))

	// Every record carries a fresh vector
	err = repo.ScanTranscripts(ctx, func(record *core.TranscriptRecord) error {
		assert.Equal(t, mock.DefaultDimensions, len(record.Vector))
		return nil
	})
	require.NoError(t, err)

	assert.Contains(t, progress.String(), "Reembedding complete")
}

func TestReembedder_EmptyDatabase(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	var progress bytes.Buffer
	r := NewReembedder(repo, mock.NewMockEmbedder(), nil, &progress)

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, progress.String(), "No records found")
}
