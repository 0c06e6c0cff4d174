package ingestion

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/counselbase/ai/mock"
	"github.com/poiesic/counselbase/core"
	"github.com/poiesic/counselbase/storage"
	"github.com/poiesic/counselbase/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(t *testing.T, opts ...Option) (*Pipeline, *mock.MockProvider, storage.TranscriptRepository, func()) {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)

	provider := mock.NewMockProvider().(*mock.MockProvider)

	pipeline, err := NewPipeline(repo, provider, opts...)
	require.NoError(t, err)

	cleanup := func() {
		pipeline.Release()
		repo.Close()
		backend.Close()
	}
	return pipeline, provider, repo, cleanup
}

func TestIngest_Basic(t *testing.T) {
	pipeline, _, repo, cleanup := newTestPipeline(t)
	defer cleanup()

	rows := []Row{
		{Line: 2, Context: "I feel anxious", Response: "Tell me about the anxiety"},
		{Line: 3, Context: "I can't sleep", Response: "How long has this gone on?"},
	}

	report, err := pipeline.Ingest(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Ingested)
	assert.Empty(t, report.Skipped)

	count, err := repo.CountTranscripts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIngest_PersistsInInputOrder(t *testing.T) {
	pipeline, _, repo, cleanup := newTestPipeline(t, WithPoolSize(4), WithBatchSize(3))
	defer cleanup()

	var rows []Row
	contexts := []string{"first", "second", "third", "fourth", "fifth", "sixth", "seventh"}
	for i, c := range contexts {
		rows = append(rows, Row{Line: i + 2, Context: c, Response: "response to " + c})
	}

	_, err := pipeline.Ingest(context.Background(), rows)
	require.NoError(t, err)

	var scanned []string
	err = repo.ScanTranscripts(context.Background(), func(record *core.TranscriptRecord) error {
		scanned = append(scanned, record.Context)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, contexts, scanned)
}

func TestIngest_SkipsMalformedRows(t *testing.T) {
	pipeline, provider, repo, cleanup := newTestPipeline(t)
	defer cleanup()

	rows := []Row{
		{Line: 2, Context: "valid context", Response: "valid response"},
		{Line: 3, Context: "", Response: "response without context"},
		{Line: 4, Context: "context without response", Response: ""},
		{Line: 5, Context: "another valid", Response: "another response"},
	}

	embedCallsBefore := provider.GetMockEmbedder().CallCount()

	report, err := pipeline.Ingest(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Ingested)
	require.Len(t, report.Skipped, 2)
	assert.Equal(t, 3, report.Skipped[0].Line)
	assert.ErrorIs(t, report.Skipped[0].Err, core.ErrEmptyContext)
	assert.Equal(t, 4, report.Skipped[1].Line)
	assert.ErrorIs(t, report.Skipped[1].Err, core.ErrEmptyResponse)

	// Only the valid rows reached the provider
	assert.Equal(t, embedCallsBefore+2, provider.GetMockEmbedder().CallCount())

	count, err := repo.CountTranscripts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIngest_ProviderFailureKeepsEarlierBatches(t *testing.T) {
	pipeline, provider, repo, cleanup := newTestPipeline(t, WithBatchSize(2))
	defer cleanup()

	provider.GetMockEmbedder().EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if text == "poison" {
			return nil, errors.New("provider unavailable")
		}
		return []float32{1, 2, 3}, nil
	}

	rows := []Row{
		{Line: 2, Context: "ok one", Response: "r1"},
		{Line: 3, Context: "ok two", Response: "r2"},
		{Line: 4, Context: "poison", Response: "r3"},
		{Line: 5, Context: "never reached", Response: "r4"},
	}

	report, err := pipeline.Ingest(context.Background(), rows)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmbeddingFailed)
	assert.Contains(t, err.Error(), "row 4")

	// The first full batch was persisted before the failure
	assert.Equal(t, 2, report.Ingested)
	count, err := repo.CountTranscripts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIngest_SkipDuplicates(t *testing.T) {
	pipeline, _, repo, cleanup := newTestPipeline(t, WithSkipDuplicates())
	defer cleanup()

	rows := []Row{
		{Line: 2, Context: "same context", Response: "same response"},
		{Line: 3, Context: "same context", Response: "same response"},
		{Line: 4, Context: "distinct", Response: "response"},
	}

	report, err := pipeline.Ingest(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Ingested)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, 3, report.Skipped[0].Line)
	assert.ErrorIs(t, report.Skipped[0].Err, ErrDuplicateRow)

	// A second run over the same data is entirely duplicates
	report, err = pipeline.Ingest(context.Background(), rows[:1])
	require.NoError(t, err)
	assert.Equal(t, 0, report.Ingested)
	require.Len(t, report.Skipped, 1)
	assert.ErrorIs(t, report.Skipped[0].Err, ErrDuplicateRow)

	count, err := repo.CountTranscripts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIngest_DuplicatesAllowedByDefault(t *testing.T) {
	pipeline, _, repo, cleanup := newTestPipeline(t)
	defer cleanup()

	rows := []Row{
		{Line: 2, Context: "same context", Response: "same response"},
		{Line: 3, Context: "same context", Response: "same response"},
	}

	report, err := pipeline.Ingest(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Ingested)

	count, err := repo.CountTranscripts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIngest_EmptyDataset(t *testing.T) {
	pipeline, _, _, cleanup := newTestPipeline(t)
	defer cleanup()

	report, err := pipeline.Ingest(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Ingested)
	assert.Empty(t, report.Skipped)
}

func TestIngestFile_UnsupportedFormat(t *testing.T) {
	pipeline, provider, _, cleanup := newTestPipeline(t)
	defer cleanup()

	embedCallsBefore := provider.GetMockEmbedder().CallCount()

	_, err := pipeline.IngestFile(context.Background(), "dataset.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	// Format errors must surface before any provider call
	assert.Equal(t, embedCallsBefore, provider.GetMockEmbedder().CallCount())
}

func TestNewPipeline_Validation(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	provider := mock.NewMockProvider()

	_, err = NewPipeline(nil, provider)
	assert.ErrorIs(t, err, ErrTranscriptRepositoryRequired)

	_, err = NewPipeline(repo, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)

	_, err = NewPipeline(repo, provider, WithBatchSize(0))
	assert.Error(t, err)
}
