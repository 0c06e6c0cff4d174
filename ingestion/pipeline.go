package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/counselbase/ai"
	"github.com/poiesic/counselbase/core"
	"github.com/poiesic/counselbase/storage"
)

// defaultBatchSize is the number of rows embedded per batch.
const defaultBatchSize = 32

// RowError records why a dataset row was skipped.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Report summarizes an ingestion run.
type Report struct {
	// Ingested is the number of rows persisted.
	Ingested int
	// Skipped lists rows that were not persisted and why.
	Skipped []RowError
}

// Pipeline orchestrates the ingestion of transcript datasets.
// Embeddings for a batch are generated concurrently on a worker pool;
// records are persisted strictly in input order.
type Pipeline struct {
	repository     storage.TranscriptRepository
	embedder       ai.Embedder
	pool           *ants.Pool
	batchSize      int
	skipDuplicates bool
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets the number of rows embedded per batch.
// Default is 32.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return fmt.Errorf("batch size must be positive, got %d", size)
		}
		p.batchSize = size
		return nil
	}
}

// WithSkipDuplicates makes the pipeline skip rows whose content fingerprint
// already exists in the corpus. The check happens before embedding, so
// duplicate rows never reach the provider.
func WithSkipDuplicates() Option {
	return func(p *Pipeline) error {
		p.skipDuplicates = true
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	repository storage.TranscriptRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrTranscriptRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository: repository,
		embedder:   provider.Embedder(),
		pool:       pool,
		batchSize:  defaultBatchSize,
		logger:     slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestFile reads a dataset file and ingests its rows.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (*Report, error) {
	rows, err := OpenDataset(path)
	if err != nil {
		return nil, err
	}
	return p.Ingest(ctx, rows)
}

// Ingest embeds and persists dataset rows.
//
// Rows with an empty context or response are skipped and reported; they do
// not fail the run. A provider failure aborts the run with an error naming
// the offending row; batches persisted before the failure are kept and the
// partial report is returned alongside the error.
func (p *Pipeline) Ingest(ctx context.Context, rows []Row) (*Report, error) {
	report := &Report{}

	valid := p.filterRows(ctx, rows, report)

	p.logger.Info("ingesting dataset rows",
		"rows", len(rows), "valid", len(valid), "skipped", len(report.Skipped))

	for start := 0; start < len(valid); start += p.batchSize {
		end := start + p.batchSize
		if end > len(valid) {
			end = len(valid)
		}
		batch := valid[start:end]

		records, err := p.embedBatch(ctx, batch)
		if err != nil {
			return report, err
		}

		if _, err := p.repository.AddTranscripts(ctx, records...); err != nil {
			return report, err
		}
		report.Ingested += len(records)
	}

	return report, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// filterRows drops malformed and, when configured, duplicate rows,
// recording each skip in the report.
func (p *Pipeline) filterRows(ctx context.Context, rows []Row, report *Report) []Row {
	valid := make([]Row, 0, len(rows))
	seen := make(map[core.Fingerprint]bool)

	for _, row := range rows {
		if row.Context == "" {
			report.Skipped = append(report.Skipped, RowError{Line: row.Line, Err: core.ErrEmptyContext})
			continue
		}
		if row.Response == "" {
			report.Skipped = append(report.Skipped, RowError{Line: row.Line, Err: core.ErrEmptyResponse})
			continue
		}

		if p.skipDuplicates {
			fp := core.FingerprintOf(row.Context, row.Response)
			if seen[fp] {
				report.Skipped = append(report.Skipped, RowError{Line: row.Line, Err: fmt.Errorf("%w: matches earlier row", ErrDuplicateRow)})
				continue
			}
			existing, err := p.repository.FindByFingerprint(ctx, fp)
			if err != nil {
				p.logger.Warn("fingerprint lookup failed, ingesting row anyway", "line", row.Line, "err", err)
			} else if len(existing) > 0 {
				report.Skipped = append(report.Skipped, RowError{Line: row.Line, Err: fmt.Errorf("%w: matches stored record", ErrDuplicateRow)})
				continue
			}
			seen[fp] = true
		}

		valid = append(valid, row)
	}

	return valid
}

// embedBatch embeds a batch of rows concurrently and returns records in the
// batch's input order.
func (p *Pipeline) embedBatch(ctx context.Context, batch []Row) ([]*core.TranscriptRecord, error) {
	vectors := make([][]float32, len(batch))
	errs := make([]error, len(batch))

	var wg sync.WaitGroup
	for i, row := range batch {
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			vectors[i], errs[i] = p.embedder.EmbedText(ctx, row.Context)
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrEmbeddingFailed, batch[i].Line, err)
		}
	}

	records := make([]*core.TranscriptRecord, len(batch))
	for i, row := range batch {
		records[i] = &core.TranscriptRecord{
			Context:  row.Context,
			Response: row.Response,
			Vector:   vectors[i],
		}
	}

	return records, nil
}
