package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/counselbase/ai"
	"github.com/poiesic/counselbase/core"
	"github.com/poiesic/counselbase/lexicon"
	"github.com/poiesic/counselbase/storage"
)

// DefaultLimit is the number of examples returned when no limit is given.
const DefaultLimit = 5

// Outcome classifies how a search concluded.
type Outcome int

const (
	// OutcomeMatched means the query passed the gate and examples were found.
	OutcomeMatched Outcome = iota
	// OutcomeRejected means the lexical gate rejected the query.
	OutcomeRejected
	// OutcomeNoMatch means the query passed the gate but the corpus held
	// nothing to return.
	OutcomeNoMatch
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeRejected:
		return "rejected"
	case OutcomeNoMatch:
		return "no_match"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single search.
type Result struct {
	Outcome Outcome
	// Examples holds the retrieved (context, response) pairs, nearest first.
	// Empty unless Outcome is OutcomeMatched.
	Examples []*core.Example
	// Unknown lists the query tokens the gate did not recognize.
	// Populated only when Outcome is OutcomeRejected.
	Unknown []string
}

// Service retrieves counseling examples relevant to a query.
type Service struct {
	repository storage.TranscriptRepository
	embedder   ai.Embedder
	gate       *lexicon.Gate
	limit      int
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithLimit sets the number of examples returned per search.
// Default is DefaultLimit.
func WithLimit(limit int) Option {
	return func(s *Service) error {
		if limit <= 0 {
			return fmt.Errorf("limit must be positive, got %d", limit)
		}
		s.limit = limit
		return nil
	}
}

// NewService creates a new search service.
func NewService(
	repository storage.TranscriptRepository,
	provider ai.AIProvider,
	gate *lexicon.Gate,
	opts ...Option,
) (*Service, error) {
	if repository == nil {
		return nil, ErrTranscriptRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if gate == nil {
		return nil, ErrGateRequired
	}

	s := &Service{
		repository: repository,
		embedder:   provider.Embedder(),
		gate:       gate,
		limit:      DefaultLimit,
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search retrieves the examples most relevant to the query.
func (s *Service) Search(ctx context.Context, query string) (*Result, error) {
	return s.SearchWithMonitor(ctx, query, nil)
}

// SearchWithMonitor retrieves the examples most relevant to the query with
// monitoring. The monitor receives callbacks at each stage of the search.
func (s *Service) SearchWithMonitor(ctx context.Context, query string, monitor SearchMonitor) (*Result, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	// 1. Lexical gate. A rejected query is a successful search with a
	// rejection outcome; the provider is never consulted.
	if !s.gate.Accepts(query) {
		unknown := s.gate.Unknown(query)
		s.logger.Debug("query rejected by lexical gate", "query", query, "unknown", unknown)
		monitor.QueryRejected(query, unknown)

		result := &Result{Outcome: OutcomeRejected, Unknown: unknown}
		monitor.Finish(result)
		return result, nil
	}

	// 2. Embed the query
	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}
	monitor.AfterEmbedding(len(embedding))

	// 3. Rank the corpus by cosine distance
	ranked, err := s.repository.FindNearest(ctx, embedding, s.limit)
	if err != nil {
		s.logger.Error("error ranking transcripts", "err", err)
		return nil, err
	}
	monitor.AfterRanking(ranked)

	if len(ranked) == 0 {
		result := &Result{Outcome: OutcomeNoMatch}
		monitor.Finish(result)
		return result, nil
	}

	// 4. Project ranked records to examples, nearest first
	examples := make([]*core.Example, 0, len(ranked))
	for _, rt := range ranked {
		examples = append(examples, &core.Example{
			Context:  rt.Record.Context,
			Response: rt.Record.Response,
		})
	}

	result := &Result{Outcome: OutcomeMatched, Examples: examples}
	monitor.Finish(result)
	return result, nil
}
