package storage

import (
	"context"

	"github.com/poiesic/counselbase/core"
)

// TranscriptRepository provides operations for managing the transcript corpus.
// Implementations must be thread-safe and support concurrent access.
type TranscriptRepository interface {
	// AddTranscripts adds one or more transcript records to storage.
	// Assigns a fresh Seq to every record, a RecordID to records without one,
	// computes the content fingerprint, and sets InsertedAt. Each record is
	// written atomically together with its indexes. Records failing domain
	// validation (empty context/response, missing embedding) are rejected and
	// nothing from the call is persisted.
	// Returns the records with generated fields populated.
	AddTranscripts(ctx context.Context, records ...*core.TranscriptRecord) ([]*core.TranscriptRecord, error)

	// UpdateTranscripts rewrites existing records in place. Only the reembed
	// maintenance path uses this; regular corpus records are immutable.
	// Returns ErrNotFound if any record doesn't exist.
	UpdateTranscripts(ctx context.Context, records ...*core.TranscriptRecord) ([]*core.TranscriptRecord, error)

	// GetTranscript retrieves a single record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetTranscript(ctx context.Context, id core.RecordID) (*core.TranscriptRecord, error)

	// GetTranscripts retrieves multiple records by their IDs.
	// Returns only the records that exist (no error for missing records).
	GetTranscripts(ctx context.Context, ids ...core.RecordID) ([]*core.TranscriptRecord, error)

	// FindByFingerprint retrieves the records whose content fingerprint
	// matches, in insertion order. Returns an empty slice when none match.
	FindByFingerprint(ctx context.Context, fingerprint core.Fingerprint) ([]*core.TranscriptRecord, error)

	// CountTranscripts returns the number of records in the corpus.
	CountTranscripts(ctx context.Context) (int, error)

	// ScanTranscripts calls fn for every record in insertion (Seq) order.
	// Iteration stops at the first error from fn.
	ScanTranscripts(ctx context.Context, fn func(record *core.TranscriptRecord) error) error

	// FindNearest returns the k records whose embeddings are closest to the
	// given vector by cosine distance, ascending (closest first). Ties break
	// by insertion order. Returns fewer than k results when the corpus is
	// smaller; an empty corpus yields an empty slice, not an error.
	FindNearest(ctx context.Context, vector []float32, k int) ([]*core.RankedTranscript, error)

	// Close closes the repository and releases resources.
	Close() error
}
