package ingestion

import "errors"

var (
	// ErrTranscriptRepositoryRequired is returned when a transcript repository is not provided.
	ErrTranscriptRepositoryRequired = errors.New("transcript repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrUnsupportedFormat is returned for dataset files that are neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")

	// ErrMissingColumns is returned when a dataset lacks the Context or Response column.
	ErrMissingColumns = errors.New("dataset missing Context or Response column")

	// ErrEmbeddingFailed is returned when the provider cannot embed a row.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrDuplicateRow reports a row skipped because its content fingerprint
	// already exists, either earlier in the run or in the store.
	ErrDuplicateRow = errors.New("duplicate row")
)
