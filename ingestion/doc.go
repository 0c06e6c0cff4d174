// Package ingestion loads counseling transcript datasets into storage.
//
// The Pipeline type manages the ingestion workflow for transcript rows:
//   - Reading rows from CSV or XLSX dataset files
//   - Generating embeddings concurrently using a worker pool
//   - Persisting records in input order
//
// Malformed rows are skipped and reported per row rather than failing the
// run. A provider failure aborts the run; rows persisted before the failure
// are kept.
package ingestion
