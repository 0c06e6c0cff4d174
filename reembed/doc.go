// Package reembed provides functionality for reembedding stored transcript
// records with new or updated embedding models.
//
// This package supports batch processing of transcript records, progress
// tracking, retry logic with exponential backoff, and vector normalization to
// ensure compatibility with cosine distance ranking.
package reembed
