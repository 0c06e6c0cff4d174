// Package server provides the HTTP API for counselbase.
//
// Endpoints:
//   - POST /api/search: retrieve counseling examples for a query
//   - POST /api/datasets: upload and ingest a transcript dataset
//   - GET  /api/status: corpus statistics
//   - GET  /health: liveness check
package server
