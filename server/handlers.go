package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/counselbase/core"
	"github.com/poiesic/counselbase/ingestion"
	"github.com/poiesic/counselbase/search"
)

// datasetFormField is the multipart form field carrying the dataset file.
const datasetFormField = "training_dataset"

// maxDatasetSize caps uploaded dataset files at 64 MiB.
const maxDatasetSize = 64 << 20

const noMatchMessage = "no relevant example found"

type searchRequest struct {
	Query string `json:"query"`
}

type exampleDTO struct {
	Context  string `json:"context"`
	Response string `json:"response"`
}

type searchResponse struct {
	Success bool         `json:"success"`
	Type    string       `json:"type"`
	Data    []exampleDTO `json:"data"`
	Reason  string       `json:"reason,omitempty"`
	Message string       `json:"message,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}

	s.logger.Debug("search request", "query", req.Query)

	result, err := s.searchService.Search(r.Context(), req.Query)
	if err != nil {
		s.logger.Error("search failed", "err", err)
		if errors.Is(err, search.ErrEmbeddingFailed) {
			s.respondError(w, http.StatusBadGateway, "embedding provider unavailable")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := searchResponse{
		Success: true,
		Type:    "database_search",
		Data:    []exampleDTO{},
	}

	switch result.Outcome {
	case search.OutcomeMatched:
		for _, ex := range result.Examples {
			resp.Data = append(resp.Data, exampleDTO{Context: ex.Context, Response: ex.Response})
		}
	case search.OutcomeRejected:
		resp.Reason = "query_rejected"
		resp.Message = noMatchMessage
	case search.OutcomeNoMatch:
		resp.Reason = "no_match"
		resp.Message = noMatchMessage
	}

	s.respondJSON(w, http.StatusOK, resp)
}

type rowErrorDTO struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

type ingestResponse struct {
	Success  bool          `json:"success"`
	Ingested int           `json:"ingested"`
	Skipped  []rowErrorDTO `json:"skipped"`
}

func (s *Server) handleUploadDataset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDatasetSize)

	file, header, err := r.FormFile(datasetFormField)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing "+datasetFormField+" file")
		return
	}
	defer file.Close()

	// The pipeline dispatches on the extension, so keep it when staging
	// the upload to a temp file.
	ext := filepath.Ext(header.Filename)
	tmp, err := os.CreateTemp("", "dataset-*"+ext)
	if err != nil {
		s.logger.Error("failed to stage dataset upload", "err", err)
		s.respondError(w, http.StatusInternalServerError, "failed to stage upload")
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		s.logger.Error("failed to stage dataset upload", "err", err)
		s.respondError(w, http.StatusInternalServerError, "failed to stage upload")
		return
	}
	if err := tmp.Close(); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to stage upload")
		return
	}

	s.logger.Info("ingesting uploaded dataset", "filename", header.Filename)

	report, err := s.pipeline.IngestFile(r.Context(), tmp.Name())
	if err != nil {
		s.logger.Error("dataset ingestion failed", "filename", header.Filename, "err", err)
		switch {
		case errors.Is(err, ingestion.ErrUnsupportedFormat), errors.Is(err, ingestion.ErrMissingColumns):
			s.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ingestion.ErrEmbeddingFailed):
			s.respondError(w, http.StatusBadGateway, err.Error())
		default:
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	resp := ingestResponse{
		Success:  true,
		Ingested: report.Ingested,
		Skipped:  []rowErrorDTO{},
	}
	for _, re := range report.Skipped {
		resp.Skipped = append(resp.Skipped, rowErrorDTO{Line: re.Line, Error: re.Err.Error()})
	}

	s.respondJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	count, err := s.repository.CountTranscripts(r.Context())
	if err != nil {
		s.logger.Error("status: count transcripts failed", "err", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"transcripts":          count,
		"embedding_dimensions": core.EmbeddingDimensions,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
