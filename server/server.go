// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/poiesic/counselbase/ingestion"
	"github.com/poiesic/counselbase/search"
	"github.com/poiesic/counselbase/storage"
)

// Config holds server listen settings.
type Config struct {
	Host string
	Port int
}

// Server is the HTTP server for the counselbase API.
type Server struct {
	searchService *search.Service
	pipeline      *ingestion.Pipeline
	repository    storage.TranscriptRepository
	config        Config
	logger        *slog.Logger
	server        *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	searchService *search.Service,
	pipeline *ingestion.Pipeline,
	repository storage.TranscriptRepository,
	cfg Config,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		searchService: searchService,
		pipeline:      pipeline,
		repository:    repository,
		config:        cfg,
		logger:        logger,
	}
}

// Routes builds the router. Exposed for tests.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Post("/api/search", s.handleSearch)
	r.Post("/api/datasets", s.handleUploadDataset)
	r.Get("/api/status", s.handleStatus)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}
	s.logger.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
