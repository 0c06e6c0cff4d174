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


package counselbase

import (
	"log/slog"

	"github.com/poiesic/counselbase/ai"
	"github.com/poiesic/counselbase/ai/openai"
	"github.com/poiesic/counselbase/ingestion"
	"github.com/poiesic/counselbase/lexicon"
	"github.com/poiesic/counselbase/search"
	"github.com/poiesic/counselbase/storage"
	"github.com/poiesic/counselbase/storage/badger"
)

// Database bundles the transcript store, AI provider, and lexicon behind a
// single handle, and builds the search and ingestion components on top.
type Database struct {
	backend  *badger.Backend
	repo     storage.TranscriptRepository
	provider ai.AIProvider
	gate     *lexicon.Gate
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig     *ai.Config
	wordlistPath string
}

// WithAIConfig overrides the default AI provider configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithWordlist sets the wordlist file backing the lexical gate.
// Default is lexicon.DefaultWordlistPath.
func WithWordlist(path string) DatabaseOption {
	return func(o *databaseOptions) {
		if path != "" {
			o.wordlistPath = path
		}
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig:     ai.DefaultConfig(),
		wordlistPath: lexicon.DefaultWordlistPath,
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	// Create transcript repository
	repo, err := badger.NewTranscriptRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Build the lexical gate from the wordlist
	lex, err := lexicon.Open(options.wordlistPath)
	if err != nil {
		repo.Close()
		backend.Close()
		return nil, err
	}

	// Create AI provider with configured settings
	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		repo.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:  backend,
		repo:     repo,
		provider: provider,
		gate:     lexicon.NewGate(lex),
		logger:   slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	// Close AI provider first
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.repo.Close(); err != nil {
		db.logger.Error("error closing transcript repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) TranscriptRepository() storage.TranscriptRepository {
	return db.repo
}

func (db *Database) Provider() ai.AIProvider {
	return db.provider
}

func (db *Database) Gate() *lexicon.Gate {
	return db.gate
}

func (db *Database) NewSearchService(opts ...search.Option) (*search.Service, error) {
	return search.NewService(db.repo, db.provider, db.gate, opts...)
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.repo, db.provider, opts...)
}
