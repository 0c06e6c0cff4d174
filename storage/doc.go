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


// Package storage provides the storage abstraction layer for counselbase.
//
// This package defines the repository interface that decouples the transcript
// store from business logic, allowing different backends (BadgerDB, in-memory,
// etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Public backend constructors return the storage.TranscriptRepository
// interface to enforce abstraction:
//
//	repo, err := badger.NewTranscriptRepository(backend)
//
// Internal constructors may return concrete types since they're only used
// within the implementation package.
//
// # Thread Safety
//
// Repository implementations must be thread-safe. The corpus is an
// append-mostly store: each record's (context, response, embedding) triple is
// written atomically, so a reader never observes a record with a missing
// embedding. A search running concurrently with an in-progress ingest may or
// may not observe the newest rows; no transactional isolation beyond the
// backend's atomic insert is promised.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and timeout
// support.
package storage
