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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidTranscriptRecord indicates a TranscriptRecord failed validation.
	ErrInvalidTranscriptRecord = errors.New("invalid transcript record")

	// ErrEmptyContext indicates the Context field is empty.
	ErrEmptyContext = errors.New("context cannot be empty")

	// ErrEmptyResponse indicates the Response field is empty.
	ErrEmptyResponse = errors.New("response cannot be empty")

	// ErrMissingVector indicates a record has no embedding vector.
	ErrMissingVector = errors.New("embedding vector cannot be empty")

	// ErrVectorDimensions indicates an embedding with the wrong dimension.
	ErrVectorDimensions = errors.New("embedding vector has wrong dimensions")
)
