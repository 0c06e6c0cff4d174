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

import "fmt"

// ValidateTranscriptRecord validates a TranscriptRecord according to domain rules.
//
// Validation rules:
//   - Context must not be empty
//   - Response must not be empty
//   - Vector must not be empty (a record is never stored without its embedding)
//
// NOT validated (populated by storage):
//   - Seq (0 is valid before a sequence is assigned)
//   - Id (empty is valid before creation assigns one)
//   - Fingerprint
func ValidateTranscriptRecord(record *TranscriptRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidTranscriptRecord)
	}

	if record.Context == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTranscriptRecord, ErrEmptyContext)
	}

	if record.Response == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTranscriptRecord, ErrEmptyResponse)
	}

	if len(record.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidTranscriptRecord, ErrMissingVector)
	}

	return nil
}

// ValidateVectorDimensions checks that a vector has the expected length.
func ValidateVectorDimensions(vector []float32, dimensions int) error {
	if len(vector) != dimensions {
		return fmt.Errorf("%w: expected %d, got %d", ErrVectorDimensions, dimensions, len(vector))
	}
	return nil
}
