package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateTranscriptRecord(t *testing.T) {
	valid := TranscriptRecord{
		Id:         NewRecordID(),
		Context:    "I feel anxious all the time",
		Response:   "Let's explore what triggers that anxiety",
		Vector:     []float32{0.1, 0.2, 0.3},
		InsertedAt: time.Now().UTC(),
	}

	tests := []struct {
		name    string
		mutate  func(r *TranscriptRecord)
		wantErr error
	}{
		{
			name:    "valid record",
			mutate:  func(r *TranscriptRecord) {},
			wantErr: nil,
		},
		{
			name:    "empty context",
			mutate:  func(r *TranscriptRecord) { r.Context = "" },
			wantErr: ErrEmptyContext,
		},
		{
			name:    "empty response",
			mutate:  func(r *TranscriptRecord) { r.Response = "" },
			wantErr: ErrEmptyResponse,
		},
		{
			name:    "missing vector",
			mutate:  func(r *TranscriptRecord) { r.Vector = nil },
			wantErr: ErrMissingVector,
		},
		{
			name:    "unassigned seq and id are valid",
			mutate:  func(r *TranscriptRecord) { r.Seq = 0; r.Id = "" },
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := valid
			record.Vector = append([]float32(nil), valid.Vector...)
			tt.mutate(&record)

			err := ValidateTranscriptRecord(&record)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateTranscriptRecord() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTranscriptRecord() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidTranscriptRecord) {
				t.Errorf("ValidateTranscriptRecord() error = %v, want wrapped %v", err, ErrInvalidTranscriptRecord)
			}
		})
	}
}

func TestValidateTranscriptRecord_Nil(t *testing.T) {
	err := ValidateTranscriptRecord(nil)
	if !errors.Is(err, ErrInvalidTranscriptRecord) {
		t.Errorf("ValidateTranscriptRecord(nil) error = %v, want %v", err, ErrInvalidTranscriptRecord)
	}
}

func TestValidateVectorDimensions(t *testing.T) {
	if err := ValidateVectorDimensions(make([]float32, 1536), 1536); err != nil {
		t.Errorf("ValidateVectorDimensions() unexpected error: %v", err)
	}

	err := ValidateVectorDimensions(make([]float32, 384), 1536)
	if !errors.Is(err, ErrVectorDimensions) {
		t.Errorf("ValidateVectorDimensions() error = %v, want %v", err, ErrVectorDimensions)
	}
}
