package storage

import (
	"testing"
	"time"

	"github.com/poiesic/counselbase/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalSeq(t *testing.T) {
	tests := []struct {
		name string
		seq  core.Seq
	}{
		{"zero", core.Seq(0)},
		{"small", core.Seq(42)},
		{"max uint64", core.Seq(18446744073709551615)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalSeq(tt.seq)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalSeq(data)
			require.NoError(t, err)
			assert.Equal(t, tt.seq, decoded)
		})
	}
}

func TestUnmarshalSeq_Invalid(t *testing.T) {
	_, err := UnmarshalSeq([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalTranscriptRecord(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name   string
		record *core.TranscriptRecord
	}{
		{
			name: "minimal record",
			record: &core.TranscriptRecord{
				Seq:        1,
				Id:         core.NewRecordID(),
				Context:    "I feel overwhelmed",
				Response:   "Tell me more about that feeling",
				InsertedAt: now,
			},
		},
		{
			name: "record with embedding",
			record: &core.TranscriptRecord{
				Seq:         2,
				Id:          core.NewRecordID(),
				Context:     "I can't sleep at night",
				Response:    "How long has this been going on?",
				Vector:      []float32{0.1, 0.2, 0.3, 0.4, 0.5},
				Fingerprint: core.FingerprintOf("I can't sleep at night", "How long has this been going on?"),
				InsertedAt:  now,
			},
		},
		{
			name: "unicode contents",
			record: &core.TranscriptRecord{
				Seq:        3,
				Id:         core.NewRecordID(),
				Context:    "Je me sens très anxieux 😟",
				Response:   "Parlons-en ensemble",
				Vector:     []float32{0.5},
				InsertedAt: now,
			},
		},
		{
			name: "full-size embedding",
			record: &core.TranscriptRecord{
				Seq:        4,
				Id:         core.NewRecordID(),
				Context:    "context",
				Response:   "response",
				Vector:     make([]float32, core.EmbeddingDimensions),
				InsertedAt: now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalTranscriptRecord(tt.record)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalTranscriptRecord(data)
			require.NoError(t, err)
			require.NotNil(t, decoded)

			assert.Equal(t, tt.record.Seq, decoded.Seq)
			assert.Equal(t, tt.record.Id, decoded.Id)
			assert.Equal(t, tt.record.Context, decoded.Context)
			assert.Equal(t, tt.record.Response, decoded.Response)
			assert.Equal(t, tt.record.Fingerprint, decoded.Fingerprint)
			assert.True(t, tt.record.InsertedAt.Equal(decoded.InsertedAt))
			if len(tt.record.Vector) == 0 {
				assert.Empty(t, decoded.Vector)
			} else {
				assert.Equal(t, tt.record.Vector, decoded.Vector)
			}
		})
	}
}

func TestUnmarshalTranscriptRecord_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"invalid data", []byte{0xFF, 0xFF, 0xFF}},
		{"partial data", []byte{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalTranscriptRecord(tt.data)
			assert.Error(t, err)
		})
	}
}
