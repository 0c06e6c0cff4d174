package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// EmbeddingDimensions is the vector dimension of the corpus.
// Every stored embedding has exactly this length.
const EmbeddingDimensions = 1536

// RecordID is the external identity of a transcript record.
// It is a UUID string, assigned once on creation and immutable afterwards.
type RecordID string

// NewRecordID generates a fresh random RecordID.
func NewRecordID() RecordID {
	return RecordID(uuid.NewString())
}

// Seq is the storage-assigned insertion sequence of a record.
// It orders the corpus by insertion and breaks distance ties deterministically.
type Seq uint64

// Fingerprint is a content hash over a record's context and response.
// Identical (context, response) pairs produce identical fingerprints.
type Fingerprint uint64

// FingerprintOf computes the fingerprint of a (context, response) pair
// using BLAKE2b hashing.
func FingerprintOf(context, response string) Fingerprint {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(context))
	h.Write([]byte{0})
	h.Write([]byte(response))
	sum := h.Sum(nil)
	return Fingerprint(binary.LittleEndian.Uint64(sum))
}

// TranscriptRecord is one indexed counseling exchange: a patient statement
// (Context), the counselor's reply (Response), and the embedding of the
// context. A record is never persisted without its embedding; the triple is
// written atomically.
type TranscriptRecord struct {
	Seq         Seq       // assigned by storage, insertion order
	Id          RecordID  // assigned on creation, immutable
	Context     string    // patient statement being indexed
	Response    string    // counselor reply associated with it
	Vector      []float32 // embedding of Context, length EmbeddingDimensions
	Fingerprint Fingerprint
	InsertedAt  time.Time
}

// Example is the caller-facing projection of a transcript record.
// Distance and identity are deliberately not exposed.
type Example struct {
	Context  string
	Response string
}

// RankedTranscript is a record paired with its cosine distance to a query
// vector. Lower distance means more relevant.
type RankedTranscript struct {
	Record   *TranscriptRecord
	Distance float32
}
