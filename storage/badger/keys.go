package badger

import (
	"encoding/binary"

	"github.com/poiesic/counselbase/core"
)

// Key prefixes for different data types
const (
	transcriptPrefix            = "txrec"
	transcriptIDPrefix          = "txrecid"
	transcriptFingerprintPrefix = "txrecfp"
	transcriptSeq               = "txrecseq"
)

// makeTranscriptKey generates the primary key for a transcript record.
// The sequence is written BigEndian so a prefix scan walks records in
// insertion order.
func makeTranscriptKey(seq core.Seq) []byte {
	prefix := transcriptPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(seq))
	return buf
}

// makeTranscriptIDKey generates the key for the external ID index.
// Format: prefix:uuid
func makeTranscriptIDKey(id core.RecordID) []byte {
	return []byte(transcriptIDPrefix + ":" + string(id))
}

// makeTranscriptFingerprintKey generates a composite key for the content
// fingerprint index. Format: prefix:fingerprint:seq, both BigEndian so
// duplicates of the same content scan in insertion order.
func makeTranscriptFingerprintKey(fingerprint core.Fingerprint, seq core.Seq) []byte {
	prefix := transcriptFingerprintPrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(fingerprint))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(seq))
	return buf
}

// makePartialFingerprintKey generates a partial key for fingerprint lookups.
// Format: prefix:fingerprint
func makePartialFingerprintKey(fingerprint core.Fingerprint) []byte {
	prefix := transcriptFingerprintPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(fingerprint))
	return buf
}
