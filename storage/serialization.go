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


package storage

import (
	"github.com/poiesic/counselbase/core"
)

// MarshalSeq serializes a Seq to bytes.
func MarshalSeq(seq core.Seq) []byte {
	buf := make([]byte, core.SeqMUS.Size(seq))
	core.SeqMUS.Marshal(seq, buf)
	return buf
}

// UnmarshalSeq deserializes a Seq from bytes.
func UnmarshalSeq(data []byte) (core.Seq, error) {
	seq, _, err := core.SeqMUS.Unmarshal(data)
	return seq, err
}

// MarshalTranscriptRecord serializes a TranscriptRecord to bytes.
func MarshalTranscriptRecord(record *core.TranscriptRecord) []byte {
	buf := make([]byte, core.TranscriptRecordMUS.Size(*record))
	core.TranscriptRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalTranscriptRecord deserializes a TranscriptRecord from bytes.
func UnmarshalTranscriptRecord(data []byte) (*core.TranscriptRecord, error) {
	record, _, err := core.TranscriptRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
