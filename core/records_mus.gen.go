// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	slices6kwjΔOrYh7pGKncjΣxmuQΞΞ = ord.NewSliceSer[float32](varint.Float32)
)

var SeqMUS = seqMUS{}

type seqMUS struct{}

func (s seqMUS) Marshal(v Seq, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s seqMUS) Unmarshal(bs []byte) (v Seq, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = Seq(tmp)
	return
}

func (s seqMUS) Size(v Seq) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s seqMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var RecordIDMUS = recordIDMUS{}

type recordIDMUS struct{}

func (s recordIDMUS) Marshal(v RecordID, bs []byte) (n int) {
	return ord.String.Marshal(string(v), bs)
}

func (s recordIDMUS) Unmarshal(bs []byte) (v RecordID, n int, err error) {
	tmp, n, err := ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v = RecordID(tmp)
	return
}

func (s recordIDMUS) Size(v RecordID) (size int) {
	return ord.String.Size(string(v))
}

func (s recordIDMUS) Skip(bs []byte) (n int, err error) {
	return ord.String.Skip(bs)
}

var FingerprintMUS = fingerprintMUS{}

type fingerprintMUS struct{}

func (s fingerprintMUS) Marshal(v Fingerprint, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s fingerprintMUS) Unmarshal(bs []byte) (v Fingerprint, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = Fingerprint(tmp)
	return
}

func (s fingerprintMUS) Size(v Fingerprint) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s fingerprintMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var TranscriptRecordMUS = transcriptRecordMUS{}

type transcriptRecordMUS struct{}

func (s transcriptRecordMUS) Marshal(v TranscriptRecord, bs []byte) (n int) {
	n = SeqMUS.Marshal(v.Seq, bs)
	n += RecordIDMUS.Marshal(v.Id, bs[n:])
	n += ord.String.Marshal(v.Context, bs[n:])
	n += ord.String.Marshal(v.Response, bs[n:])
	n += slices6kwjΔOrYh7pGKncjΣxmuQΞΞ.Marshal(v.Vector, bs[n:])
	n += FingerprintMUS.Marshal(v.Fingerprint, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.InsertedAt, bs[n:])
}

func (s transcriptRecordMUS) Unmarshal(bs []byte) (v TranscriptRecord, n int, err error) {
	v.Seq, n, err = SeqMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Id, n1, err = RecordIDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Context, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Response, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = slices6kwjΔOrYh7pGKncjΣxmuQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Fingerprint, n1, err = FingerprintMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s transcriptRecordMUS) Size(v TranscriptRecord) (size int) {
	size = SeqMUS.Size(v.Seq)
	size += RecordIDMUS.Size(v.Id)
	size += ord.String.Size(v.Context)
	size += ord.String.Size(v.Response)
	size += slices6kwjΔOrYh7pGKncjΣxmuQΞΞ.Size(v.Vector)
	size += FingerprintMUS.Size(v.Fingerprint)
	return size + raw.TimeUnixMicro.Size(v.InsertedAt)
}

func (s transcriptRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = SeqMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = RecordIDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slices6kwjΔOrYh7pGKncjΣxmuQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = FingerprintMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
