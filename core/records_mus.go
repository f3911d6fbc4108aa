package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the domain types stored in the index. Written by hand
// against the mus-go primitives; field order is part of the on-disk format
// and must not change without a migration.

// IDMUS serializes ID values.
var IDMUS = idMUS{}

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

// VectorMUS serializes embedding vectors.
var VectorMUS = ord.NewSliceSer[float32](varint.Float32)

var stringSliceMUS = ord.NewSliceSer[string](ord.String)

// EntryMUS serializes Entry values.
var EntryMUS = entryMUS{}

type entryMUS struct{}

func (s entryMUS) Marshal(v Entry, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Type, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += ord.String.Marshal(v.SectionName, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Platform, bs[n:])
	n += ord.String.Marshal(v.SourceURL, bs[n:])
	n += ord.String.Marshal(v.Timestamp, bs[n:])
	n += varint.Int.Marshal(v.ChunkIndex, bs[n:])
	return n
}

func (s entryMUS) Unmarshal(bs []byte) (v Entry, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Type, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.SectionName, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Platform, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.SourceURL, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Timestamp, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ChunkIndex, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (s entryMUS) Size(v Entry) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Type)
	size += ord.String.Size(v.Text)
	size += ord.String.Size(v.SectionName)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.Platform)
	size += ord.String.Size(v.SourceURL)
	size += ord.String.Size(v.Timestamp)
	size += varint.Int.Size(v.ChunkIndex)
	return size
}

func (s entryMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = IDMUS.Skip(bs); err != nil {
		return
	}
	for range 7 {
		if n1, err = ord.String.Skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	if n1, err = varint.Int.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	return n + n1, nil
}

var entrySliceMUS = ord.NewSliceSer[Entry](EntryMUS)

// EntityRecordMUS serializes EntityRecord values.
var EntityRecordMUS = entityRecordMUS{}

type entityRecordMUS struct{}

func (s entityRecordMUS) Marshal(v EntityRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.BirthDate, bs[n:])
	n += ord.String.Marshal(v.Affiliation, bs[n:])
	n += stringSliceMUS.Marshal(v.Positions, bs[n:])
	n += ord.String.Marshal(v.ScrapedAt, bs[n:])
	n += entrySliceMUS.Marshal(v.Entries, bs[n:])
	return n
}

func (s entityRecordMUS) Unmarshal(bs []byte) (v EntityRecord, n int, err error) {
	var n1 int
	if v.Id, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.BirthDate, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Affiliation, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Positions, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ScrapedAt, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Entries, n1, err = entrySliceMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (s entityRecordMUS) Size(v EntityRecord) (size int) {
	size = ord.String.Size(v.Id)
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.BirthDate)
	size += ord.String.Size(v.Affiliation)
	size += stringSliceMUS.Size(v.Positions)
	size += ord.String.Size(v.ScrapedAt)
	size += entrySliceMUS.Size(v.Entries)
	return size
}

func (s entityRecordMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = ord.String.Skip(bs); err != nil {
		return
	}
	for range 3 {
		if n1, err = ord.String.Skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	if n1, err = stringSliceMUS.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = ord.String.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = entrySliceMUS.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	return n + n1, nil
}
