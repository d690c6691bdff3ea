package core

import (
	"time"

	mus "github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for persisted records. The wire format is the fields of
// each struct in declaration order; timestamps are microseconds since the
// Unix epoch.
var (
	IDMUS       = idMUS{}
	TimeMUS     = timeMUS{}
	VectorMUS   = ord.NewSliceSer[float32](raw.Float32)
	RoomMUS     = roomMUS{}
	ChunkMUS    = chunkMUS{}
	QuestionMUS = questionMUS{}
)

var (
	_ mus.Serializer[ID]        = IDMUS
	_ mus.Serializer[time.Time] = TimeMUS
	_ mus.Serializer[Room]      = RoomMUS
	_ mus.Serializer[Chunk]     = ChunkMUS
	_ mus.Serializer[Question]  = QuestionMUS
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type timeMUS struct{}

func (timeMUS) Marshal(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func (timeMUS) Unmarshal(bs []byte) (time.Time, int, error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(v).UTC(), n, nil
}

func (timeMUS) Size(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

func (timeMUS) Skip(bs []byte) (int, error) {
	return varint.Int64.Skip(bs)
}

type roomMUS struct{}

func (roomMUS) Marshal(r Room, bs []byte) (n int) {
	n = ord.String.Marshal(r.Id, bs)
	n += ord.String.Marshal(r.Name, bs[n:])
	n += ord.String.Marshal(r.Description, bs[n:])
	n += TimeMUS.Marshal(r.InsertedAt, bs[n:])
	return n
}

func (roomMUS) Unmarshal(bs []byte) (r Room, n int, err error) {
	var n1 int
	r.Id, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	r.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Description, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.InsertedAt, n1, err = TimeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (roomMUS) Size(r Room) int {
	return ord.String.Size(r.Id) +
		ord.String.Size(r.Name) +
		ord.String.Size(r.Description) +
		TimeMUS.Size(r.InsertedAt)
}

func (roomMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 3; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = TimeMUS.Skip(bs[n:])
	n += n1
	return
}

type chunkMUS struct{}

func (chunkMUS) Marshal(c Chunk, bs []byte) (n int) {
	n = IDMUS.Marshal(c.Id, bs)
	n += ord.String.Marshal(c.RoomId, bs[n:])
	n += ord.String.Marshal(c.Text, bs[n:])
	n += VectorMUS.Marshal(c.Vector, bs[n:])
	n += IDMUS.Marshal(c.Fingerprint, bs[n:])
	n += TimeMUS.Marshal(c.InsertedAt, bs[n:])
	return n
}

func (chunkMUS) Unmarshal(bs []byte) (c Chunk, n int, err error) {
	var n1 int
	c.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	c.RoomId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Vector, n1, err = VectorMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Fingerprint, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.InsertedAt, n1, err = TimeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (chunkMUS) Size(c Chunk) int {
	return IDMUS.Size(c.Id) +
		ord.String.Size(c.RoomId) +
		ord.String.Size(c.Text) +
		VectorMUS.Size(c.Vector) +
		IDMUS.Size(c.Fingerprint) +
		TimeMUS.Size(c.InsertedAt)
}

func (chunkMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = IDMUS.Skip(bs)
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
	n1, err = VectorMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = IDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = TimeMUS.Skip(bs[n:])
	n += n1
	return
}

type questionMUS struct{}

func (questionMUS) Marshal(q Question, bs []byte) (n int) {
	n = IDMUS.Marshal(q.Id, bs)
	n += ord.String.Marshal(q.RoomId, bs[n:])
	n += ord.String.Marshal(q.Text, bs[n:])
	n += ord.String.Marshal(q.Answer, bs[n:])
	n += ord.Bool.Marshal(q.Answered, bs[n:])
	n += TimeMUS.Marshal(q.InsertedAt, bs[n:])
	return n
}

func (questionMUS) Unmarshal(bs []byte) (q Question, n int, err error) {
	var n1 int
	q.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	q.RoomId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	q.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	q.Answer, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	q.Answered, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	q.InsertedAt, n1, err = TimeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (questionMUS) Size(q Question) int {
	return IDMUS.Size(q.Id) +
		ord.String.Size(q.RoomId) +
		ord.String.Size(q.Text) +
		ord.String.Size(q.Answer) +
		ord.Bool.Size(q.Answered) +
		TimeMUS.Size(q.InsertedAt)
}

func (questionMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	for i := 0; i < 3; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = ord.Bool.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = TimeMUS.Skip(bs[n:])
	n += n1
	return
}
