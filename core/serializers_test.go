package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkMUS_RoundTrip(t *testing.T) {
	chunk := Chunk{
		Id:          42,
		RoomId:      "room-1",
		Text:        "The mitochondria is the powerhouse of the cell",
		Vector:      []float32{0.25, -0.5, 0.75, 1.0},
		Fingerprint: Fingerprint([]byte("audio")),
		InsertedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}

	bs := make([]byte, ChunkMUS.Size(chunk))
	n := ChunkMUS.Marshal(chunk, bs)
	require.Equal(t, len(bs), n)

	got, n, err := ChunkMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, len(bs), n)
	assert.Equal(t, chunk, got)
}

func TestQuestionMUS_RoundTrip(t *testing.T) {
	t.Run("answered", func(t *testing.T) {
		q := Question{
			Id:         7,
			RoomId:     "room-2",
			Text:       "What did the lecture cover?",
			Answer:     "Cell respiration.",
			Answered:   true,
			InsertedAt: time.Now().UTC().Truncate(time.Microsecond),
		}

		bs := make([]byte, QuestionMUS.Size(q))
		QuestionMUS.Marshal(q, bs)

		got, _, err := QuestionMUS.Unmarshal(bs)
		require.NoError(t, err)
		assert.Equal(t, q, got)
	})

	t.Run("unanswered keeps empty answer", func(t *testing.T) {
		q := Question{
			Id:         8,
			RoomId:     "room-2",
			Text:       "Off-topic question",
			InsertedAt: time.Now().UTC().Truncate(time.Microsecond),
		}

		bs := make([]byte, QuestionMUS.Size(q))
		QuestionMUS.Marshal(q, bs)

		got, _, err := QuestionMUS.Unmarshal(bs)
		require.NoError(t, err)
		assert.False(t, got.Answered)
		assert.Empty(t, got.Answer)
	})
}

func TestRoomMUS_RoundTrip(t *testing.T) {
	room := Room{
		Id:          "f6a2a0c4-room",
		Name:        "Biology 101",
		Description: "Intro lectures",
		InsertedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}

	bs := make([]byte, RoomMUS.Size(room))
	RoomMUS.Marshal(room, bs)

	got, _, err := RoomMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, room, got)
}

func TestChunkMUS_Skip(t *testing.T) {
	chunk := Chunk{
		RoomId: "room-1",
		Text:   "short",
		Vector: []float32{0.1},
	}

	bs := make([]byte, ChunkMUS.Size(chunk))
	ChunkMUS.Marshal(chunk, bs)

	n, err := ChunkMUS.Skip(bs)
	require.NoError(t, err)
	assert.Equal(t, len(bs), n)
}

func TestChunkMUS_TruncatedData(t *testing.T) {
	chunk := Chunk{RoomId: "room-1", Text: "text", Vector: []float32{0.1, 0.2}}

	bs := make([]byte, ChunkMUS.Size(chunk))
	ChunkMUS.Marshal(chunk, bs)

	_, _, err := ChunkMUS.Unmarshal(bs[:len(bs)/2])
	assert.Error(t, err)
}
