package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for chunks and questions.
// It is generated from database sequences, or by content hashing for
// audio fingerprints.
type ID uint64

// Fingerprint generates a deterministic ID from raw content using BLAKE2b
// hashing. Identical content always produces the same fingerprint, which is
// how repeated ingestion of the same audio is detected and logged.
func Fingerprint(data []byte) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write(data)
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Room is the tenancy scope for chunks and questions, typically one class
// session. Room IDs are opaque strings assigned at creation.
type Room struct {
	Id          string
	Name        string
	Description string
	InsertedAt  time.Time
}

// Chunk is a persisted unit of transcribed audio: the transcription text
// plus its embedding vector, scoped to a room. Chunks are created exactly
// once per successful ingestion and never updated afterwards.
type Chunk struct {
	Id          ID
	RoomId      string
	Text        string    // Transcription of the source audio
	Vector      []float32 // Embedding vector, always the configured dimension
	Fingerprint ID        // BLAKE2b fingerprint of the source audio bytes
	InsertedAt  time.Time
}

// Question is a student question asked against a room, together with the
// generated answer. Answered is false when no chunk in the room cleared the
// relevance threshold; in that case Answer is empty and stays empty.
type Question struct {
	Id         ID
	RoomId     string
	Text       string
	Answer     string
	Answered   bool
	InsertedAt time.Time
}

// RetrievedChunk is a transient similarity-search hit linking a question to
// a chunk that may ground its answer. Score is cosine similarity in [-1, 1].
type RetrievedChunk struct {
	ChunkId ID
	Text    string
	Score   float32
}
