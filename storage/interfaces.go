package storage

import (
	"context"

	"github.com/poiesic/lectern/core"
)

// Repository provides common lifecycle operations shared across all
// repositories. Implementations must be thread-safe and support concurrent
// access; the store is the single point of serialization between requests,
// and a write committed by one request must be visible to reads issued by
// any subsequently started request.
type Repository interface {
	// Close closes the repository and releases resources.
	Close() error
}

// RoomRepository provides operations for managing rooms.
type RoomRepository interface {
	Repository

	// AddRoom adds a room to storage.
	// Sets InsertedAt if not already set.
	// Returns ErrDuplicateKey if a room with the same ID already exists.
	AddRoom(ctx context.Context, room *core.Room) (*core.Room, error)

	// GetRoom retrieves a room by ID.
	// Returns ErrNotFound if the room doesn't exist.
	GetRoom(ctx context.Context, id string) (*core.Room, error)

	// ListRooms retrieves all rooms, ordered by ID.
	ListRooms(ctx context.Context) ([]*core.Room, error)

	// DeleteRoom removes a room by ID. The room's chunks and questions are
	// owned by their own repositories and must be removed separately.
	// Returns ErrNotFound if the room doesn't exist.
	DeleteRoom(ctx context.Context, id string) error
}

// ChunkRepository provides operations for managing transcript chunks.
// Chunks are insert-only: a chunk is written exactly once, with both its
// transcription and a full-length embedding, and never updated.
type ChunkRepository interface {
	Repository

	// AddChunk adds a chunk to storage. For chunks with ID=0, generates a
	// new ID from sequence and sets InsertedAt. The embedding dimension is
	// enforced here, before anything is written; a mis-sized vector returns
	// ErrDimensionMismatch and nothing is persisted.
	AddChunk(ctx context.Context, chunk *core.Chunk) (*core.Chunk, error)

	// GetChunk retrieves a single chunk by room and ID.
	// Returns ErrNotFound if the chunk doesn't exist in that room.
	GetChunk(ctx context.Context, roomID string, id core.ID) (*core.Chunk, error)

	// GetChunksByRoom retrieves all chunks of a room in insertion order.
	GetChunksByRoom(ctx context.Context, roomID string) ([]*core.Chunk, error)

	// HasFingerprint reports whether a chunk with the given audio
	// fingerprint already exists in the room. Used for duplicate-ingest
	// diagnostics only; it never blocks an insert.
	HasFingerprint(ctx context.Context, roomID string, fingerprint core.ID) (bool, error)

	// FindSimilar returns the chunks of roomID whose cosine similarity to
	// vector is strictly greater than minSimilarity, ordered by similarity
	// descending and truncated to limit. Ties keep insertion order. Chunks
	// of other rooms are never returned. An unknown roomID yields an empty
	// result, not an error.
	FindSimilar(ctx context.Context, roomID string, vector []float32, minSimilarity float32, limit int) ([]core.RetrievedChunk, error)

	// DeleteChunksByRoom removes all chunks of a room. Used when a room is
	// deleted by the CRUD layer.
	DeleteChunksByRoom(ctx context.Context, roomID string) error
}

// QuestionRepository provides operations for managing questions.
// Questions are insert-only; the answer is set at creation and never
// mutated.
type QuestionRepository interface {
	Repository

	// AddQuestion adds a question to storage. For questions with ID=0,
	// generates a new ID from sequence and sets InsertedAt.
	AddQuestion(ctx context.Context, question *core.Question) (*core.Question, error)

	// GetQuestion retrieves a single question by room and ID.
	// Returns ErrNotFound if the question doesn't exist in that room.
	GetQuestion(ctx context.Context, roomID string, id core.ID) (*core.Question, error)

	// GetQuestionsByRoom retrieves all questions of a room in insertion
	// order.
	GetQuestionsByRoom(ctx context.Context, roomID string) ([]*core.Question, error)

	// DeleteQuestionsByRoom removes all questions of a room.
	DeleteQuestionsByRoom(ctx context.Context, roomID string) error
}
