package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
// The embedding dimension is fixed per repository; chunks with a vector of
// any other length are rejected before anything is written.
type ChunkRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
	dim     int
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository enforcing the given
// embedding dimension.
func NewChunkRepository(backend *Backend, dim int) (*ChunkRepository, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: embedding dimension must be positive", storage.ErrInvalidQuery)
	}

	idSeq, err := backend.GetSequence(chunkIDSeq)
	if err != nil {
		return nil, err
	}

	return &ChunkRepository{
		backend: backend,
		idSeq:   idSeq,
		dim:     dim,
	}, nil
}

// Close releases the ID sequence.
func (r *ChunkRepository) Close() error {
	return r.idSeq.Release()
}

// AddChunk adds a chunk to storage.
func (r *ChunkRepository) AddChunk(ctx context.Context, chunk *core.Chunk) (*core.Chunk, error) {
	if err := core.ValidateChunk(chunk, r.dim); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if chunk.Id == 0 {
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			chunk.Id = core.ID(nextID)
		}

		if chunk.InsertedAt.IsZero() {
			chunk.InsertedAt = time.Now().UTC()
		}

		key := makeChunkKey(chunk.RoomId, chunk.Id)
		if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
			return err
		}

		// Fingerprint index, for duplicate-ingest diagnostics
		if chunk.Fingerprint != 0 {
			fpKey := makeChunkFingerprintKey(chunk.RoomId, chunk.Fingerprint)
			if err := tx.Set(fpKey, storage.MarshalID(chunk.Id)); err != nil {
				return err
			}
		}

		return tx.Commit()
	}, true)

	return chunk, err
}

// GetChunk retrieves a single chunk by room and ID.
func (r *ChunkRepository) GetChunk(ctx context.Context, roomID string, id core.ID) (*core.Chunk, error) {
	var result *core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeChunkKey(roomID, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalChunk(val)
			return err
		})
	}, false)
	return result, err
}

// GetChunksByRoom retrieves all chunks of a room in insertion order.
func (r *ChunkRepository) GetChunksByRoom(ctx context.Context, roomID string) ([]*core.Chunk, error) {
	var results []*core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeRoomScopePrefix(chunkRecordPrefix, roomID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			if chunk != nil {
				results = append(results, chunk)
			}
		}
		return nil
	}, false)
	return results, err
}

// HasFingerprint reports whether a chunk with the given audio fingerprint
// already exists in the room.
func (r *ChunkRepository) HasFingerprint(ctx context.Context, roomID string, fingerprint core.ID) (bool, error) {
	var found bool
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(makeChunkFingerprintKey(roomID, fingerprint))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	}, false)
	return found, err
}

// FindSimilar delegates to the backend's room-scoped similarity scan.
func (r *ChunkRepository) FindSimilar(ctx context.Context, roomID string, vector []float32, minSimilarity float32, limit int) ([]core.RetrievedChunk, error) {
	return r.backend.FindSimilarChunks(ctx, roomID, vector, minSimilarity, limit)
}

// DeleteChunksByRoom removes all chunks of a room, including the
// fingerprint index entries.
func (r *ChunkRepository) DeleteChunksByRoom(ctx context.Context, roomID string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, prefix := range [][]byte{
			makeRoomScopePrefix(chunkRecordPrefix, roomID),
			makeRoomScopePrefix(chunkFingerprintPrefix, roomID),
		} {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix
			opts.PrefetchValues = false
			iter := tx.NewIterator(opts)

			var keys [][]byte
			for iter.Rewind(); iter.Valid(); iter.Next() {
				keys = append(keys, iter.Item().KeyCopy(nil))
			}
			iter.Close()

			for _, key := range keys {
				if err := tx.Delete(key); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
}
