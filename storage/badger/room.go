package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/storage"
)

// RoomRepository implements storage.RoomRepository for BadgerDB.
type RoomRepository struct {
	backend *Backend
}

var _ storage.RoomRepository = (*RoomRepository)(nil)

// NewRoomRepository creates a new RoomRepository.
func NewRoomRepository(backend *Backend) *RoomRepository {
	return &RoomRepository{backend: backend}
}

// Close is a no-op; the repository holds no resources of its own.
func (r *RoomRepository) Close() error {
	return nil
}

// AddRoom adds a room to storage.
func (r *RoomRepository) AddRoom(ctx context.Context, room *core.Room) (*core.Room, error) {
	if err := core.ValidateRoom(room); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRoomKey(room.Id)

		_, err := tx.Get(key)
		if err == nil {
			return storage.ErrDuplicateKey
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if room.InsertedAt.IsZero() {
			room.InsertedAt = time.Now().UTC()
		}

		if err := tx.Set(key, storage.MarshalRoom(room)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return room, err
}

// GetRoom retrieves a room by ID.
func (r *RoomRepository) GetRoom(ctx context.Context, id string) (*core.Room, error) {
	var result *core.Room
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeRoomKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalRoom(val)
			return err
		})
	}, false)
	return result, err
}

// ListRooms retrieves all rooms, ordered by ID.
func (r *RoomRepository) ListRooms(ctx context.Context) ([]*core.Room, error) {
	var results []*core.Room
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(roomRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var room *core.Room
			err := iter.Item().Value(func(val []byte) error {
				var err error
				room, err = storage.UnmarshalRoom(val)
				return err
			})
			if err != nil {
				return err
			}
			if room != nil {
				results = append(results, room)
			}
		}
		return nil
	}, false)
	return results, err
}

// DeleteRoom removes a room by ID.
func (r *RoomRepository) DeleteRoom(ctx context.Context, id string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRoomKey(id)

		_, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
