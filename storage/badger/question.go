package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/storage"
)

// QuestionRepository implements storage.QuestionRepository for BadgerDB.
type QuestionRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.QuestionRepository = (*QuestionRepository)(nil)

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(backend *Backend) (*QuestionRepository, error) {
	idSeq, err := backend.GetSequence(questionIDSeq)
	if err != nil {
		return nil, err
	}

	return &QuestionRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *QuestionRepository) Close() error {
	return r.idSeq.Release()
}

// AddQuestion adds a question to storage.
func (r *QuestionRepository) AddQuestion(ctx context.Context, question *core.Question) (*core.Question, error) {
	if err := core.ValidateQuestion(question); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if question.Id == 0 {
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
			question.Id = core.ID(nextID)
		}

		if question.InsertedAt.IsZero() {
			question.InsertedAt = time.Now().UTC()
		}

		key := makeQuestionKey(question.RoomId, question.Id)
		if err := tx.Set(key, storage.MarshalQuestion(question)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return question, err
}

// GetQuestion retrieves a single question by room and ID.
func (r *QuestionRepository) GetQuestion(ctx context.Context, roomID string, id core.ID) (*core.Question, error) {
	var result *core.Question
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeQuestionKey(roomID, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalQuestion(val)
			return err
		})
	}, false)
	return result, err
}

// GetQuestionsByRoom retrieves all questions of a room in insertion order.
func (r *QuestionRepository) GetQuestionsByRoom(ctx context.Context, roomID string) ([]*core.Question, error) {
	var results []*core.Question
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeRoomScopePrefix(questionRecordPrefix, roomID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var question *core.Question
			err := iter.Item().Value(func(val []byte) error {
				var err error
				question, err = storage.UnmarshalQuestion(val)
				return err
			})
			if err != nil {
				return err
			}
			if question != nil {
				results = append(results, question)
			}
		}
		return nil
	}, false)
	return results, err
}

// DeleteQuestionsByRoom removes all questions of a room.
func (r *QuestionRepository) DeleteQuestionsByRoom(ctx context.Context, roomID string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeRoomScopePrefix(questionRecordPrefix, roomID)
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
		return tx.Commit()
	}, true)
}
