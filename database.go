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


package lectern

import (
	"context"
	"log/slog"

	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/ai/googleai"
	"github.com/poiesic/lectern/answering"
	"github.com/poiesic/lectern/ingestion"
	"github.com/poiesic/lectern/storage"
	"github.com/poiesic/lectern/storage/badger"
)

// Database bundles the storage backend, repositories and AI provider into
// one handle an application can build pipelines from.
type Database struct {
	backend      *badger.Backend
	roomRepo     storage.RoomRepository
	chunkRepo    storage.ChunkRepository
	questionRepo storage.QuestionRepository
	provider     ai.AIProvider
	logger       *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
}

// WithAIConfig sets the configuration used to build the default AI
// provider. Ignored when WithAIProvider is also given.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithAIProvider sets a pre-built AI provider, bypassing provider
// construction. Mainly useful for tests.
func WithAIProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// NewDatabase opens the storage at filePath and wires the repositories and
// AI provider together.
func NewDatabase(ctx context.Context, filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, filePath == "")
	if err != nil {
		return nil, err
	}

	roomRepo := badger.NewRoomRepository(backend)

	chunkRepo, err := badger.NewChunkRepository(backend, options.aiConfig.EmbeddingDim)
	if err != nil {
		roomRepo.Close()
		backend.Close()
		return nil, err
	}

	questionRepo, err := badger.NewQuestionRepository(backend)
	if err != nil {
		chunkRepo.Close()
		roomRepo.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = googleai.NewProvider(ctx, options.aiConfig)
		if err != nil {
			questionRepo.Close()
			chunkRepo.Close()
			roomRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:      backend,
		roomRepo:     roomRepo,
		chunkRepo:    chunkRepo,
		questionRepo: questionRepo,
		provider:     provider,
		logger:       slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	// Close AI provider first
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	// Close repositories
	if err := db.questionRepo.Close(); err != nil {
		db.logger.Error("error closing question repository", "err", err)
		return err
	}
	if err := db.chunkRepo.Close(); err != nil {
		db.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := db.roomRepo.Close(); err != nil {
		db.logger.Error("error closing room repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) RoomRepository() storage.RoomRepository {
	return db.roomRepo
}

func (db *Database) ChunkRepository() storage.ChunkRepository {
	return db.chunkRepo
}

func (db *Database) QuestionRepository() storage.QuestionRepository {
	return db.questionRepo
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.chunkRepo, db.provider, opts...)
}

func (db *Database) NewAnswerer(opts ...answering.Option) (*answering.Answerer, error) {
	return answering.NewAnswerer(db.chunkRepo, db.questionRepo, db.provider, opts...)
}
