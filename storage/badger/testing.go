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


package badger

import "github.com/poiesic/lectern/storage"

// NewMemoryRepositories creates in-memory room, chunk and question
// repositories for testing, with the given embedding dimension.
// Returns roomRepo, chunkRepo, questionRepo, backend, and error.
// Caller must close the repos and backend when done.
func NewMemoryRepositories(dim int) (storage.RoomRepository, storage.ChunkRepository, storage.QuestionRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	roomRepo := NewRoomRepository(backend)

	chunkRepo, err := NewChunkRepository(backend, dim)
	if err != nil {
		backend.Close()
		return nil, nil, nil, nil, err
	}

	questionRepo, err := NewQuestionRepository(backend)
	if err != nil {
		chunkRepo.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	return roomRepo, chunkRepo, questionRepo, backend, nil
}
