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


package core

import "fmt"

// ValidateRoom validates a Room according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - Name must not be empty
func ValidateRoom(room *Room) error {
	if room == nil {
		return fmt.Errorf("%w: room is nil", ErrInvalidRoom)
	}

	if room.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRoom, ErrEmptyRoomId)
	}

	if room.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidRoom)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - RoomId must not be empty
//   - Text must not be empty
//   - Vector must be exactly dim floats
//
// NOT validated:
//   - ID (0 is valid from database sequences)
//   - Fingerprint (purely informational)
//
// A chunk that exists always has both a non-empty transcription and a
// full-length embedding; this is checked here, before persistence, never
// at query time.
func ValidateChunk(chunk *Chunk, dim int) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.RoomId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyRoomId)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	if len(chunk.Vector) != dim {
		return fmt.Errorf("%w: %w: expected %d, got %d",
			ErrInvalidChunk, ErrDimensionMismatch, dim, len(chunk.Vector))
	}

	return nil
}

// ValidateQuestion validates a Question according to domain rules.
//
// Validation rules:
//   - RoomId must not be empty
//   - Text must not be empty
//   - Answer must be non-empty exactly when Answered is true
func ValidateQuestion(question *Question) error {
	if question == nil {
		return fmt.Errorf("%w: question is nil", ErrInvalidQuestion)
	}

	if question.RoomId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQuestion, ErrEmptyRoomId)
	}

	if question.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQuestion, ErrEmptyText)
	}

	if question.Answered != (question.Answer != "") {
		return fmt.Errorf("%w: %w", ErrInvalidQuestion, ErrAnswerWithoutFlag)
	}

	return nil
}
