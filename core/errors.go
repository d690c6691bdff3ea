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

import "errors"

// Failure taxonomy. Every error leaving the ingestion or answering
// pipelines wraps exactly one of the first five, so callers can tell bad
// input from upstream capability failures from storage failures with
// errors.Is.
var (
	// ErrInvalidInput indicates the caller supplied empty or malformed input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTranscription indicates the speech-to-text capability returned
	// unusable output.
	ErrTranscription = errors.New("transcription failed")

	// ErrEmbedding indicates the embedding capability returned no vector or
	// a vector of unexpected shape.
	ErrEmbedding = errors.New("embedding failed")

	// ErrGeneration indicates the text-generation capability returned empty
	// output.
	ErrGeneration = errors.New("generation failed")

	// ErrPersistence indicates the store rejected a read or write.
	ErrPersistence = errors.New("persistence failed")
)

// Domain validation errors
var (
	// ErrInvalidRoom indicates a Room failed validation.
	ErrInvalidRoom = errors.New("invalid room")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidQuestion indicates a Question failed validation.
	ErrInvalidQuestion = errors.New("invalid question")

	// ErrEmptyRoomId indicates the RoomId field is empty.
	ErrEmptyRoomId = errors.New("room id cannot be empty")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrDimensionMismatch indicates an embedding vector does not match the
	// configured dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrAnswerWithoutFlag indicates a Question carries an answer but is not
	// marked as answered, or vice versa.
	ErrAnswerWithoutFlag = errors.New("answer text and answered flag disagree")
)
