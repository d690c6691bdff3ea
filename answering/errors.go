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


package answering

import "errors"

var (
	// ErrChunkRepositoryRequired is returned when a chunk repository is not provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrQuestionRepositoryRequired is returned when a question repository is not provided.
	ErrQuestionRepositoryRequired = errors.New("question repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrInvalidThreshold is returned when a similarity threshold outside
	// the valid cosine range is configured.
	ErrInvalidThreshold = errors.New("similarity threshold must be within [-1, 1]")

	// ErrInvalidContextSize is returned when a non-positive context chunk
	// count is configured.
	ErrInvalidContextSize = errors.New("context chunk count must be positive")
)
