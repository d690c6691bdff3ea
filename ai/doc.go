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


// Package ai provides abstractions for the AI capabilities used in Lectern.
//
// This package defines narrow interfaces for the three external
// capabilities the pipelines depend on: speech-to-text (Transcriber), text
// embedding (Embedder) and answer generation (Generator). The pipelines
// depend on these abstractions, never on a concrete model provider, so the
// provider can be swapped without touching business logic.
//
// # Implementation Packages
//
//   - ai/googleai: production implementation backed by the Gemini API
//   - ai/mock: test doubles for unit testing without external services
//
// # Boundary Validation
//
// Model responses are duck-typed on the wire; nothing guarantees their
// shape. Each client therefore validates what comes back (non-empty text,
// a vector of exactly the configured dimension) and converts violations
// into the typed errors from the core package (core.ErrTranscription,
// core.ErrEmbedding, core.ErrGeneration) instead of letting malformed
// output propagate.
//
// # Constructor Return Type Pattern
//
// Public constructors (googleai.NewProvider) return INTERFACE types to
// enforce abstraction. Test utility constructors (mock.NewMockEmbedder and
// friends) return CONCRETE types to enable assertions and behavior
// injection via the mock's public surface (CallCount, function fields,
// Reset).
//
//	provider, err := googleai.NewProvider(ctx, config) // returns ai.AIProvider
//	mockEmbed := mock.NewMockEmbedder()                // returns *mock.MockEmbedder
package ai
