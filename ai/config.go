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


package ai

import "errors"

// DefaultEmbeddingDim is the dimension of text-embedding-004 vectors.
// Every chunk in a database shares one dimension; changing the embedding
// model means starting a new database.
const DefaultEmbeddingDim = 768

// Config holds configuration for AI service providers.
type Config struct {
	// APIKey authenticates against the Gemini API.
	APIKey string

	// GenerativeModel is the model identifier used for both transcription
	// and answer generation.
	// Example: "gemini-2.5-flash"
	GenerativeModel string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "text-embedding-004"
	EmbeddingModel string

	// EmbeddingDim is the expected length of embedding vectors. Vectors of
	// any other length are rejected before they reach storage.
	EmbeddingDim int

	// AnswerLanguage is the natural language answers and transcriptions are
	// produced in. Example: "Brazilian Portuguese", "English"
	AnswerLanguage string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAPIKey sets the Gemini API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithGenerativeModel sets the transcription/generation model identifier.
func WithGenerativeModel(model string) ConfigOption {
	return func(c *Config) {
		c.GenerativeModel = model
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithEmbeddingDim sets the expected embedding vector dimension.
func WithEmbeddingDim(dim int) ConfigOption {
	return func(c *Config) {
		c.EmbeddingDim = dim
	}
}

// WithAnswerLanguage sets the language for transcriptions and answers.
func WithAnswerLanguage(language string) ConfigOption {
	return func(c *Config) {
		c.AnswerLanguage = language
	}
}

// DefaultConfig returns a Config with the models the original deployment
// uses. The API key has no default and must be supplied.
func DefaultConfig() *Config {
	return &Config{
		GenerativeModel: "gemini-2.5-flash",
		EmbeddingModel:  "text-embedding-004",
		EmbeddingDim:    DefaultEmbeddingDim,
		AnswerLanguage:  "Brazilian Portuguese",
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options. This is the recommended way to create a Config.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithAPIKey(os.Getenv("GEMINI_API_KEY")),
//	    ai.WithAnswerLanguage("English"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("ai config: APIKey is required")
	}
	if c.GenerativeModel == "" {
		return errors.New("ai config: GenerativeModel is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.EmbeddingDim <= 0 {
		return errors.New("ai config: EmbeddingDim must be positive")
	}
	if c.AnswerLanguage == "" {
		return errors.New("ai config: AnswerLanguage is required")
	}
	return nil
}
