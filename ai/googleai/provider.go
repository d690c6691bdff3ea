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


package googleai

import (
	"context"
	"log/slog"

	"github.com/poiesic/lectern/ai"
	"github.com/tmc/langchaingo/llms/googleai"
)

// Provider implements ai.AIProvider using the Gemini API.
// A single underlying client is shared by the transcriber, embedder and
// generator instances.
type Provider struct {
	config      *ai.Config
	transcriber *Transcriber
	embedder    *Embedder
	generator   *Generator
	logger      *slog.Logger
}

// NewProvider creates a new AI provider backed by the Gemini API.
// The config is validated before use.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to Gemini-specific implementation details.
func NewProvider(ctx context.Context, config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := googleai.New(ctx,
		googleai.WithAPIKey(config.APIKey),
		googleai.WithDefaultModel(config.GenerativeModel),
		googleai.WithDefaultEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	transcriber, err := newTranscriber(client, config)
	if err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(client, config)
	if err != nil {
		return nil, err
	}

	generator, err := newGenerator(client, config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:      config,
		transcriber: transcriber,
		embedder:    embedder,
		generator:   generator,
		logger:      slog.Default().With("component", "googleai-provider"),
	}, nil
}

// Transcriber returns the speech-to-text service.
func (p *Provider) Transcriber() ai.Transcriber {
	return p.transcriber
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Generator returns the answer generation service.
func (p *Provider) Generator() ai.Generator {
	return p.generator
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying client doesn't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing Gemini provider")
	return nil
}
