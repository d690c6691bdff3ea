package googleai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/core"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/googleai"
)

// Embedder implements ai.Embedder using Gemini embedding models.
type Embedder struct {
	embedder embeddings.Embedder
	dim      int
	logger   *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(client *googleai.GoogleAI, config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Wrap in langchaingo embedder
	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: embedder,
		dim:      config.EmbeddingDim,
		logger:   slog.Default().With("component", "googleai-embedder"),
	}, nil
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrEmbedding, err)
	}

	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: model returned no vector", core.ErrEmbedding)
	}

	if err := e.checkShape(vectors[0]); err != nil {
		return nil, err
	}

	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrEmbedding, err)
	}

	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d vectors, received %d",
			core.ErrEmbedding, len(texts), len(vectors))
	}

	for _, vector := range vectors {
		if err := e.checkShape(vector); err != nil {
			return nil, err
		}
	}

	return vectors, nil
}

// checkShape rejects vectors that do not match the configured dimension.
// The model response is not trusted; a mis-shaped vector must never reach
// storage.
func (e *Embedder) checkShape(vector []float32) error {
	if len(vector) != e.dim {
		e.logger.Error("embedding has unexpected shape", "expected", e.dim, "got", len(vector))
		return fmt.Errorf("%w: %w: expected %d, got %d",
			core.ErrEmbedding, core.ErrDimensionMismatch, e.dim, len(vector))
	}
	return nil
}
