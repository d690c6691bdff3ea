package googleai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/core"
	"github.com/tmc/langchaingo/llms"
)

// Generator implements ai.Generator using Gemini chat generation.
type Generator struct {
	client llms.Model
	logger *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(client llms.Model, config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Generator{
		client: client,
		logger: slog.Default().With("component", "googleai-generator"),
	}, nil
}

// GenerateAnswer produces an answer for the given prompt.
func (g *Generator) GenerateAnswer(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("generating answer", "promptLength", len(prompt))

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.2))
	if err != nil {
		g.logger.Error("generation request failed", "err", err)
		return "", fmt.Errorf("%w: %w", core.ErrGeneration, err)
	}

	if len(response.Choices) < 1 || response.Choices[0].Content == "" {
		g.logger.Warn("model returned empty answer")
		return "", fmt.Errorf("%w: model returned empty output", core.ErrGeneration)
	}

	return response.Choices[0].Content, nil
}
