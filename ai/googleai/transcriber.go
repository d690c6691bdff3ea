package googleai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/core"
	"github.com/tmc/langchaingo/llms"
)

const transcriptionPromptTemplate = "Transcribe the audio to %s. " +
	"Be precise and natural in the transcription. Keep proper punctuation " +
	"and break the text into paragraphs where appropriate."

// Transcriber implements ai.Transcriber using Gemini multimodal generation.
type Transcriber struct {
	client llms.Model
	prompt string
	logger *slog.Logger
}

// newTranscriber is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newTranscriber(client llms.Model, config *ai.Config) (*Transcriber, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Transcriber{
		client: client,
		prompt: fmt.Sprintf(transcriptionPromptTemplate, config.AnswerLanguage),
		logger: slog.Default().With("component", "googleai-transcriber"),
	}, nil
}

// TranscribeAudio converts raw audio bytes to text by sending the audio
// inline with a transcription instruction.
func (t *Transcriber) TranscribeAudio(ctx context.Context, audio []byte, mediaType string) (string, error) {
	t.logger.Debug("transcribing audio", "bytes", len(audio), "mediaType", mediaType)

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(t.prompt),
				llms.BinaryPart(mediaType, audio),
			},
		},
	}

	response, err := t.client.GenerateContent(ctx, content)
	if err != nil {
		t.logger.Error("transcription request failed", "err", err)
		return "", fmt.Errorf("%w: %w", core.ErrTranscription, err)
	}

	if len(response.Choices) < 1 || response.Choices[0].Content == "" {
		t.logger.Warn("model returned empty transcription", "mediaType", mediaType)
		return "", fmt.Errorf("%w: model returned empty output", core.ErrTranscription)
	}

	return response.Choices[0].Content, nil
}
