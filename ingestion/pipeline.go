package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/storage"
)

// DefaultMediaType is assumed when the caller does not know the format of
// the uploaded audio.
const DefaultMediaType = "audio/webm"

// Pipeline orchestrates the ingestion of audio recordings into chunks.
type Pipeline struct {
	chunkRepository storage.ChunkRepository
	transcriber     ai.Transcriber
	embedder        ai.Embedder
	logger          *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	chunkRepository storage.ChunkRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	p := &Pipeline{
		chunkRepository: chunkRepository,
		transcriber:     provider.Transcriber(),
		embedder:        provider.Embedder(),
		logger:          slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// IngestAudio transcribes one audio recording, embeds the transcription and
// persists the resulting chunk in the given room. It returns the stored
// chunk's ID.
//
// The stages run in order and the chunk is written only after all of them
// succeed, so a transcription or embedding failure leaves storage untouched.
// Re-ingesting audio a room has already seen is allowed; it produces a new
// chunk and logs a warning keyed by the audio fingerprint.
func (p *Pipeline) IngestAudio(ctx context.Context, roomID string, audio []byte, mediaType string) (core.ID, error) {
	if roomID == "" {
		return 0, fmt.Errorf("%w: %w", core.ErrInvalidInput, core.ErrEmptyRoomId)
	}
	if len(audio) == 0 {
		return 0, fmt.Errorf("%w: audio is empty", core.ErrInvalidInput)
	}
	if mediaType == "" {
		mediaType = DefaultMediaType
	}

	fingerprint := core.Fingerprint(audio)

	seen, err := p.chunkRepository.HasFingerprint(ctx, roomID, fingerprint)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrPersistence, err)
	}
	if seen {
		p.logger.Warn("audio was already ingested in this room, ingesting again",
			"room", roomID, "fingerprint", fingerprint)
	}

	transcription, err := p.transcriber.TranscribeAudio(ctx, audio, mediaType)
	if err != nil {
		return 0, err
	}

	vector, err := p.embedder.EmbedText(ctx, transcription)
	if err != nil {
		return 0, err
	}

	chunk := &core.Chunk{
		RoomId:      roomID,
		Text:        transcription,
		Vector:      vector,
		Fingerprint: fingerprint,
	}

	added, err := p.chunkRepository.AddChunk(ctx, chunk)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrPersistence, err)
	}

	p.logger.Debug("ingested audio chunk",
		"room", roomID, "chunk", added.Id, "transcriptionLength", len(transcription))

	return added.Id, nil
}
