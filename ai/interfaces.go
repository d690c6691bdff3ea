package ai

import "context"

// Transcriber converts spoken audio to text.
// Implementations must be thread-safe for concurrent use.
type Transcriber interface {
	// TranscribeAudio converts raw audio bytes of the given media type into
	// text. Returns an error wrapping core.ErrTranscription if the upstream
	// capability returns empty output. No retries are performed; the caller
	// decides whether a failed ingestion is worth repeating.
	TranscribeAudio(ctx context.Context, audio []byte, mediaType string) (string, error)
}

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector always has the configured dimension; a vector of
	// any other shape is rejected at this boundary with an error wrapping
	// core.ErrEmbedding rather than passed through.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch, in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces natural-language answers from prompts.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// GenerateAnswer produces an answer for the given prompt. Returns an
	// error wrapping core.ErrGeneration if the capability returns empty
	// output.
	GenerateAnswer(ctx context.Context, prompt string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Transcriber,
// Embedder and Generator instances, ensuring they share configuration and
// the underlying client.
type AIProvider interface {
	// Transcriber returns the speech-to-text service.
	Transcriber() Transcriber

	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Generator returns the answer generation service.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
