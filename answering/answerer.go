package answering

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/storage"
)

const (
	// DefaultSimilarityThreshold is the minimum cosine similarity a chunk
	// must exceed to be used as answer context.
	DefaultSimilarityThreshold float32 = 0.7

	// DefaultMaxContextChunks is the maximum number of chunks included in
	// the generation prompt.
	DefaultMaxContextChunks = 3
)

// Result is the outcome of answering one question.
type Result struct {
	// QuestionId identifies the persisted question record.
	QuestionId core.ID

	// Answer is the generated answer, empty when Answered is false.
	Answer string

	// Answered reports whether enough context was found to generate an
	// answer.
	Answered bool

	// Context holds the retrieved chunks the answer was grounded in,
	// best match first.
	Context []core.RetrievedChunk
}

// Answerer provides retrieval-grounded answering over a room's chunks.
type Answerer struct {
	chunkRepository    storage.ChunkRepository
	questionRepository storage.QuestionRepository
	embedder           ai.Embedder
	generator          ai.Generator
	threshold          float32
	maxContextChunks   int
	language           string
	logger             *slog.Logger
}

// Option configures an Answerer.
type Option func(*Answerer) error

// WithThreshold sets the similarity threshold for context retrieval.
// Default is DefaultSimilarityThreshold.
func WithThreshold(threshold float32) Option {
	return func(a *Answerer) error {
		if threshold < -1 || threshold > 1 {
			return ErrInvalidThreshold
		}
		a.threshold = threshold
		return nil
	}
}

// WithMaxContextChunks sets how many chunks at most are used as context.
// Default is DefaultMaxContextChunks.
func WithMaxContextChunks(count int) Option {
	return func(a *Answerer) error {
		if count < 1 {
			return ErrInvalidContextSize
		}
		a.maxContextChunks = count
		return nil
	}
}

// WithAnswerLanguage sets the language answers are generated in.
// Default is the provider's configured language.
func WithAnswerLanguage(language string) Option {
	return func(a *Answerer) error {
		if language != "" {
			a.language = language
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Answerer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAnswerer creates a new answerer.
func NewAnswerer(
	chunkRepository storage.ChunkRepository,
	questionRepository storage.QuestionRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Answerer, error) {
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if questionRepository == nil {
		return nil, ErrQuestionRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	a := &Answerer{
		chunkRepository:    chunkRepository,
		questionRepository: questionRepository,
		embedder:           provider.Embedder(),
		generator:          provider.Generator(),
		threshold:          DefaultSimilarityThreshold,
		maxContextChunks:   DefaultMaxContextChunks,
		language:           ai.DefaultConfig().AnswerLanguage,
		logger:             slog.Default().With("component", "answering"),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// AnswerQuestion answers a question against the room's ingested chunks and
// persists the question record.
func (a *Answerer) AnswerQuestion(ctx context.Context, roomID, question string) (*Result, error) {
	return a.AnswerQuestionWithMonitor(ctx, roomID, question, nil)
}

// AnswerQuestionWithMonitor answers a question with monitoring. The monitor
// receives callbacks at each stage of the process.
//
// The question embedding is compared against the room's chunks; chunks
// scoring strictly above the threshold become context, best match first,
// capped at the configured maximum. With no qualifying context the
// generator is not called and the question is persisted unanswered. The
// question record is only written after the whole flow succeeds, so an
// embedding or generation failure persists nothing.
func (a *Answerer) AnswerQuestionWithMonitor(ctx context.Context, roomID, question string, monitor AnswerMonitor) (*Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if roomID == "" {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidInput, core.ErrEmptyRoomId)
	}
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", core.ErrInvalidInput)
	}

	monitor.Start(question)

	embedding, err := a.embedder.EmbedText(ctx, question)
	if err != nil {
		a.logger.Error("error embedding question", "room", roomID, "err", err)
		return nil, err
	}
	monitor.AfterEmbedding(embedding)

	chunks, err := a.chunkRepository.FindSimilar(ctx, roomID, embedding, a.threshold, a.maxContextChunks)
	if err != nil {
		a.logger.Error("error retrieving context", "room", roomID, "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrPersistence, err)
	}
	monitor.AfterRetrieval(chunks)

	record := &core.Question{
		RoomId: roomID,
		Text:   question,
	}

	if len(chunks) == 0 {
		monitor.GenerationSkipped()
		a.logger.Info("no context cleared the similarity threshold",
			"room", roomID, "threshold", a.threshold)
	} else {
		prompt := buildAnswerPrompt(question, chunks, a.language)

		answer, err := a.generator.GenerateAnswer(ctx, prompt)
		if err != nil {
			a.logger.Error("error generating answer", "room", roomID, "err", err)
			return nil, err
		}
		monitor.AfterGeneration(answer)

		record.Answer = answer
		record.Answered = true
	}

	added, err := a.questionRepository.AddQuestion(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrPersistence, err)
	}

	result := &Result{
		QuestionId: added.Id,
		Answer:     added.Answer,
		Answered:   added.Answered,
		Context:    chunks,
	}
	monitor.Finish(result)

	return result, nil
}
