package answering

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/lectern/ai/mock"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/storage"
	"github.com/poiesic/lectern/storage/badger"
)

const testDim = 64

type testFixture struct {
	answerer     *Answerer
	provider     *mock.MockProvider
	chunkRepo    storage.ChunkRepository
	questionRepo storage.QuestionRepository
}

func newTestFixture(t *testing.T, opts ...Option) *testFixture {
	t.Helper()

	roomRepo, chunkRepo, questionRepo, backend, err := badger.NewMemoryRepositories(testDim)
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	t.Cleanup(func() { questionRepo.Close(); chunkRepo.Close(); roomRepo.Close(); backend.Close() })

	embedder := mock.NewMockEmbedder()
	embedder.Dim = testDim
	provider := mock.NewMockProviderWithServices(
		mock.NewMockTranscriber(), embedder, mock.NewMockGenerator()).(*mock.MockProvider)

	answerer, err := NewAnswerer(chunkRepo, questionRepo, provider, opts...)
	if err != nil {
		t.Fatalf("Failed to create answerer: %v", err)
	}

	return &testFixture{
		answerer:     answerer,
		provider:     provider,
		chunkRepo:    chunkRepo,
		questionRepo: questionRepo,
	}
}

func (f *testFixture) addChunk(t *testing.T, roomID, text string) *core.Chunk {
	t.Helper()
	chunk, err := f.chunkRepo.AddChunk(context.Background(), &core.Chunk{
		RoomId: roomID,
		Text:   text,
		Vector: mock.DeterministicVector(text, testDim),
	})
	if err != nil {
		t.Fatalf("Failed to add chunk: %v", err)
	}
	return chunk
}

func TestNewAnswerer_Validation(t *testing.T) {
	roomRepo, chunkRepo, questionRepo, backend, err := badger.NewMemoryRepositories(testDim)
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { questionRepo.Close(); chunkRepo.Close(); roomRepo.Close(); backend.Close() }()

	provider := mock.NewMockProvider()

	_, err = NewAnswerer(nil, questionRepo, provider)
	if !errors.Is(err, ErrChunkRepositoryRequired) {
		t.Fatalf("Expected ErrChunkRepositoryRequired, got %v", err)
	}

	_, err = NewAnswerer(chunkRepo, nil, provider)
	if !errors.Is(err, ErrQuestionRepositoryRequired) {
		t.Fatalf("Expected ErrQuestionRepositoryRequired, got %v", err)
	}

	_, err = NewAnswerer(chunkRepo, questionRepo, nil)
	if !errors.Is(err, ErrAIProviderRequired) {
		t.Fatalf("Expected ErrAIProviderRequired, got %v", err)
	}

	_, err = NewAnswerer(chunkRepo, questionRepo, provider, WithThreshold(1.5))
	if !errors.Is(err, ErrInvalidThreshold) {
		t.Fatalf("Expected ErrInvalidThreshold, got %v", err)
	}

	_, err = NewAnswerer(chunkRepo, questionRepo, provider, WithMaxContextChunks(0))
	if !errors.Is(err, ErrInvalidContextSize) {
		t.Fatalf("Expected ErrInvalidContextSize, got %v", err)
	}
}

func TestAnswerQuestion_Grounded(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()

	// The question embedding is the chunk embedding, so the self-match
	// scores ~1.0 and clears the default threshold.
	f.addChunk(t, "room-1", "the second law of thermodynamics")

	result, err := f.answerer.AnswerQuestion(ctx, "room-1", "the second law of thermodynamics")
	if err != nil {
		t.Fatalf("Failed to answer question: %v", err)
	}

	if !result.Answered {
		t.Fatal("Expected question to be answered")
	}
	if result.Answer == "" {
		t.Fatal("Expected non-empty answer")
	}
	if len(result.Context) == 0 {
		t.Fatal("Expected answer context")
	}
	if f.provider.GetMockGenerator().CallCount() != 1 {
		t.Fatalf("Expected 1 generation call, got %d", f.provider.GetMockGenerator().CallCount())
	}

	// The persisted record matches the result
	stored, err := f.questionRepo.GetQuestion(ctx, "room-1", result.QuestionId)
	if err != nil {
		t.Fatalf("Failed to get question: %v", err)
	}
	if !stored.Answered || stored.Answer != result.Answer {
		t.Fatal("Expected persisted question to match result")
	}
}

func TestAnswerQuestion_NoContextSkipsGeneration(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()

	f.addChunk(t, "room-1", "completely unrelated material")

	result, err := f.answerer.AnswerQuestion(ctx, "room-1", "what is the meaning of life?")
	if err != nil {
		t.Fatalf("Failed to answer question: %v", err)
	}

	if result.Answered {
		t.Fatal("Expected question to be unanswered")
	}
	if result.Answer != "" {
		t.Fatalf("Expected empty answer, got '%s'", result.Answer)
	}
	if len(result.Context) != 0 {
		t.Fatalf("Expected no context, got %d chunks", len(result.Context))
	}
	if f.provider.GetMockGenerator().CallCount() != 0 {
		t.Fatalf("Expected no generation calls, got %d", f.provider.GetMockGenerator().CallCount())
	}

	// The unanswered question is still persisted
	stored, err := f.questionRepo.GetQuestion(ctx, "room-1", result.QuestionId)
	if err != nil {
		t.Fatalf("Failed to get question: %v", err)
	}
	if stored.Answered {
		t.Fatal("Expected persisted question to be unanswered")
	}
}

func TestAnswerQuestion_EmptyRoomSkipsGeneration(t *testing.T) {
	f := newTestFixture(t)

	result, err := f.answerer.AnswerQuestion(context.Background(), "room-1", "anything at all?")
	if err != nil {
		t.Fatalf("Failed to answer question: %v", err)
	}

	if result.Answered {
		t.Fatal("Expected question to be unanswered in an empty room")
	}
	if f.provider.GetMockGenerator().CallCount() != 0 {
		t.Fatalf("Expected no generation calls, got %d", f.provider.GetMockGenerator().CallCount())
	}
}

func TestAnswerQuestion_InvalidInput(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()

	_, err := f.answerer.AnswerQuestion(ctx, "", "a question")
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput for empty room, got %v", err)
	}

	_, err = f.answerer.AnswerQuestion(ctx, "room-1", "")
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput for empty question, got %v", err)
	}

	if f.provider.GetMockEmbedder().CallCount() != 0 {
		t.Fatalf("Expected no embedding calls on invalid input, got %d", f.provider.GetMockEmbedder().CallCount())
	}
}

func TestAnswerQuestion_GenerationFailurePersistsNothing(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()

	f.addChunk(t, "room-1", "covered topic")

	f.provider.GetMockGenerator().GenerateAnswerFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", core.ErrGeneration
	}

	_, err := f.answerer.AnswerQuestion(ctx, "room-1", "covered topic")
	if !errors.Is(err, core.ErrGeneration) {
		t.Fatalf("Expected ErrGeneration, got %v", err)
	}

	questions, err := f.questionRepo.GetQuestionsByRoom(ctx, "room-1")
	if err != nil {
		t.Fatalf("Failed to list questions: %v", err)
	}
	if len(questions) != 0 {
		t.Fatalf("Expected no questions persisted, got %d", len(questions))
	}
}

func TestAnswerQuestion_PromptContainsContextInOrder(t *testing.T) {
	f := newTestFixture(t, WithAnswerLanguage("English"))
	ctx := context.Background()

	question := "the krebs cycle"
	f.addChunk(t, "room-1", "the krebs cycle")

	_, err := f.answerer.AnswerQuestion(ctx, "room-1", question)
	if err != nil {
		t.Fatalf("Failed to answer question: %v", err)
	}

	prompt := f.provider.GetMockGenerator().LastPrompt()
	if !strings.Contains(prompt, "the krebs cycle") {
		t.Fatal("Expected prompt to contain the retrieved chunk text")
	}
	if !strings.Contains(prompt, "QUESTION:") || !strings.Contains(prompt, "CONTEXT:") {
		t.Fatal("Expected prompt to carry context and question sections")
	}
	if !strings.Contains(prompt, "English") {
		t.Fatal("Expected prompt to name the configured answer language")
	}
	if !strings.Contains(prompt, `"class content"`) {
		t.Fatal("Expected prompt to instruct citing the class content")
	}
}

func TestAnswerQuestion_ContextLimit(t *testing.T) {
	f := newTestFixture(t, WithThreshold(-0.5), WithMaxContextChunks(2))
	ctx := context.Background()

	// A permissive threshold makes every chunk eligible; the cap still
	// bounds the context.
	for _, text := range []string{"chunk one", "chunk two", "chunk three", "chunk four"} {
		f.addChunk(t, "room-1", text)
	}

	result, err := f.answerer.AnswerQuestion(ctx, "room-1", "chunk one")
	if err != nil {
		t.Fatalf("Failed to answer question: %v", err)
	}

	if len(result.Context) != 2 {
		t.Fatalf("Expected 2 context chunks, got %d", len(result.Context))
	}
	if result.Context[0].Text != "chunk one" {
		t.Fatalf("Expected self-match first, got '%s'", result.Context[0].Text)
	}
}

type recordingMonitor struct {
	started   bool
	embedded  bool
	retrieved int
	skipped   bool
	generated string
	finished  *Result
}

func (m *recordingMonitor) Start(_ string)                              { m.started = true }
func (m *recordingMonitor) AfterEmbedding(_ []float32)                  { m.embedded = true }
func (m *recordingMonitor) AfterRetrieval(chunks []core.RetrievedChunk) { m.retrieved = len(chunks) }
func (m *recordingMonitor) GenerationSkipped()                          { m.skipped = true }
func (m *recordingMonitor) AfterGeneration(answer string)               { m.generated = answer }
func (m *recordingMonitor) Finish(result *Result)                       { m.finished = result }

func TestAnswerQuestionWithMonitor(t *testing.T) {
	f := newTestFixture(t)
	ctx := context.Background()

	f.addChunk(t, "room-1", "monitored topic")

	monitor := &recordingMonitor{}
	result, err := f.answerer.AnswerQuestionWithMonitor(ctx, "room-1", "monitored topic", monitor)
	if err != nil {
		t.Fatalf("Failed to answer question: %v", err)
	}

	if !monitor.started || !monitor.embedded {
		t.Fatal("Expected start and embedding callbacks")
	}
	if monitor.retrieved != 1 {
		t.Fatalf("Expected 1 retrieved chunk reported, got %d", monitor.retrieved)
	}
	if monitor.skipped {
		t.Fatal("Expected generation not to be skipped")
	}
	if monitor.generated != result.Answer {
		t.Fatal("Expected generation callback to carry the answer")
	}
	if monitor.finished != result {
		t.Fatal("Expected finish callback to carry the result")
	}
}
