package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/lectern/ai/mock"
	"github.com/poiesic/lectern/answering"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/ingestion"
	"github.com/poiesic/lectern/storage"
	"github.com/poiesic/lectern/storage/badger"
)

const testDim = 32

type testServer struct {
	server    *Server
	provider  *mock.MockProvider
	roomRepo  storage.RoomRepository
	chunkRepo storage.ChunkRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	roomRepo, chunkRepo, questionRepo, backend, err := badger.NewMemoryRepositories(testDim)
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	t.Cleanup(func() { questionRepo.Close(); chunkRepo.Close(); roomRepo.Close(); backend.Close() })

	embedder := mock.NewMockEmbedder()
	embedder.Dim = testDim
	provider := mock.NewMockProviderWithServices(
		mock.NewMockTranscriber(), embedder, mock.NewMockGenerator()).(*mock.MockProvider)

	pipeline, err := ingestion.NewPipeline(chunkRepo, provider)
	if err != nil {
		t.Fatalf("Failed to create pipeline: %v", err)
	}

	answerer, err := answering.NewAnswerer(chunkRepo, questionRepo, provider)
	if err != nil {
		t.Fatalf("Failed to create answerer: %v", err)
	}

	server, err := NewServer(roomRepo, chunkRepo, questionRepo, pipeline, answerer)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	return &testServer{
		server:    server,
		provider:  provider,
		roomRepo:  roomRepo,
		chunkRepo: chunkRepo,
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) createRoom(t *testing.T, name string) string {
	t.Helper()
	body := bytes.NewBufferString(fmt.Sprintf(`{"name": %q}`, name))
	rec := ts.do(t, http.MethodPost, "/rooms", body, "application/json")
	if rec.Code != http.StatusCreated {
		t.Fatalf("Failed to create room: status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Id string `json:"roomId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Id == "" {
		t.Fatal("Expected a generated room ID")
	}
	return resp.Id
}

func (ts *testServer) uploadAudio(t *testing.T, roomID string, audio []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "lecture.mp3")
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(audio); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	writer.Close()

	return ts.do(t, http.MethodPost, "/rooms/"+roomID+"/audio", &buf, writer.FormDataContentType())
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
}

func TestCreateAndListRooms(t *testing.T) {
	ts := newTestServer(t)

	first := ts.createRoom(t, "Biology")
	second := ts.createRoom(t, "Chemistry")
	if first == second {
		t.Fatal("Expected distinct room IDs")
	}

	rec := ts.do(t, http.MethodGet, "/rooms", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var rooms []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &rooms); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("Expected 2 rooms, got %d", len(rooms))
	}
}

func TestCreateRoom_MissingName(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/rooms", bytes.NewBufferString(`{}`), "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestUploadAudio(t *testing.T) {
	ts := newTestServer(t)
	roomID := ts.createRoom(t, "Physics")

	rec := ts.uploadAudio(t, roomID, []byte("audio payload"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ChunkId core.ID `json:"chunkId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.ChunkId == 0 {
		t.Fatal("Expected non-zero chunk ID")
	}

	chunks, err := ts.chunkRepo.GetChunksByRoom(context.Background(), roomID)
	if err != nil {
		t.Fatalf("Failed to list chunks: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
}

func TestUploadAudio_UnknownRoom(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.uploadAudio(t, "missing", []byte("audio"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
}

func TestUploadAudio_MissingFile(t *testing.T) {
	ts := newTestServer(t)
	roomID := ts.createRoom(t, "Physics")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.Close()

	rec := ts.do(t, http.MethodPost, "/rooms/"+roomID+"/audio", &buf, writer.FormDataContentType())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestUploadAudio_TranscriptionFailure(t *testing.T) {
	ts := newTestServer(t)
	roomID := ts.createRoom(t, "Physics")

	ts.provider.GetMockTranscriber().TranscribeAudioFunc = func(ctx context.Context, audio []byte, mediaType string) (string, error) {
		return "", core.ErrTranscription
	}

	rec := ts.uploadAudio(t, roomID, []byte("audio"))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("Expected 502, got %d", rec.Code)
	}
}

func TestCreateQuestion_Answered(t *testing.T) {
	ts := newTestServer(t)
	roomID := ts.createRoom(t, "Physics")

	// Make retrieval deterministic: the stored chunk and the question get
	// the same embedding.
	ts.provider.GetMockEmbedder().EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return mock.DeterministicVector("shared", testDim), nil
	}

	rec := ts.uploadAudio(t, roomID, []byte("audio"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("Failed to upload audio: %d", rec.Code)
	}

	body := bytes.NewBufferString(`{"question": "what was covered?"}`)
	rec = ts.do(t, http.MethodPost, "/rooms/"+roomID+"/questions", body, "application/json")
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		QuestionId core.ID `json:"questionId"`
		Answer     *string `json:"answer"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.QuestionId == 0 {
		t.Fatal("Expected non-zero question ID")
	}
	if resp.Answer == nil || *resp.Answer == "" {
		t.Fatal("Expected a generated answer")
	}
}

func TestCreateQuestion_NoContextReturnsNullAnswer(t *testing.T) {
	ts := newTestServer(t)
	roomID := ts.createRoom(t, "Physics")

	body := bytes.NewBufferString(`{"question": "anything in this empty room?"}`)
	rec := ts.do(t, http.MethodPost, "/rooms/"+roomID+"/questions", body, "application/json")
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if !strings.Contains(rec.Body.String(), `"answer":null`) {
		t.Fatalf("Expected null answer, got %s", rec.Body.String())
	}
	if ts.provider.GetMockGenerator().CallCount() != 0 {
		t.Fatalf("Expected no generation calls, got %d", ts.provider.GetMockGenerator().CallCount())
	}
}

func TestCreateQuestion_UnknownRoom(t *testing.T) {
	ts := newTestServer(t)

	body := bytes.NewBufferString(`{"question": "hello?"}`)
	rec := ts.do(t, http.MethodPost, "/rooms/missing/questions", body, "application/json")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
}

func TestListQuestions(t *testing.T) {
	ts := newTestServer(t)
	roomID := ts.createRoom(t, "Physics")

	for _, question := range []string{"first?", "second?"} {
		body := bytes.NewBufferString(fmt.Sprintf(`{"question": %q}`, question))
		rec := ts.do(t, http.MethodPost, "/rooms/"+roomID+"/questions", body, "application/json")
		if rec.Code != http.StatusCreated {
			t.Fatalf("Failed to create question: %d", rec.Code)
		}
	}

	rec := ts.do(t, http.MethodGet, "/rooms/"+roomID+"/questions", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var questions []questionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &questions); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("Expected 2 questions, got %d", len(questions))
	}
	if questions[0].Question != "first?" {
		t.Fatalf("Expected insertion order, got '%s' first", questions[0].Question)
	}
}

func TestDeleteRoom_Cascades(t *testing.T) {
	ts := newTestServer(t)
	roomID := ts.createRoom(t, "Physics")

	rec := ts.uploadAudio(t, roomID, []byte("audio"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("Failed to upload audio: %d", rec.Code)
	}

	rec = ts.do(t, http.MethodDelete, "/rooms/"+roomID, nil, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rec.Code)
	}

	chunks, err := ts.chunkRepo.GetChunksByRoom(context.Background(), roomID)
	if err != nil {
		t.Fatalf("Failed to list chunks: %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("Expected chunks to be deleted, got %d", len(chunks))
	}

	rec = ts.do(t, http.MethodDelete, "/rooms/"+roomID, nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 deleting twice, got %d", rec.Code)
	}
}
