package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/poiesic/lectern/core"
)

type createRoomRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type roomResponse struct {
	Id          string    `json:"roomId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type createQuestionRequest struct {
	Question string `json:"question" binding:"required"`
}

type questionResponse struct {
	Id        core.ID   `json:"questionId"`
	Question  string    `json:"question"`
	Answer    *string   `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
}

func toRoomResponse(room *core.Room) roomResponse {
	return roomResponse{
		Id:          room.Id,
		Name:        room.Name,
		Description: room.Description,
		CreatedAt:   room.InsertedAt,
	}
}

func toQuestionResponse(question *core.Question) questionResponse {
	resp := questionResponse{
		Id:        question.Id,
		Question:  question.Text,
		CreatedAt: question.InsertedAt,
	}
	if question.Answered {
		answer := question.Answer
		resp.Answer = &answer
	}
	return resp
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleCreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %w", core.ErrInvalidInput, err))
		return
	}

	room := &core.Room{
		Id:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
	}

	added, err := s.roomRepository.AddRoom(c.Request.Context(), room)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toRoomResponse(added))
}

func (s *Server) handleListRooms(c *gin.Context) {
	rooms, err := s.roomRepository.ListRooms(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]roomResponse, len(rooms))
	for i, room := range rooms {
		resp[i] = toRoomResponse(room)
	}
	c.JSON(http.StatusOK, resp)
}

// handleDeleteRoom removes the room and everything ingested into it.
func (s *Server) handleDeleteRoom(c *gin.Context) {
	roomID := c.Param("roomId")
	ctx := c.Request.Context()

	if err := s.roomRepository.DeleteRoom(ctx, roomID); err != nil {
		writeError(c, err)
		return
	}
	if err := s.chunkRepository.DeleteChunksByRoom(ctx, roomID); err != nil {
		writeError(c, err)
		return
	}
	if err := s.questionRepository.DeleteQuestionsByRoom(ctx, roomID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleUploadAudio(c *gin.Context) {
	roomID := c.Param("roomId")
	ctx := c.Request.Context()

	if _, err := s.roomRepository.GetRoom(ctx, roomID); err != nil {
		writeError(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		writeError(c, fmt.Errorf("%w: audio file is required: %w", core.ErrInvalidInput, err))
		return
	}

	file, err := header.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(c, err)
		return
	}

	chunkID, err := s.pipeline.IngestAudio(ctx, roomID, audio, header.Header.Get("Content-Type"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"chunkId": chunkID})
}

func (s *Server) handleCreateQuestion(c *gin.Context) {
	roomID := c.Param("roomId")
	ctx := c.Request.Context()

	if _, err := s.roomRepository.GetRoom(ctx, roomID); err != nil {
		writeError(c, err)
		return
	}

	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %w", core.ErrInvalidInput, err))
		return
	}

	result, err := s.answerer.AnswerQuestion(ctx, roomID, req.Question)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := gin.H{
		"questionId": result.QuestionId,
		"answer":     nil,
	}
	if result.Answered {
		resp["answer"] = result.Answer
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleListQuestions(c *gin.Context) {
	roomID := c.Param("roomId")
	ctx := c.Request.Context()

	if _, err := s.roomRepository.GetRoom(ctx, roomID); err != nil {
		writeError(c, err)
		return
	}

	questions, err := s.questionRepository.GetQuestionsByRoom(ctx, roomID)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]questionResponse, len(questions))
	for i, question := range questions {
		resp[i] = toQuestionResponse(question)
	}
	c.JSON(http.StatusOK, resp)
}
