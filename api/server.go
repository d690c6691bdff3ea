package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/lectern/answering"
	"github.com/poiesic/lectern/ingestion"
	"github.com/poiesic/lectern/storage"
)

const (
	defaultShutdownTimeout = 10 * time.Second

	// maxUploadSize bounds multipart audio uploads to 32 MiB.
	maxUploadSize = 32 << 20
)

// Server wires the repositories, ingestion pipeline and answerer into a
// gin HTTP server.
type Server struct {
	roomRepository     storage.RoomRepository
	chunkRepository    storage.ChunkRepository
	questionRepository storage.QuestionRepository
	pipeline           *ingestion.Pipeline
	answerer           *answering.Answerer
	router             *gin.Engine
	logger             *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewServer creates an HTTP server over the given repositories and
// pipelines.
func NewServer(
	roomRepository storage.RoomRepository,
	chunkRepository storage.ChunkRepository,
	questionRepository storage.QuestionRepository,
	pipeline *ingestion.Pipeline,
	answerer *answering.Answerer,
	opts ...Option,
) (*Server, error) {
	if roomRepository == nil || chunkRepository == nil || questionRepository == nil {
		return nil, errors.New("all repositories are required")
	}
	if pipeline == nil {
		return nil, errors.New("ingestion pipeline required")
	}
	if answerer == nil {
		return nil, errors.New("answerer required")
	}

	s := &Server{
		roomRepository:     roomRepository,
		chunkRepository:    chunkRepository,
		questionRepository: questionRepository,
		pipeline:           pipeline,
		answerer:           answerer,
		logger:             slog.Default().With("component", "api"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.router = s.buildRouter()
	return s, nil
}

func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())
	router.MaxMultipartMemory = maxUploadSize

	router.GET("/health", s.handleHealth)

	rooms := router.Group("/rooms")
	{
		rooms.POST("", s.handleCreateRoom)
		rooms.GET("", s.handleListRooms)
		rooms.DELETE("/:roomId", s.handleDeleteRoom)
		rooms.POST("/:roomId/audio", s.handleUploadAudio)
		rooms.POST("/:roomId/questions", s.handleCreateQuestion)
		rooms.GET("/:roomId/questions", s.handleListQuestions)
	}

	return router
}

// requestLogger logs one line per request through slog.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// Handler returns the underlying http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
