// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/urfave/cli/v2"

	lectern "github.com/poiesic/lectern"
	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/answering"
	"github.com/poiesic/lectern/api"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/ingestion"
)

func main() {
	app := &cli.App{
		Name:  "lectern",
		Usage: "Classroom audio Q&A over transcribed recordings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before:   setup,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
				Flags: append(databaseFlags(),
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Listen address",
						Value:   ":3333",
						EnvVars: []string{"LECTERN_ADDR"},
					},
				),
			},
			{
				Name:      "ingest",
				Usage:     "Transcribe and index one audio file into a room",
				ArgsUsage: "<audio-file>",
				Action:    ingestCommand,
				Flags: append(databaseFlags(),
					&cli.StringFlag{
						Name:     "room",
						Aliases:  []string{"r"},
						Usage:    "Room ID to ingest into",
						Required: true,
					},
				),
			},
			{
				Name:      "ingest-dir",
				Usage:     "Transcribe and index every audio file in a directory",
				ArgsUsage: "<directory>",
				Action:    ingestDirCommand,
				Flags: append(databaseFlags(),
					&cli.StringFlag{
						Name:     "room",
						Aliases:  []string{"r"},
						Usage:    "Room ID to ingest into",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent ingestion workers",
						Value: runtime.NumCPU(),
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Ask a question against a room's ingested content",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: append(databaseFlags(),
					&cli.StringFlag{
						Name:     "room",
						Aliases:  []string{"r"},
						Usage:    "Room ID to ask in",
						Required: true,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func databaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory",
			Value:   "lectern.db",
			EnvVars: []string{"LECTERN_DB"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "Google AI API key",
			EnvVars: []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "language",
			Usage:   "Language for transcriptions and answers",
			EnvVars: []string{"LECTERN_LANGUAGE"},
		},
	}
}

// setup loads .env if present and configures the default logger.
// Flag EnvVars resolve after Before runs, so .env values are picked up.
func setup(c *cli.Context) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return setupLogger(c)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func openDatabase(ctx context.Context, c *cli.Context) (*lectern.Database, error) {
	opts := []ai.ConfigOption{
		ai.WithAPIKey(c.String("api-key")),
	}
	if language := c.String("language"); language != "" {
		opts = append(opts, ai.WithAnswerLanguage(language))
	}

	config := ai.NewConfig(opts...)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	return lectern.NewDatabase(ctx, c.String("db"), lectern.WithAIConfig(config))
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return err
	}

	answerer, err := db.NewAnswerer()
	if err != nil {
		return err
	}

	server, err := api.NewServer(
		db.RoomRepository(),
		db.ChunkRepository(),
		db.QuestionRepository(),
		pipeline,
		answerer,
	)
	if err != nil {
		return err
	}

	return server.Run(ctx, c.String("addr"))
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one audio file argument")
	}
	path := c.Args().First()

	ctx := context.Background()
	db, err := openDatabase(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return err
	}

	chunkID, err := ingestFile(ctx, pipeline, c.String("room"), path)
	if err != nil {
		return err
	}

	fmt.Printf("ingested %s as chunk %d\n", path, chunkID)
	return nil
}

func ingestDirCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one directory argument")
	}
	dir := c.Args().First()
	roomID := c.String("room")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if mediaTypeForFile(entry.Name()) == "" {
			slog.Warn("skipping file with unknown audio format", "file", entry.Name())
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	if len(files) == 0 {
		return fmt.Errorf("no audio files found in %s", dir)
	}

	ctx := context.Background()
	db, err := openDatabase(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return err
	}

	workers := c.Int("workers")
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return err
	}
	defer pool.Release()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, path := range files {
		wg.Add(1)
		path := path
		if err := pool.Submit(func() {
			defer wg.Done()
			chunkID, err := ingestFile(ctx, pipeline, roomID, path)
			if err != nil {
				slog.Error("ingestion failed", "file", path, "err", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			fmt.Printf("ingested %s as chunk %d\n", path, chunkID)
		}); err != nil {
			wg.Done()
			return err
		}
	}
	wg.Wait()

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func askCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("expected a question argument")
	}
	question := strings.Join(c.Args().Slice(), " ")

	ctx := context.Background()
	db, err := openDatabase(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	answerer, err := db.NewAnswerer()
	if err != nil {
		return err
	}

	result, err := answerer.AnswerQuestionWithMonitor(ctx, c.String("room"), question, &logMonitor{})
	if err != nil {
		return err
	}

	if !result.Answered {
		fmt.Println("no answer: nothing similar enough was found in this room")
		return nil
	}

	fmt.Println(result.Answer)
	return nil
}

// logMonitor traces the answering stages to the default logger, visible
// with --log-level debug.
type logMonitor struct{}

var _ answering.AnswerMonitor = (*logMonitor)(nil)

func (m *logMonitor) Start(question string) {
	slog.Debug("answering", "question", question)
}

func (m *logMonitor) AfterEmbedding(vector []float32) {
	slog.Debug("question embedded", "dim", len(vector))
}

func (m *logMonitor) AfterRetrieval(chunks []core.RetrievedChunk) {
	for _, chunk := range chunks {
		slog.Debug("retrieved context", "chunk", chunk.ChunkId, "score", chunk.Score)
	}
}

func (m *logMonitor) GenerationSkipped() {
	slog.Debug("no context above threshold, skipping generation")
}

func (m *logMonitor) AfterGeneration(answer string) {
	slog.Debug("answer generated", "length", len(answer))
}

func (m *logMonitor) Finish(result *answering.Result) {
	slog.Debug("question persisted", "question", result.QuestionId, "answered", result.Answered)
}

func ingestFile(ctx context.Context, pipeline *ingestion.Pipeline, roomID, path string) (core.ID, error) {
	audio, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return pipeline.IngestAudio(ctx, roomID, audio, mediaTypeForFile(path))
}

// mediaTypeForFile maps an audio file extension to its MIME type.
// Returns "" for formats the transcriber does not accept.
func mediaTypeForFile(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mp3"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	case ".webm":
		return "audio/webm"
	case ".m4a", ".mp4":
		return "audio/mp4"
	case ".flac":
		return "audio/flac"
	case ".aac":
		return "audio/aac"
	default:
		return ""
	}
}
