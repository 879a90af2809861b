package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/executehq/concierge/pkg/eventstream"
	"github.com/executehq/concierge/pkg/llm"
	"github.com/executehq/concierge/pkg/logger"
	"github.com/executehq/concierge/pkg/storage"
	"github.com/executehq/concierge/server/mcp"
	"github.com/executehq/concierge/server/worker"
)

// Streamer opens a streamed chat completion. *gateway.Client implements it.
type Streamer interface {
	Stream(ctx context.Context, messages []llm.Message) (io.ReadCloser, error)
	Complete(ctx context.Context, messages []llm.Message, onDelta func(string)) (string, error)
	Model() string
}

// Server relays chat requests to the gateway and serves transcripts.
type Server struct {
	config     Config
	gateway    Streamer
	driver     storage.Driver
	workerPool *worker.Pool
	logger     *slog.Logger
	app        *fiber.App
}

// New creates a new Server. The driver and publisher are injected so
// callers decide where transcripts and events go; publisher may be nil.
func New(config Config, gw Streamer, driver storage.Driver, publisher eventstream.Publisher, log *slog.Logger) (*Server, error) {
	if gw == nil {
		return nil, errors.New("gateway is required")
	}
	if driver == nil {
		return nil, errors.New("storage driver is required")
	}
	if log == nil {
		log = logger.Nop()
	}

	wp, err := worker.NewPool(&worker.Config{
		Driver:     driver,
		Publisher:  publisher,
		NumWorkers: config.NumWorkers,
		QueueSize:  config.QueueSize,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create worker pool: %w", err)
	}

	mcpServer, err := mcp.NewServer(mcp.Config{
		Completer: gw,
		Noop:      config.DisableMCP,
		Logger:    log,
	})
	if err != nil {
		wp.Close()
		return nil, fmt.Errorf("could not create MCP server: %w", err)
	}

	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins(config.AllowedOrigins),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: AllowedHeaders,
	}))

	s := &Server{
		config:     config,
		gateway:    gw,
		driver:     driver,
		workerPool: wp,
		logger:     log,
		app:        app,
	}

	app.Get("/ping", s.handlePing)
	app.Post("/chat", s.handleChat)
	app.Post("/render", s.handleRender)
	app.Get("/transcripts", s.handleListTranscripts)
	app.Get("/transcripts/:id", s.handleGetTranscript)
	app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))

	return s, nil
}

// Run starts the server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting chat server",
		"listen", s.config.ListenAddr,
		"model", s.gateway.Model(),
	)

	return s.app.Listen(s.config.ListenAddr)
}

// RunWithListener starts the server using the provided listener.
func (s *Server) RunWithListener(listener net.Listener) error {
	s.logger.Info("starting chat server",
		"listen", listener.Addr().String(),
		"model", s.gateway.Model(),
	)

	return s.app.Listener(listener)
}

// Close gracefully shuts down the server and waits for the worker pool to drain.
func (s *Server) Close() error {
	err := s.app.Shutdown()
	s.workerPool.Close()
	return err
}

func allowOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ",")
}
