package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/executehq/concierge/pkg/gateway"
	"github.com/executehq/concierge/pkg/llm"
	"github.com/executehq/concierge/pkg/sse"
	"github.com/executehq/concierge/pkg/storage"
	"github.com/executehq/concierge/pkg/utils"
	"github.com/executehq/concierge/server/worker"
)

const streamChunkSize = 4 * 1024

// handleChat validates the conversation, opens a gateway stream and relays
// it to the client verbatim while decoding it for the transcript.
func (s *Server) handleChat(c *fiber.Ctx) error {
	startTime := time.Now()

	var body llm.ChatBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}
	if err := validateConversation(body.Messages); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: err.Error()})
	}

	s.logger.Debug("chat request",
		"message_count", len(body.Messages),
		"question", utils.Truncate(llm.LastUserContent(body.Messages), 80),
	)

	// Not c.Context(): fasthttp recycles its RequestCtx after the handler
	// returns while the relay goroutine still reads upstream. The relay
	// cancels instead once the client is gone.
	ctx, cancel := context.WithCancel(context.Background())
	upstream, err := s.gateway.Stream(ctx, body.Messages)
	if err != nil {
		cancel()
		return s.chatError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	// io.Pipe gives per-chunk backpressure: pw.Write blocks until fasthttp
	// has flushed the previous chunk to the socket.
	pr, pw := io.Pipe()
	go s.relay(upstream, pw, cancel, body.Messages, c.Route().Path, startTime)

	// Unknown size (-1) triggers chunked transfer encoding in fasthttp.
	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

// relay copies upstream to pw chunk by chunk, decoding as it goes, and
// enqueues the transcript once the stream ends. cancel aborts the upstream
// request and is called as soon as the client stops reading.
func (s *Server) relay(upstream io.ReadCloser, pw *io.PipeWriter, cancel context.CancelFunc, messages []llm.Message, path string, startTime time.Time) {
	defer cancel()
	defer upstream.Close()
	defer pw.Close()

	dec := sse.NewDecoder()
	buf := make([]byte, streamChunkSize)

	for {
		n, err := upstream.Read(buf)
		if n > 0 {
			dec.Feed(buf[:n])

			if _, werr := pw.Write(buf[:n]); werr != nil {
				s.logger.Warn("client went away mid stream", "error", werr)
				cancel()
				break
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.logger.Error("error reading gateway stream", "error", err)
			break
		}
	}

	if !dec.Done() {
		dec.Finish()
	}

	reply := dec.Message()
	if reply == "" && !dec.Done() {
		s.logger.Warn("gateway stream ended without content")
		return
	}

	elapsed := time.Since(startTime)
	s.logger.Debug("streaming complete",
		"content_preview", utils.Truncate(reply, 80),
		"complete", dec.Done(),
		"duration", elapsed,
	)

	s.workerPool.Enqueue(worker.Job{
		Transcript: storage.NewTranscript(s.gateway.Model(), messages, reply, dec.Done(), elapsed),
		Path:       path,
	})
}

// chatError answers a failed gateway call. Gateway status failures map onto
// their category; anything else is reported with its own message.
func (s *Server) chatError(c *fiber.Ctx, err error) error {
	var statusErr *gateway.StatusError
	if errors.As(err, &statusErr) {
		category := gateway.Classify(err)
		s.logger.Error("gateway error",
			"status", statusErr.StatusCode,
			"category", category.String(),
		)
		return c.Status(category.HTTPStatus()).JSON(llm.ErrorResponse{Error: category.ResponseMessage()})
	}

	s.logger.Error("chat error", "error", err)
	return c.Status(http.StatusInternalServerError).JSON(llm.ErrorResponse{Error: err.Error()})
}

// validateConversation accepts a non-empty list of user and assistant turns.
func validateConversation(messages []llm.Message) error {
	if len(messages) == 0 {
		return errors.New("messages must not be empty")
	}

	for _, m := range messages {
		if m.Role != llm.RoleUser && m.Role != llm.RoleAssistant {
			return errors.New("messages may only have user or assistant roles")
		}
		if !m.Valid() {
			return errors.New("messages must have content")
		}
	}

	return nil
}
