package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/executehq/concierge/pkg/llm"
	"github.com/executehq/concierge/pkg/markup"
	"github.com/executehq/concierge/pkg/storage"
)

// RenderRequest is the body accepted by /render.
type RenderRequest struct {
	Text string `json:"text"`
}

// RenderResponse is the markup tree for a rendered text.
type RenderResponse struct {
	Nodes []markup.Node `json:"nodes"`
}

// TranscriptList is the body returned by /transcripts.
type TranscriptList struct {
	Transcripts []*storage.Transcript `json:"transcripts"`
	Count       int                   `json:"count"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleRender parses text into a markup tree.
func (s *Server) handleRender(c *fiber.Ctx) error {
	var req RenderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	return c.JSON(RenderResponse{Nodes: markup.Render(req.Text)})
}

// handleListTranscripts returns the newest transcripts, up to ?limit.
func (s *Server) handleListTranscripts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", storage.DefaultListLimit)

	transcripts, err := s.driver.List(c.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list transcripts", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to list transcripts"})
	}

	return c.JSON(TranscriptList{Transcripts: transcripts, Count: len(transcripts)})
}

// handleGetTranscript returns a single transcript by its ID.
func (s *Server) handleGetTranscript(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "id parameter required"})
	}

	t, err := s.driver.Get(c.Context(), id)
	if err != nil {
		var notFound storage.ErrNotFound
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(llm.ErrorResponse{Error: "transcript not found"})
		}
		s.logger.Error("failed to get transcript", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to get transcript"})
	}

	return c.JSON(t)
}
