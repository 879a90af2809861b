package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/executehq/concierge/pkg/gateway"
	"github.com/executehq/concierge/pkg/llm"
)

var (
	askToolName    = "ask_concierge"
	askDescription = "Ask the Execute agency concierge a question about AI automation services. Returns the assistant's full reply as markdown-lite text."
)

// AskInput represents the input arguments for the ask tool.
type AskInput struct {
	Question string        `json:"question" jsonschema:"the question to ask the concierge"`
	History  []llm.Message `json:"history,omitempty" jsonschema:"earlier user and assistant turns, oldest first"`
}

// AskOutput represents the output of the ask tool.
type AskOutput struct {
	Question string `json:"question"`
	Reply    string `json:"reply"`
}

func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
	log := s.config.Logger

	question := strings.TrimSpace(input.Question)
	if question == "" {
		return errorResult("question must not be empty"), AskOutput{}, nil
	}

	messages := make([]llm.Message, 0, len(input.History)+1)
	for _, m := range input.History {
		if m.Role == llm.RoleSystem || !m.Valid() {
			continue
		}
		messages = append(messages, m)
	}
	messages = append(messages, llm.NewMessage(llm.RoleUser, question))

	log.Debug("MCP ask request", "message_count", len(messages))

	reply, err := s.config.Completer.Complete(ctx, messages, nil)
	if err != nil {
		category := gateway.Classify(err)
		log.Error("ask_concierge failed", "category", category.String(), "error", err)
		return errorResult(category.Message()), AskOutput{}, nil
	}

	output := AskOutput{
		Question: question,
		Reply:    reply,
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: reply},
		},
	}, output, nil
}
