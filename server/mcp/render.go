package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/executehq/concierge/pkg/markup"
)

var (
	renderToolName    = "render_markup"
	renderDescription = "Parse markdown-lite text (paragraphs, **bold**, *italic* and pipe tables) into a typed node tree."
)

// RenderInput represents the input arguments for the render tool.
type RenderInput struct {
	Text string `json:"text" jsonschema:"the markdown-lite text to parse"`
}

// RenderOutput represents the output of the render tool.
type RenderOutput struct {
	Nodes []markup.Node `json:"nodes"`
	Count int           `json:"count"`
}

func (s *Server) handleRender(_ context.Context, _ *mcp.CallToolRequest, input RenderInput) (*mcp.CallToolResult, RenderOutput, error) {
	nodes := markup.Render(input.Text)
	output := RenderOutput{
		Nodes: nodes,
		Count: len(nodes),
	}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		s.config.Logger.Error("failed to marshal render output", "error", err)
		return errorResult(fmt.Sprintf("Failed to serialize nodes: %v", err)), RenderOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
