package mcp_test

import (
	"context"
	"encoding/json"
	"errors"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/executehq/concierge/pkg/gateway"
	"github.com/executehq/concierge/pkg/llm"
	"github.com/executehq/concierge/pkg/logger"
	"github.com/executehq/concierge/pkg/markup"
	"github.com/executehq/concierge/server/mcp"
)

type fakeCompleter struct {
	reply    string
	err      error
	received []llm.Message
}

func (f *fakeCompleter) Complete(_ context.Context, messages []llm.Message, _ func(string)) (string, error) {
	f.received = messages
	return f.reply, f.err
}

// connect starts an in-process client session against server.
func connect(ctx context.Context, server *mcp.Server) *sdk.ClientSession {
	clientTransport, serverTransport := sdk.NewInMemoryTransports()

	_, err := server.MCPServer().Connect(ctx, serverTransport, nil)
	Expect(err).NotTo(HaveOccurred())

	client := sdk.NewClient(&sdk.Implementation{Name: "test-client", Version: "v0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	Expect(err).NotTo(HaveOccurred())
	DeferCleanup(func() { _ = session.Close() })

	return session
}

func text(res *sdk.CallToolResult) string {
	Expect(res.Content).NotTo(BeEmpty())
	tc, ok := res.Content[0].(*sdk.TextContent)
	Expect(ok).To(BeTrue())
	return tc.Text
}

var _ = Describe("MCP Server", func() {
	var (
		ctx       context.Context
		completer *fakeCompleter
		server    *mcp.Server
	)

	BeforeEach(func() {
		ctx = context.Background()
		completer = &fakeCompleter{reply: "We build **AI agents**."}

		var err error
		server, err = mcp.NewServer(mcp.Config{
			Completer: completer,
			Logger:    logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewServer", func() {
		It("returns an error when the completer is nil", func() {
			_, err := mcp.NewServer(mcp.Config{Logger: logger.Nop()})
			Expect(err).To(MatchError(ContainSubstring("completer is required")))
		})

		It("returns an error when logger is nil", func() {
			_, err := mcp.NewServer(mcp.Config{Completer: completer})
			Expect(err).To(MatchError(ContainSubstring("logger is required")))
		})

		It("creates an empty server in noop mode", func() {
			s, err := mcp.NewServer(mcp.Config{Noop: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Handler()).NotTo(BeNil())
		})

		It("returns an HTTP handler", func() {
			Expect(server.Handler()).NotTo(BeNil())
		})
	})

	It("lists both tools", func() {
		tools, err := connect(ctx, server).ListTools(ctx, nil)
		Expect(err).NotTo(HaveOccurred())

		var names []string
		for _, t := range tools.Tools {
			names = append(names, t.Name)
		}
		Expect(names).To(ConsistOf("ask_concierge", "render_markup"))
	})

	Describe("ask_concierge", func() {
		It("returns the full reply", func() {
			res, err := connect(ctx, server).CallTool(ctx, &sdk.CallToolParams{
				Name: "ask_concierge",
				Arguments: map[string]any{
					"question": "What do you build?",
					"history": []map[string]string{
						{"role": "system", "content": "ignored"},
						{"role": "assistant", "content": "Hi there"},
					},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeFalse())
			Expect(text(res)).To(Equal("We build **AI agents**."))

			Expect(completer.received).To(Equal([]llm.Message{
				llm.NewMessage(llm.RoleAssistant, "Hi there"),
				llm.NewMessage(llm.RoleUser, "What do you build?"),
			}))
		})

		It("reports a blank question as a tool error", func() {
			res, err := connect(ctx, server).CallTool(ctx, &sdk.CallToolParams{
				Name:      "ask_concierge",
				Arguments: map[string]any{"question": "   "},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
		})

		It("reports gateway failures by category", func() {
			completer.err = &gateway.StatusError{StatusCode: 429}

			res, err := connect(ctx, server).CallTool(ctx, &sdk.CallToolParams{
				Name:      "ask_concierge",
				Arguments: map[string]any{"question": "hi"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
			Expect(text(res)).To(Equal(gateway.CategoryRateLimited.Message()))
		})

		It("reports other failures generically", func() {
			completer.err = errors.New("connection reset")

			res, err := connect(ctx, server).CallTool(ctx, &sdk.CallToolParams{
				Name:      "ask_concierge",
				Arguments: map[string]any{"question": "hi"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(text(res)).To(Equal(gateway.CategoryGeneric.Message()))
		})
	})

	Describe("render_markup", func() {
		It("returns the node tree as JSON", func() {
			res, err := connect(ctx, server).CallTool(ctx, &sdk.CallToolParams{
				Name:      "render_markup",
				Arguments: map[string]any{"text": "Hello **world**"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeFalse())

			var out mcp.RenderOutput
			Expect(json.Unmarshal([]byte(text(res)), &out)).To(Succeed())
			Expect(out.Count).To(Equal(1))
			Expect(out.Nodes).To(Equal([]markup.Node{
				markup.Paragraph(markup.Plain("Hello "), markup.Bold("world")),
			}))
		})
	})
})
