// Package chatcmder provides the chat command for talking to a running
// concierge server from the terminal.
package chatcmder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/executehq/concierge/pkg/cliui"
	"github.com/executehq/concierge/pkg/config"
	"github.com/executehq/concierge/pkg/dotdir"
	"github.com/executehq/concierge/pkg/gateway"
	"github.com/executehq/concierge/pkg/llm"
	"github.com/executehq/concierge/pkg/logger"
)

const (
	exitCommand  = "/exit"
	resetCommand = "/reset"

	assistantLabel = "concierge> "
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(assistantLabel)
)

type chatCommander struct {
	serverTarget string
	fresh        bool
	raw          bool

	configDir string
	debug     bool

	in  io.Reader
	out io.Writer

	// interactive is set when out is a terminal. Live replies are then
	// erased and redrawn once complete.
	interactive bool
	width       int

	client   *gateway.Client
	sessions *dotdir.Manager
	logger   *slog.Logger
}

const chatLongDesc string = `Start an interactive chat with a running concierge server.

Messages are sent to the server's /chat endpoint and the reply is streamed
back as it is generated, then redrawn with bold, italic and table markup.
The conversation is saved in the .concierge/ directory and resumed the next
time "concierge chat" runs.

Commands:
  /reset   Forget the conversation and start over
  /exit    Quit (Ctrl+D also quits)

Examples:
  concierge chat
  concierge chat --server http://localhost:8080 --new`

const chatShortDesc string = "Chat with a running concierge server"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, []string{config.FlagServerTarget})

			cfg, err := config.Load(v)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cmder.serverTarget = cfg.Client.ServerTarget
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			cmder.in = cmd.InOrStdin()
			cmder.out = cmd.OutOrStdout()
			cmder.interactive = cliui.IsTerminal(os.Stdout)
			cmder.width = cliui.TerminalWidth(os.Stdout)

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagServerTarget, &cmder.serverTarget)
	cmd.Flags().BoolVar(&cmder.fresh, "new", false, "Discard the saved conversation before starting")
	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print replies as received, without markup rendering")

	return cmd
}

func (c *chatCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.logger == nil {
		c.logger = logger.New(
			logger.WithDebug(c.debug),
			logger.WithFormat(logger.FormatPretty),
			logger.WithWriter(os.Stderr),
		)
	}
	if c.sessions == nil {
		c.sessions = dotdir.NewManager()
	}
	if c.client == nil {
		c.client = gateway.New(gateway.Config{
			URL:       chatURL(c.serverTarget),
			Anonymous: true,
			Logger:    c.logger,
		})
	}

	messages, err := c.startSession()
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "  %s %s\n",
		cliui.KeyStyle.Render("Server:"),
		cliui.NameStyle.Render(c.serverTarget),
	)
	fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /reset to start over, /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, userPrompt)
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case exitCommand:
			fmt.Fprintln(c.out)
			return nil
		case resetCommand:
			messages = nil
			if err := c.sessions.ClearSession(c.configDir); err != nil {
				c.logger.Warn("could not clear session", "error", err)
			}
			fmt.Fprintf(c.out, "\n  %s New conversation\n\n", cliui.DimStyle.Render("●"))
			continue
		}

		messages = append(messages, llm.NewMessage(llm.RoleUser, input))

		reply, err := c.turn(ctx, messages)
		if err != nil {
			c.logger.Debug("chat turn failed", "error", err)
			fmt.Fprintf(c.out, "  %s %s\n\n", cliui.FailMark, cliui.ErrorStyle.Render(gateway.Classify(err).Message()))
			// Drop the failed user message so it can be retried.
			messages = messages[:len(messages)-1]
			continue
		}

		messages = append(messages, llm.NewMessage(llm.RoleAssistant, reply))
		c.saveSession(messages)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Fprintln(c.out)
	return nil
}

// startSession returns the saved conversation, or none when starting fresh.
func (c *chatCommander) startSession() ([]llm.Message, error) {
	fmt.Fprintln(c.out)

	if c.fresh {
		if err := c.sessions.ClearSession(c.configDir); err != nil {
			return nil, fmt.Errorf("clearing session: %w", err)
		}
	}

	session, err := c.sessions.LoadSession(c.configDir)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	if session == nil || len(session.Messages) == 0 {
		fmt.Fprintf(c.out, "  %s New conversation\n", cliui.DimStyle.Render("●"))
		return nil, nil
	}

	fmt.Fprintf(c.out, "  %s Resuming conversation %s\n",
		cliui.SuccessMark,
		cliui.DimStyle.Render(fmt.Sprintf("(%d messages, %s)",
			len(session.Messages),
			session.UpdatedAt.Local().Format(time.DateTime),
		)),
	)
	return session.Messages, nil
}

func (c *chatCommander) saveSession(messages []llm.Message) {
	err := c.sessions.SaveSession(&dotdir.Session{
		Messages:  messages,
		UpdatedAt: time.Now().UTC(),
	}, c.configDir)
	if err != nil {
		c.logger.Warn("could not save session", "error", err)
	}
}

// turn sends the conversation and displays the reply. Ctrl+C abandons the
// reply without leaving the chat.
func (c *chatCommander) turn(ctx context.Context, messages []llm.Message) (string, error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	live := c.interactive || c.raw

	var received strings.Builder
	onDelta := func(delta string) {
		received.WriteString(delta)
		if live {
			fmt.Fprint(c.out, delta)
		}
	}

	fmt.Fprint(c.out, assistantPrompt)
	reply, err := c.client.Complete(ctx, messages, onDelta)
	if err != nil {
		if live && received.Len() > 0 {
			fmt.Fprintln(c.out)
		}
		fmt.Fprint(c.out, "\r")
		return "", err
	}

	switch {
	case c.raw:
		fmt.Fprint(c.out, "\n\n")
	case c.interactive:
		fmt.Fprint(c.out, eraseSequence(len(assistantLabel), received.String(), c.width))
		fmt.Fprintf(c.out, "%s\n%s\n", assistantPrompt, cliui.RenderMarkup(reply, c.width))
	default:
		fmt.Fprintf(c.out, "\n%s\n", cliui.RenderMarkup(reply, c.width))
	}

	return reply, nil
}

// chatURL returns the /chat endpoint of the server at target.
func chatURL(target string) string {
	return strings.TrimRight(strings.TrimSpace(target), "/") + "/chat"
}
