// Package rendercmder provides the render command that displays
// markdown-lite text in the terminal.
package rendercmder

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/executehq/concierge/pkg/cliui"
	"github.com/executehq/concierge/pkg/markup"
	"github.com/executehq/concierge/pkg/markup/term"
)

type renderCommander struct {
	asJSON bool
	plain  bool
	width  int
}

const renderLongDesc string = `Render markdown-lite text in the terminal.

Reads text from the given file, or from standard input when no file (or -)
is given, and renders **bold**, *italic*, line breaks and pipe tables the
way chat replies are displayed. Paragraphs wrap to the terminal width.

With --json the parsed node tree is printed instead.

Examples:
  concierge render reply.md
  echo 'Hello **world**' | concierge render
  concierge render --json reply.md`

const renderShortDesc string = "Render markdown-lite text in the terminal"

func NewRenderCmd() *cobra.Command {
	cmder := &renderCommander{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: renderShortDesc,
		Long:  renderLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("width") {
				cmder.width = cliui.TerminalWidth(os.Stdout)
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening %s: %w", args[0], err)
				}
				defer f.Close()
				in = f
			}

			return cmder.run(in, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&cmder.asJSON, "json", false, "Print the parsed node tree as JSON")
	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Render without colors or text attributes")
	cmd.Flags().IntVarP(&cmder.width, "width", "w", term.DefaultWidth, "Wrap width in columns (0 disables wrapping)")

	return cmd
}

func (c *renderCommander) run(in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	nodes := markup.Render(string(data))

	if c.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(nodes)
	}

	opts := []term.Option{term.WithWidth(c.width)}
	if c.plain {
		opts = append(opts, term.WithStyles(term.PlainStyles()))
	}

	_, err = io.WriteString(out, term.New(opts...).Render(nodes))
	return err
}
