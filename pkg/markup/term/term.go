// Package term displays markup trees in a terminal: emphasis through lipgloss
// styles, paragraphs word wrapped to the terminal width and tables laid out
// in padded columns.
package term

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/wordwrap"

	"github.com/executehq/concierge/pkg/markup"
)

// DefaultWidth is the wrap width used when none is configured.
const DefaultWidth = 80

// Styles maps span kinds and table parts to lipgloss styles.
type Styles struct {
	Bold   lipgloss.Style
	Italic lipgloss.Style
	Header lipgloss.Style
	Rule   lipgloss.Style
}

// DefaultStyles returns the styles used by chat and render output.
func DefaultStyles() Styles {
	return Styles{
		Bold:   lipgloss.NewStyle().Bold(true),
		Italic: lipgloss.NewStyle().Italic(true),
		Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Rule:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// PlainStyles returns styles that add no escape sequences.
func PlainStyles() Styles {
	return Styles{
		Bold:   lipgloss.NewStyle(),
		Italic: lipgloss.NewStyle(),
		Header: lipgloss.NewStyle(),
		Rule:   lipgloss.NewStyle(),
	}
}

// Renderer writes markup nodes as terminal text.
type Renderer struct {
	width  int
	styles Styles
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWidth sets the paragraph wrap width. Zero or less disables wrapping.
func WithWidth(width int) Option {
	return func(r *Renderer) {
		r.width = width
	}
}

// WithStyles replaces the default styles.
func WithStyles(s Styles) Option {
	return func(r *Renderer) {
		r.styles = s
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		width:  DefaultWidth,
		styles: DefaultStyles(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderText parses text with markup.Render and renders the result.
func (r *Renderer) RenderText(text string) string {
	return r.Render(markup.Render(text))
}

// Render returns nodes as newline terminated terminal text.
func (r *Renderer) Render(nodes []markup.Node) string {
	var b strings.Builder

	for _, node := range nodes {
		switch node.Kind {
		case markup.KindParagraph:
			b.WriteString(r.paragraph(node.Spans))
			b.WriteByte('\n')
		case markup.KindLineBreak:
			b.WriteByte('\n')
		case markup.KindTable:
			b.WriteString(r.table(node.Header, node.Rows))
		}
	}

	return b.String()
}

func (r *Renderer) paragraph(spans []markup.Span) string {
	text := r.spans(spans)
	if r.width <= 0 {
		return text
	}
	return wordwrap.String(text, r.width)
}

func (r *Renderer) spans(spans []markup.Span) string {
	var b strings.Builder
	for _, s := range spans {
		switch s.Kind {
		case markup.SpanBold:
			b.WriteString(r.styles.Bold.Render(s.Text))
		case markup.SpanItalic:
			b.WriteString(r.styles.Italic.Render(s.Text))
		default:
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// headerSpans renders spans in the header style. Emphasized spans keep their
// own style on top of it, since nesting rendered styles would reset the
// header colour midway through the cell.
func (r *Renderer) headerSpans(spans []markup.Span) string {
	var b strings.Builder
	for _, s := range spans {
		switch s.Kind {
		case markup.SpanBold:
			b.WriteString(r.styles.Bold.Inherit(r.styles.Header).Render(s.Text))
		case markup.SpanItalic:
			b.WriteString(r.styles.Italic.Inherit(r.styles.Header).Render(s.Text))
		default:
			b.WriteString(r.styles.Header.Render(s.Text))
		}
	}
	return b.String()
}

// table lays out header and rows in columns sized to their widest cell.
// Short rows end early instead of being padded.
func (r *Renderer) table(header []markup.Cell, rows [][]markup.Cell) string {
	columns := len(header)
	for _, row := range rows {
		columns = max(columns, len(row))
	}
	if columns == 0 {
		return ""
	}

	widths := make([]int, columns)
	measure := func(cells []markup.Cell) {
		for i, c := range cells {
			widths[i] = max(widths[i], ansi.PrintableRuneWidth(markup.PlainText(c)))
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}

	var b strings.Builder

	b.WriteString(r.row(header, widths, func(c markup.Cell) string {
		return r.headerSpans(c)
	}))

	rule := make([]string, columns)
	for i, w := range widths {
		rule[i] = strings.Repeat("─", w)
	}
	b.WriteString(r.styles.Rule.Render(strings.Join(rule, "─┼─")))
	b.WriteByte('\n')

	for _, row := range rows {
		b.WriteString(r.row(row, widths, func(c markup.Cell) string {
			return r.spans(c)
		}))
	}

	return b.String()
}

func (r *Renderer) row(cells []markup.Cell, widths []int, render func(markup.Cell) string) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		width := ansi.PrintableRuneWidth(markup.PlainText(c))
		parts[i] = render(c) + strings.Repeat(" ", widths[i]-width)
	}

	sep := r.styles.Rule.Render(" │ ")
	return strings.TrimRight(strings.Join(parts, sep), " ") + "\n"
}
