// Package markup turns the markdown-lite text produced by the chat assistant
// into a structured tree of display nodes. Bold, italic and simple pipe
// tables are recognized; everything else is carried as plain text, so the
// display layer never has to interpret raw markup.
package markup

import "encoding/json"

// NodeKind names the variant held by a Node.
type NodeKind string

const (
	KindParagraph NodeKind = "paragraph"
	KindLineBreak NodeKind = "line_break"
	KindTable     NodeKind = "table"
)

// SpanKind names the emphasis applied to a Span.
type SpanKind string

const (
	SpanPlain  SpanKind = "text"
	SpanBold   SpanKind = "bold"
	SpanItalic SpanKind = "italic"
)

// Span is a run of text with a single emphasis.
type Span struct {
	Kind SpanKind `json:"type"`
	Text string   `json:"text"`
}

// Cell is the inline content of one table cell.
type Cell []Span

// Node is one top-level display unit. Which fields are set depends on Kind:
// paragraphs carry Spans, tables carry Header and Rows, line breaks carry
// nothing.
type Node struct {
	Kind   NodeKind `json:"type"`
	Spans  []Span   `json:"spans,omitempty"`
	Header []Cell   `json:"header,omitempty"`
	Rows   [][]Cell `json:"rows,omitempty"`
}

// MarshalJSON writes only the fields of n's kind. Tables always carry both
// "header" and "rows", even when the body is empty.
func (n Node) MarshalJSON() ([]byte, error) {
	switch n.Kind {
	case KindParagraph:
		spans := n.Spans
		if spans == nil {
			spans = []Span{}
		}
		return json.Marshal(struct {
			Kind  NodeKind `json:"type"`
			Spans []Span   `json:"spans"`
		}{n.Kind, spans})
	case KindTable:
		header, rows := n.Header, n.Rows
		if header == nil {
			header = []Cell{}
		}
		if rows == nil {
			rows = [][]Cell{}
		}
		return json.Marshal(struct {
			Kind   NodeKind `json:"type"`
			Header []Cell   `json:"header"`
			Rows   [][]Cell `json:"rows"`
		}{n.Kind, header, rows})
	default:
		return json.Marshal(struct {
			Kind NodeKind `json:"type"`
		}{n.Kind})
	}
}

// Plain returns a span without emphasis.
func Plain(text string) Span { return Span{Kind: SpanPlain, Text: text} }

// Bold returns a bold span.
func Bold(text string) Span { return Span{Kind: SpanBold, Text: text} }

// Italic returns an italic span.
func Italic(text string) Span { return Span{Kind: SpanItalic, Text: text} }

// Paragraph returns a paragraph node wrapping spans.
func Paragraph(spans ...Span) Node {
	return Node{Kind: KindParagraph, Spans: spans}
}

// LineBreak returns a line break node.
func LineBreak() Node {
	return Node{Kind: KindLineBreak}
}

// Table returns a table node. rows may be empty.
func Table(header []Cell, rows [][]Cell) Node {
	if rows == nil {
		rows = [][]Cell{}
	}
	return Node{Kind: KindTable, Header: header, Rows: rows}
}

// PlainText flattens spans back to their text, dropping emphasis.
func PlainText(spans []Span) string {
	n := 0
	for _, s := range spans {
		n += len(s.Text)
	}

	out := make([]byte, 0, n)
	for _, s := range spans {
		out = append(out, s.Text...)
	}
	return string(out)
}
