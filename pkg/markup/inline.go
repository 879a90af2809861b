package markup

import (
	"regexp"
	"strings"
)

// emphasisPattern matches **bold** before *italic* at the same position.
// Content is matched lazily and never crosses a newline.
var emphasisPattern = regexp.MustCompile(`\*\*.*?\*\*|\*.*?\*`)

// Inline splits a single line of text into plain, bold and italic spans.
// Nesting is not supported. Asterisks that do not form a delimited run with
// content are kept as plain text. Adjacent plain runs are merged, so a line
// with no emphasis yields exactly one span equal to the input.
func Inline(text string) []Span {
	spans := []Span{}
	if text == "" {
		return spans
	}

	var plain strings.Builder
	flush := func() {
		if plain.Len() > 0 {
			spans = append(spans, Plain(plain.String()))
			plain.Reset()
		}
	}

	cursor := 0
	for _, loc := range emphasisPattern.FindAllStringIndex(text, -1) {
		plain.WriteString(text[cursor:loc[0]])
		cursor = loc[1]

		token := text[loc[0]:loc[1]]
		span, ok := emphasis(token)
		if !ok {
			plain.WriteString(token)
			continue
		}

		flush()
		spans = append(spans, span)
	}

	plain.WriteString(text[cursor:])
	flush()

	return spans
}

// emphasis converts a matched token into a span. Tokens whose delimiters
// enclose nothing, such as "**" or "****", are reported as not ok.
func emphasis(token string) (Span, bool) {
	if len(token) >= 4 && strings.HasPrefix(token, "**") && strings.HasSuffix(token, "**") {
		inner := token[2 : len(token)-2]
		if inner == "" {
			return Span{}, false
		}
		return Bold(inner), true
	}

	inner := token[1 : len(token)-1]
	if inner == "" {
		return Span{}, false
	}
	return Italic(inner), true
}
