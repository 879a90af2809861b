package markup

import "strings"

// Render converts text into display nodes, one per input line except for
// tables, which consume their header, separator and body rows together.
//
// A table starts at a line containing "|" whose next line contains "---".
// Body rows are the contiguous "|" lines that follow. A "|" line without a
// separator beneath it is an ordinary paragraph. Blank lines become line
// breaks, so Render("") yields a single LineBreak.
//
// Render is pure and safe for concurrent use.
func Render(text string) []Node {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	nodes := make([]Node, 0, len(lines))
	for i := 0; i < len(lines); {
		line := lines[i]

		if isTableStart(lines, i) {
			header := splitRow(line)
			i += 2

			var rows [][]Cell
			for i < len(lines) && strings.Contains(lines[i], "|") {
				rows = append(rows, splitRow(lines[i]))
				i++
			}

			nodes = append(nodes, Table(header, rows))
			continue
		}

		if strings.TrimSpace(line) == "" {
			nodes = append(nodes, LineBreak())
		} else {
			nodes = append(nodes, Paragraph(Inline(line)...))
		}
		i++
	}

	return nodes
}

func isTableStart(lines []string, i int) bool {
	return strings.Contains(lines[i], "|") &&
		i+1 < len(lines) &&
		strings.Contains(lines[i+1], "---")
}

// splitRow splits a table line on "|" and trims every cell. The empty cells
// produced by a leading or trailing pipe are dropped; empty cells between
// two pipes are kept so columns stay aligned. Rows are never padded.
func splitRow(line string) []Cell {
	parts := strings.Split(line, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) > 0 && parts[0] == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	cells := make([]Cell, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, Cell(Inline(p)))
	}
	return cells
}
