package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// colGap is the padding between table columns.
const colGap = 2

// RenderTable renders a simple aligned table with a header separator line.
// Headers are rendered with the Header style. Columns are padded to the
// maximum visible width found in each column.
func RenderTable(headers []string, rows [][]string) string {
	return RenderTableWithFooter(headers, rows, nil)
}

// RenderTableWithFooter is RenderTable plus a footer row set off by a second
// separator line. A nil footer renders no separator.
func RenderTableWithFooter(headers []string, rows [][]string, footer []string) string {
	if len(headers) == 0 {
		return ""
	}

	widths := columnWidths(headers, rows, footer)
	var b strings.Builder

	writeRow(&b, headers, widths, StyleHeader.Render)
	writeSeparator(&b, widths)
	for _, row := range rows {
		writeRow(&b, row, widths, nil)
	}
	if footer != nil {
		writeSeparator(&b, widths)
		writeRow(&b, footer, widths, StyleBold.Render)
	}
	return b.String()
}

// columnWidths measures visible width, so cells may carry ANSI styling.
func columnWidths(headers []string, rows [][]string, footer []string) []int {
	widths := make([]int, len(headers))
	measure := func(cells []string) {
		for i := 0; i < len(widths) && i < len(cells); i++ {
			if w := lipgloss.Width(cells[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}
	measure(footer)
	return widths
}

func writeRow(b *strings.Builder, cells []string, widths []int, style func(...string) string) {
	for i := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := widths[i] - lipgloss.Width(cell)
		if pad < 0 {
			pad = 0
		}
		if style != nil && cell != "" {
			cell = style(cell)
		}
		b.WriteString(cell)
		if i < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", pad+colGap))
		}
	}
	b.WriteString("\n")
}

func writeSeparator(b *strings.Builder, widths []int) {
	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
}
