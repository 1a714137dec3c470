package report

import (
	"strings"
)

// heading renders a Markdown heading of the given level.
func heading(level int, title string) string {
	return strings.Repeat("#", level) + " " + title + "\n"
}

// table renders a Markdown table. Rows are emitted in the given order.
func table(headers []string, rows [][]string) string {
	var b strings.Builder

	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|")
	for range headers {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	return b.String()
}

// bulletList renders an unordered Markdown list.
func bulletList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
