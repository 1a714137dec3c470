package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Format selects a status renderer.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatMarkdown, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, markdown or json)", s)
	}
}

// Render writes stats in the given format.
func Render(w io.Writer, stats Stats, format Format) error {
	switch format {
	case FormatMarkdown:
		_, err := io.WriteString(w, RenderMarkdown(stats))
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	default:
		return RenderText(w, stats)
	}
}

func lastSync(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.UTC().Format(time.RFC3339)
}

// RenderText writes a colored terminal summary.
func RenderText(w io.Writer, stats Stats) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	var b strings.Builder
	title := stats.Project
	if stats.Version != "" {
		title += " v" + stats.Version
	}
	fmt.Fprintf(&b, "\n%s\n\n", cyan(title))

	if len(stats.Features) == 0 {
		fmt.Fprintf(&b, "  %s\n", gray("No features"))
	}
	for _, f := range stats.Features {
		progress := yellow(fmt.Sprintf("%3d%%", f.Progress))
		if f.Progress == 100 {
			progress = green(fmt.Sprintf("%3d%%", f.Progress))
		}
		fmt.Fprintf(&b, "  %s %s %s\n", progress, f.Name, gray("("+f.ID+")"))
		fmt.Fprintf(&b, "       %d/%d done, %d in progress, %d pending",
			f.Tasks.Completed, f.Tasks.Total, f.Tasks.InProgress, f.Tasks.Pending)
		if f.OpenDebt > 0 {
			fmt.Fprintf(&b, ", %s", yellow(fmt.Sprintf("%d open debt", f.OpenDebt)))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n%s %s\n", cyan("Total progress:"), green(strconv.Itoa(stats.TotalProgress)+"%"))
	fmt.Fprintf(&b, "  Tasks: %d completed, %d in progress, %d pending (%d total)\n",
		stats.Tasks.Completed, stats.Tasks.InProgress, stats.Tasks.Pending, stats.Tasks.Total)
	fmt.Fprintf(&b, "  Open technical debt: %d\n", stats.OpenDebt)
	fmt.Fprintf(&b, "  Last sync: %s\n", lastSync(stats.LastSync))

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderMarkdown returns a deterministic Markdown status document.
func RenderMarkdown(stats Stats) string {
	var b strings.Builder

	b.WriteString(heading(1, "Roadmap status: "+stats.Project))
	b.WriteString("\n")

	summary := []string{}
	if stats.Version != "" {
		summary = append(summary, "Version: "+stats.Version)
	}
	summary = append(summary,
		fmt.Sprintf("Total progress: %d%%", stats.TotalProgress),
		fmt.Sprintf("Tasks: %d completed, %d in progress, %d pending (%d total)",
			stats.Tasks.Completed, stats.Tasks.InProgress, stats.Tasks.Pending, stats.Tasks.Total),
		fmt.Sprintf("Open technical debt: %d", stats.OpenDebt),
		"Last sync: "+lastSync(stats.LastSync),
	)
	b.WriteString(bulletList(summary))
	b.WriteString("\n")

	b.WriteString(heading(2, "Features"))
	b.WriteString("\n")
	if len(stats.Features) == 0 {
		b.WriteString("_No features._\n")
		return b.String()
	}

	rows := make([][]string, 0, len(stats.Features))
	for _, f := range stats.Features {
		rows = append(rows, []string{
			fmt.Sprintf("%s (`%s`)", escapeCell(f.Name), f.ID),
			string(f.Priority),
			fmt.Sprintf("%d%%", f.Progress),
			strconv.Itoa(f.Tasks.Completed),
			strconv.Itoa(f.Tasks.InProgress),
			strconv.Itoa(f.Tasks.Pending),
			strconv.Itoa(f.OpenDebt),
		})
	}
	b.WriteString(table(
		[]string{"Feature", "Priority", "Progress", "Completed", "In progress", "Pending", "Open debt"},
		rows,
	))
	return b.String()
}
