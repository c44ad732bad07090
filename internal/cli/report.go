package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pdfwatermark/pkg/errors"
	"github.com/matzehuels/pdfwatermark/pkg/pipeline"
)

// Report table columns.
const (
	colStatus = iota
	colFile
	colPages
	colTime
	colDetail
)

// printReport writes one row per outcome, in task order, followed by a
// summary line.
func printReport(w io.Writer, outcomes []pipeline.Outcome, dryRun bool) {
	if len(outcomes) == 0 {
		return
	}
	fmt.Fprintln(w, renderReport(outcomes, dryRun))

	s := pipeline.Summarize(outcomes)
	line := summaryLine(s, dryRun)
	if s.Failed > 0 {
		printError(w, "%s", line)
		return
	}
	printSuccess(w, "%s", line)
}

// renderReport renders the outcome table.
func renderReport(outcomes []pipeline.Outcome, dryRun bool) string {
	rows := make([][]string, len(outcomes))
	for i, o := range outcomes {
		rows[i] = reportRow(o, dryRun)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "File", "Pages", "Time", "Result").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			failed := row >= 0 && row < len(outcomes) && !outcomes[row].OK()
			switch col {
			case colStatus:
				if failed {
					return base.Foreground(colorRed)
				}
				return base.Foreground(colorGreen)
			case colPages:
				return base.Foreground(colorCyan).Align(lipgloss.Right)
			case colTime:
				return base.Foreground(colorDim).Align(lipgloss.Right)
			case colDetail:
				if failed {
					return base.Foreground(colorRed)
				}
				return base.Foreground(colorGray)
			}
			return base
		})
	return t.Render()
}

func reportRow(o pipeline.Outcome, dryRun bool) []string {
	if !o.OK() {
		detail := errors.UserMessage(o.Err)
		if code := errors.GetCode(o.Err); code != "" {
			detail = string(code) + ": " + detail
		}
		return []string{iconError, o.Task.Input, "", formatDuration(o.Duration), detail}
	}

	detail := iconArrow + " " + o.Task.Output
	switch {
	case dryRun:
		detail = "dry run"
	case o.Task.Output == o.Task.Input:
		detail = "in place"
	}
	return []string{iconSuccess, o.Task.Input, fmt.Sprint(o.Pages), formatDuration(o.Duration), detail}
}

// summaryLine describes the batch in one sentence.
func summaryLine(s pipeline.Summary, dryRun bool) string {
	verb := "Watermarked"
	if dryRun {
		verb = "Checked"
	}
	line := fmt.Sprintf("%s %d of %d %s (%d %s)", verb, s.Succeeded, s.Total,
		plural(s.Total, "file"), s.Pages, plural(s.Pages, "page"))
	if s.Failed > 0 {
		line += fmt.Sprintf(", %d failed", s.Failed)
	}
	return line
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.Round(time.Millisecond).String()
}
