// Package report formats a generation result for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"faviconkit/internal/favicon"
)

const DefaultReasonWidth = 72

type Options struct {
	Color bool
	// ReasonWidth caps the reason column in display cells.
	ReasonWidth int
}

type row struct {
	status string
	file   string
	size   string
	reason string
}

var (
	writtenStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	failedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("160"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("117"))
)

// Render lists written, skipped and failed files followed by a summary line.
func Render(result *favicon.Result, opts Options) string {
	if result == nil {
		result = &favicon.Result{}
	}
	if opts.ReasonWidth <= 0 {
		opts.ReasonWidth = DefaultReasonWidth
	}

	rows := []row{{status: "STATUS", file: "FILE", size: "SIZE", reason: "DETAIL"}}
	for _, f := range result.Written {
		rows = append(rows, row{status: "written", file: f.Filename, size: humanize.Bytes(uint64(f.Bytes))})
	}
	for _, f := range result.Skipped {
		rows = append(rows, row{status: "skipped", file: f.Filename, size: "-", reason: skipReason(f.Reason)})
	}
	for _, f := range result.Failed {
		reason := ""
		if f.Err != nil {
			reason = f.Err.Error()
		}
		rows = append(rows, row{status: "failed", file: f.Filename, size: "-", reason: truncateDisplayWidth(reason, opts.ReasonWidth)})
	}

	var statusW, fileW, sizeW int
	for _, r := range rows {
		statusW = max(statusW, ansi.StringWidth(r.status))
		fileW = max(fileW, ansi.StringWidth(r.file))
		sizeW = max(sizeW, ansi.StringWidth(r.size))
	}

	var b strings.Builder
	for i, r := range rows {
		status := style(opts.Color, statusStyle(i, r.status), pad(r.status, statusW))
		line := strings.Join([]string{status, pad(r.file, fileW), padLeft(r.size, sizeW), r.reason}, "  ")
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%d written, %d skipped, %d failed\n", len(result.Written), len(result.Skipped), len(result.Failed))
	return b.String()
}

func skipReason(reason favicon.SkipReason) string {
	switch reason {
	case favicon.SkipExists:
		return "already exists"
	case favicon.SkipUpscale:
		return "source too small, would require upscaling"
	default:
		return string(reason)
	}
}

func statusStyle(index int, status string) lipgloss.Style {
	if index == 0 {
		return headerStyle
	}
	switch status {
	case "written":
		return writtenStyle
	case "failed":
		return failedStyle
	default:
		return skippedStyle
	}
}

func style(enabled bool, s lipgloss.Style, value string) string {
	if !enabled {
		return value
	}
	return s.Render(value)
}

func pad(value string, width int) string {
	return value + strings.Repeat(" ", max(width-ansi.StringWidth(value), 0))
}

func padLeft(value string, width int) string {
	return strings.Repeat(" ", max(width-ansi.StringWidth(value), 0)) + value
}

func truncateDisplayWidth(value string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(value) <= width {
		return value
	}
	if width == 1 {
		return "…"
	}
	limit := max(width-ansi.StringWidth("…"), 0)
	var b strings.Builder
	current := 0
	for _, r := range value {
		w := ansi.StringWidth(string(r))
		if current+w > limit {
			break
		}
		b.WriteRune(r)
		current += w
	}
	return b.String() + "…"
}
