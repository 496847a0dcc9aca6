package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorEnabled reports whether w is a terminal that accepts ANSI styling.
// NO_COLOR and CLICOLOR_FORCE are honored.
func ColorEnabled(w io.Writer) bool {
	return colorProfile(w) != termenv.Ascii
}

func colorProfile(w io.Writer) termenv.Profile {
	if strings.TrimSpace(os.Getenv("TERM")) == "dumb" {
		return termenv.Ascii
	}
	return termenv.NewOutput(w).EnvColorProfile()
}

type consoleStyles struct {
	time    lipgloss.Style
	message lipgloss.Style
	key     lipgloss.Style
	value   lipgloss.Style
	punct   lipgloss.Style
	jsonKey lipgloss.Style
	badges  map[slog.Level]lipgloss.Style
}

// newConsoleStyles returns nil when w should receive plain lines.
func newConsoleStyles(w io.Writer) *consoleStyles {
	profile := colorProfile(w)
	if profile == termenv.Ascii {
		return nil
	}
	return stylesForProfile(w, profile)
}

func stylesForProfile(w io.Writer, profile termenv.Profile) *consoleStyles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)

	badge := r.NewStyle().Bold(true).Padding(0, 1)
	return &consoleStyles{
		time:    r.NewStyle().Foreground(lipgloss.Color("244")),
		message: r.NewStyle().Bold(true),
		key:     r.NewStyle().Foreground(lipgloss.Color("110")),
		value:   r.NewStyle().Foreground(lipgloss.Color("252")),
		punct:   r.NewStyle().Foreground(lipgloss.Color("239")),
		jsonKey: r.NewStyle().Foreground(lipgloss.Color("179")),
		badges: map[slog.Level]lipgloss.Style{
			slog.LevelDebug: badge.Foreground(lipgloss.Color("252")).Background(lipgloss.Color("238")),
			slog.LevelInfo:  badge.Foreground(lipgloss.Color("231")).Background(lipgloss.Color("25")),
			slog.LevelWarn:  badge.Foreground(lipgloss.Color("232")).Background(lipgloss.Color("178")),
			slog.LevelError: badge.Foreground(lipgloss.Color("231")).Background(lipgloss.Color("124")),
		},
	}
}

func (c *consoleStyles) badge(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		level = slog.LevelDebug
	case level < slog.LevelWarn:
		level = slog.LevelInfo
	case level < slog.LevelError:
		level = slog.LevelWarn
	default:
		level = slog.LevelError
	}
	return c.badges[level].Render(levelName(level))
}

func (c *consoleStyles) render(event Event) string {
	inline, blocks := renderFields(event)

	var b strings.Builder
	b.WriteString(c.time.Render(event.Time.Format("15:04:05.000")))
	b.WriteByte(' ')
	b.WriteString(c.badge(event.Level))
	b.WriteByte(' ')
	b.WriteString(c.message.Render(event.Message))
	for _, f := range inline {
		b.WriteByte(' ')
		b.WriteString(c.key.Render(f.key))
		b.WriteString(c.punct.Render("="))
		b.WriteString(c.value.Render(quoteValue(f.text)))
	}
	b.WriteByte('\n')
	for _, f := range blocks {
		b.WriteString("  " + c.key.Render(f.key) + c.punct.Render(":") + "\n")
		for _, line := range strings.Split(f.text, "\n") {
			b.WriteString("    " + c.jsonLine(line) + "\n")
		}
	}
	return b.String()
}

// jsonLine colors one line of indented JSON, keys apart from values.
func (c *consoleStyles) jsonLine(line string) string {
	body := strings.TrimLeft(line, " ")
	pad := line[:len(line)-len(body)]
	if strings.HasPrefix(body, `"`) {
		if end := strings.Index(body, `": `); end > 0 {
			return pad + c.jsonKey.Render(body[:end+1]) + c.punct.Render(":") + " " + c.value.Render(body[end+3:])
		}
	}
	if strings.Trim(body, "{}[],") == "" {
		return pad + c.punct.Render(body)
	}
	return pad + c.value.Render(body)
}
