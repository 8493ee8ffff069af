package ui

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Console prints human-readable progress lines. It is not safe for
// concurrent use.
type Console struct {
	out   io.Writer
	color bool
	debug bool
	r     *lipgloss.Renderer
}

func New(out io.Writer, color bool) *Console {
	profile := termenv.Ascii
	if color {
		profile = termenv.ANSI
	}
	r := lipgloss.NewRenderer(out)
	r.SetColorProfile(profile)
	return &Console{out: out, color: color, r: r}
}

func (c *Console) SetDebug(enabled bool) {
	c.debug = enabled
}

func (c *Console) Info(msg string) {
	c.line("INFO", "6", msg)
}

func (c *Console) Success(msg string) {
	c.line("SUCCESS", "2", msg)
}

func (c *Console) Warning(msg string) {
	c.line("WARNING", "3", msg)
}

func (c *Console) Error(msg string) {
	c.line("ERROR", "1", msg)
}

// Debug prints msg with key=value fields, only when debug output is on.
func (c *Console) Debug(msg string, fields ...slog.Attr) {
	if !c.debug {
		return
	}
	if len(fields) > 0 {
		msg += " " + formatFields(fields)
	}
	c.line("DEBUG", "8", msg)
}

func (c *Console) Header(title string) {
	text := "=== " + title + " ==="
	if c.color {
		text = c.r.NewStyle().Bold(true).Foreground(lipgloss.Color("5")).Render(text)
	}
	fmt.Fprintf(c.out, "\n%s\n", text)
}

func (c *Console) line(label string, color string, msg string) {
	badge := "[" + label + "]"
	if c.color {
		badge = c.r.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(badge)
	}
	fmt.Fprintf(c.out, "%s %s\n", badge, msg)
}

func formatFields(fields []slog.Attr) string {
	sorted := append([]slog.Attr(nil), fields...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })
	parts := make([]string, 0, len(sorted))
	for _, f := range sorted {
		if f.Key == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", f.Key, f.Value.Resolve().String()))
	}
	return strings.Join(parts, " ")
}
