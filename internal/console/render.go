// Package console is the terminal side of a session: it renders text with a
// severity colour and reads lines that Ctrl+C can abort.
package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Severity tags rendered text with its meaning.
type Severity int

const (
	Plain Severity = iota
	Success
	Error
	Info
	Warning
	Highlight
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Error:
		return "error"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Highlight:
		return "highlight"
	default:
		return "plain"
	}
}

var (
	Green  = lipgloss.Color("2")
	Red    = lipgloss.Color("1")
	Blue   = lipgloss.Color("4")
	Yellow = lipgloss.Color("3")
)

// Renderer writes one line per Render call to its output.
type Renderer struct {
	out    io.Writer
	color  bool
	styles map[Severity]lipgloss.Style
}

// NewRenderer returns a renderer for out. With color disabled text is written
// unchanged; otherwise lipgloss decides from out how much colour it supports.
func NewRenderer(out io.Writer, color bool) *Renderer {
	lr := lipgloss.NewRenderer(out)
	return &Renderer{
		out:   out,
		color: color,
		styles: map[Severity]lipgloss.Style{
			Success:   lr.NewStyle().Foreground(Green),
			Error:     lr.NewStyle().Foreground(Red),
			Info:      lr.NewStyle().Foreground(Blue),
			Warning:   lr.NewStyle().Foreground(Yellow),
			Highlight: lr.NewStyle().Foreground(Yellow),
		},
	}
}

// Render prints text styled for sev. Empty text prints nothing.
func (r *Renderer) Render(text string, sev Severity) {
	if text == "" {
		return
	}
	if style, ok := r.styles[sev]; ok && r.color {
		text = style.Render(text)
	}
	_, _ = fmt.Fprintln(r.out, text)
}
