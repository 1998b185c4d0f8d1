package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used by commands.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Path    lipgloss.Style
	Added   lipgloss.Style
	Removed lipgloss.Style
	Hunk    lipgloss.Style
}

// NewStyles creates the styles for a lipgloss renderer. A renderer with the
// ASCII profile yields styles that add no escape codes.
func NewStyles(lr *lipgloss.Renderer) *Styles {
	return &Styles{
		Header:  lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Success: lr.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: lr.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   lr.NewStyle().Foreground(lipgloss.Color("9")),
		Muted:   lr.NewStyle().Foreground(lipgloss.Color("8")),
		Bold:    lr.NewStyle().Bold(true),
		Path:    lr.NewStyle().Foreground(lipgloss.Color("14")),
		Added:   lr.NewStyle().Foreground(lipgloss.Color("2")),
		Removed: lr.NewStyle().Foreground(lipgloss.Color("1")),
		Hunk:    lr.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// Diff writes a unified diff, coloring added and removed lines in text
// mode. Markdown output wraps it in a diff code fence.
func (r *Renderer) Diff(diff string) {
	if diff == "" {
		return
	}
	if r.EffectiveMode() == ModeMarkdown {
		r.Println("```diff")
		r.Printf("%s", diff)
		if !strings.HasSuffix(diff, "\n") {
			r.Println("")
		}
		r.Println("```")
		return
	}

	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		text := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"):
			text = r.styles.Bold.Render(text)
		case strings.HasPrefix(text, "@@"):
			text = r.styles.Hunk.Render(text)
		case strings.HasPrefix(text, "+"):
			text = r.styles.Added.Render(text)
		case strings.HasPrefix(text, "-"):
			text = r.styles.Removed.Render(text)
		}
		r.Println(text)
	}
}
