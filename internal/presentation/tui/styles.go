package tui

import (
	"github.com/aretw0/aria/pkg/domain"
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles of the console view.
type Styles struct {
	Title  lipgloss.Style
	Status lipgloss.Style
	Prompt lipgloss.Style
	Frame  lipgloss.Style
	Tags   map[domain.Tag]lipgloss.Style
}

// DefaultStyles mirrors the original palette: fuchsia prompt, emerald success,
// amber headings, violet italic progress.
func DefaultStyles() Styles {
	fuchsia := lipgloss.Color("#e879f9")
	violet := lipgloss.Color("#a78bfa")
	emerald := lipgloss.Color("#34d399")
	amber := lipgloss.Color("#fbbf24")
	rose := lipgloss.Color("#fb7185")
	muted := lipgloss.Color("#64748b")

	return Styles{
		Title:  lipgloss.NewStyle().Foreground(muted).Bold(true),
		Status: lipgloss.NewStyle().Foreground(violet).Italic(true),
		Prompt: lipgloss.NewStyle().Foreground(fuchsia).Bold(true),
		Frame: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3b0764")).
			Padding(0, 1),
		Tags: map[domain.Tag]lipgloss.Style{
			domain.TagPromptEcho: lipgloss.NewStyle().Foreground(fuchsia).Bold(true),
			domain.TagBanner:     lipgloss.NewStyle().Foreground(lipgloss.Color("#c084fc")).Bold(true),
			domain.TagSuccess:    lipgloss.NewStyle().Foreground(emerald).Bold(true),
			domain.TagError:      lipgloss.NewStyle().Foreground(rose),
			domain.TagNotice:     lipgloss.NewStyle().Foreground(amber).Bold(true),
			domain.TagStatus:     lipgloss.NewStyle().Foreground(violet).Italic(true),
		},
	}
}

// Line renders a transcript line with the style of its tag.
func (s Styles) Line(l domain.Line) string {
	if st, ok := s.Tags[l.Tag]; ok && l.Text != "" {
		return st.Render(l.Text)
	}
	return l.Text
}
