package runner

import (
	"github.com/aretw0/aria/pkg/domain"
	"github.com/muesli/termenv"
)

// Styler turns a transcript line into the text written to the terminal.
type Styler func(domain.Line) string

// PlainStyler writes the bare text.
func PlainStyler(l domain.Line) string {
	return l.Text
}

// Palette maps tags to hex colours.
var Palette = map[domain.Tag]string{
	domain.TagPromptEcho: "#e879f9", // fuchsia
	domain.TagBanner:     "#c084fc", // violet
	domain.TagSuccess:    "#34d399", // emerald
	domain.TagError:      "#fb7185", // rose
	domain.TagNotice:     "#fbbf24", // amber
	domain.TagStatus:     "#a78bfa",
}

// NewTermenvStyler colours lines by tag using the output's colour profile.
// Plain lines are left untouched, so an Ascii profile degrades to PlainStyler.
func NewTermenvStyler(out *termenv.Output) Styler {
	return func(l domain.Line) string {
		hex, ok := Palette[l.Tag]
		if !ok || l.Text == "" {
			return l.Text
		}
		s := out.String(l.Text).Foreground(out.Color(hex))
		switch l.Tag {
		case domain.TagPromptEcho, domain.TagBanner, domain.TagSuccess, domain.TagNotice:
			s = s.Bold()
		case domain.TagStatus:
			s = s.Italic()
		}
		return s.String()
	}
}
