package registry

import (
	"fmt"
	"strings"

	"github.com/aretw0/aria/pkg/domain"
)

// Builder assembles a Registry fluently and reports the first error from Build.
//
//	reg, err := registry.NewBuilder().
//		Immediate("status", "Link status", domain.PlainLines("REPO: LINKED")...).
//		Pipeline(launch, "Start the build").
//		Help("help", "Show this menu").
//		Build()
type Builder struct {
	reg      *Registry
	err      error
	helpTok  string
	helpDesc string
	helpHead []domain.Line
}

// NewBuilder starts an empty builder.
func NewBuilder() *Builder {
	return &Builder{reg: New()}
}

// Immediate registers a token answered with fixed lines.
func (b *Builder) Immediate(token, description string, lines ...domain.Line) *Builder {
	return b.add(domain.CommandEntry{
		Token:       token,
		Kind:        domain.KindImmediate,
		Description: description,
		Lines:       lines,
	})
}

// Pipeline registers a token that starts p. The token is the pipeline name.
func (b *Builder) Pipeline(p domain.Pipeline, description string) *Builder {
	return b.PipelineAs(p.Name, p, description)
}

// PipelineAs registers p under an explicit token.
func (b *Builder) PipelineAs(token string, p domain.Pipeline, description string) *Builder {
	return b.add(domain.CommandEntry{
		Token:       token,
		Kind:        domain.KindPipeline,
		Description: description,
		Pipeline:    &p,
	})
}

// Alias adds an extra token for an already registered one.
func (b *Builder) Alias(alias, target string) *Builder {
	if b.err == nil {
		b.err = b.reg.Alias(alias, target)
	}
	return b
}

// Help registers a help command whose lines are generated from every entry at Build time.
// header lines are printed before the generated list.
func (b *Builder) Help(token, description string, header ...domain.Line) *Builder {
	b.helpTok = token
	b.helpDesc = description
	b.helpHead = header
	return b
}

// Build returns the registry or the first error encountered.
func (b *Builder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.helpTok != "" {
		entries := append(b.reg.Entries(), domain.CommandEntry{Token: Normalize(b.helpTok), Description: b.helpDesc})
		lines := append([]domain.Line(nil), b.helpHead...)
		lines = append(lines, HelpLines(entries)...)
		if err := b.reg.Register(domain.CommandEntry{
			Token:       b.helpTok,
			Kind:        domain.KindImmediate,
			Description: b.helpDesc,
			Lines:       lines,
		}); err != nil {
			return nil, err
		}
	}
	return b.reg, nil
}

func (b *Builder) add(entry domain.CommandEntry) *Builder {
	if b.err == nil {
		b.err = b.reg.Register(entry)
	}
	return b
}

// HelpLines renders "token - description" rows aligned on the widest token.
func HelpLines(entries []domain.CommandEntry) []domain.Line {
	width := 0
	for _, e := range entries {
		if len(e.Token) > width {
			width = len(e.Token)
		}
	}
	lines := make([]domain.Line, 0, len(entries))
	for _, e := range entries {
		if e.Description == "" {
			lines = append(lines, domain.Plain("  "+e.Token))
			continue
		}
		pad := strings.Repeat(" ", width-len(e.Token))
		lines = append(lines, domain.Plain(fmt.Sprintf("  %s%s - %s", e.Token, pad, e.Description)))
	}
	return lines
}
