package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/aria/pkg/domain"
)

// Console is what a diagram is drawn from: a script or a live console.
type Console struct {
	Prompt   string
	Commands []domain.CommandEntry
	Aliases  map[string]string
}

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	// VisitedCommands are tokens already typed in the session.
	VisitedCommands []string
	// Running is the token of the pipeline in progress, if any.
	Running string
}

const (
	promptID = "prompt"
	busyID   = "busy"
)

// GenerateMermaid produces a Mermaid flowchart of the commands reachable from the prompt.
// It applies semantic styling:
// - Prompt: ((Circle))
// - Pipeline: [[Subroutine]] annotated with its line count and duration
// - Clear: [/Parallelogram/]
// - Immediate: [Rectangle]
// Pipelines loop back to the prompt through a shared busy node. Aliases point at their
// target with a dotted arrow.
func GenerateMermaid(c Console, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	prompt := c.Prompt
	if prompt == "" {
		prompt = "prompt"
	}
	sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", promptID, escape(prompt)))

	hasPipeline := false
	for _, entry := range c.Commands {
		id := commandID(entry.Token)

		opener, closer := "[", "]"
		label := entry.Token
		switch entry.Kind {
		case domain.KindPipeline:
			opener, closer = "[[", "]]"
			hasPipeline = true
			if entry.Pipeline != nil {
				label = fmt.Sprintf("%s <br/> %d lines · ⏱️ %s", entry.Token, entry.Pipeline.Len(), entry.Pipeline.Duration())
			}
		case domain.KindClear:
			opener, closer = "[/", "/]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, escape(label), closer))

		arrow := "-->"
		if entry.Description != "" {
			arrow = fmt.Sprintf("-- \"%s\" -->", escape(entry.Description))
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", promptID, arrow, id))

		if entry.Kind == domain.KindPipeline {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", id, busyID))
		}
	}

	if hasPipeline {
		sb.WriteString(fmt.Sprintf("    %s{{\"busy\"}}\n", busyID))
		sb.WriteString(fmt.Sprintf("    %s -. \"done\" .-> %s\n", busyID, promptID))
	}

	aliases := make([]string, 0, len(c.Aliases))
	for alias := range c.Aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		id := commandID(alias)
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, escape(alias)))
		sb.WriteString(fmt.Sprintf("    %s -. alias .-> %s\n", id, commandID(c.Aliases[alias])))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, token := range overlay.VisitedCommands {
			id := commandID(token)
			if token != "" && !visitedSet[id] {
				visitedSet[id] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", id))
			}
		}

		if overlay.Running != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", commandID(overlay.Running)))
		}
	}

	return sb.String()
}

// commandID prefixes tokens so "prompt" or "busy" can't collide with the fixed nodes.
func commandID(token string) string {
	return "cmd_" + sanitizeMermaidID(token)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

// NewOverlay derives the overlay of a live console: echoed tokens are visited and the
// running pipeline is current.
func NewOverlay(c Console, state domain.State) *GraphOverlay {
	overlay := &GraphOverlay{}

	known := make(map[string]bool, len(c.Commands)+len(c.Aliases))
	for _, entry := range c.Commands {
		known[entry.Token] = true
		if state.Running != "" && entry.Pipeline != nil && entry.Pipeline.Name == state.Running {
			overlay.Running = entry.Token
		}
	}
	for alias := range c.Aliases {
		known[alias] = true
	}

	for _, l := range state.Lines {
		if l.Tag != domain.TagPromptEcho {
			continue
		}
		text := strings.TrimSpace(strings.TrimPrefix(l.Text, c.Prompt))
		token := strings.ToLower(text)
		if known[token] {
			overlay.VisitedCommands = append(overlay.VisitedCommands, token)
		}
	}
	return overlay
}
