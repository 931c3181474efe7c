package graph_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aretw0/aria/internal/presentation/graph"
	"github.com/aretw0/aria/pkg/domain"
)

func deploy() *domain.Pipeline {
	return &domain.Pipeline{
		Name:     "deploy",
		Preamble: domain.PlainLines("> starting"),
		Steps: []domain.Step{
			{Line: domain.Plain("> [1/2] build"), Delay: time.Second},
			{Line: domain.Plain("> [2/2] ship"), Delay: 500 * time.Millisecond},
		},
	}
}

func sample() graph.Console {
	return graph.Console{
		Prompt: "aria@prompt:",
		Commands: []domain.CommandEntry{
			{Token: "clear", Kind: domain.KindClear},
			{Token: "help", Kind: domain.KindImmediate, Description: `Show "commands"`},
			{Token: "deploy", Kind: domain.KindPipeline, Pipeline: deploy()},
		},
		Aliases: map[string]string{"ship-it": "deploy"},
	}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		console  graph.Console
		contains []string
		excludes []string
	}{
		{
			name:    "Node Shapes",
			console: sample(),
			contains: []string{
				"prompt((\"aria@prompt:\"))",
				"cmd_clear[/\"clear\"/]",
				"cmd_help[\"help\"]",
				"cmd_deploy[[\"deploy <br/> 3 lines · ⏱️ 1.5s\"]]",
			},
		},
		{
			name:    "Edges",
			console: sample(),
			contains: []string{
				"prompt --> cmd_clear",
				"prompt -- \"Show 'commands'\" --> cmd_help",
				"cmd_deploy --> busy",
				"busy -. \"done\" .-> prompt",
			},
		},
		{
			name:    "Aliases",
			console: sample(),
			contains: []string{
				"cmd_ship_it[\"ship-it\"]",
				"cmd_ship_it -. alias .-> cmd_deploy",
			},
		},
		{
			name: "No Busy Node Without Pipelines",
			console: graph.Console{
				Commands: []domain.CommandEntry{{Token: "status", Kind: domain.KindImmediate}},
			},
			contains: []string{"prompt((\"prompt\"))", "cmd_status[\"status\"]"},
			excludes: []string{"busy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := graph.GenerateMermaid(tt.console, nil)
			if !strings.HasPrefix(output, "graph TD\n") {
				t.Errorf("output should start with graph TD, got:\n%s", output)
			}
			for _, s := range tt.contains {
				if !strings.Contains(output, s) {
					t.Errorf("expected output to contain %q, got:\n%s", s, output)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(output, s) {
					t.Errorf("expected output not to contain %q, got:\n%s", s, output)
				}
			}
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	c := sample()
	state := domain.State{
		Busy:    true,
		Running: "deploy",
		Lines: []domain.Line{
			domain.Echo(c.Prompt, "HELP"),
			domain.Plain("help text"),
			domain.Echo(c.Prompt, "frobnicate"),
			domain.Echo(c.Prompt, "help"),
			domain.Echo(c.Prompt, "ship-it"),
		},
	}

	overlay := graph.NewOverlay(c, state)
	if overlay.Running != "deploy" {
		t.Errorf("expected running deploy, got %q", overlay.Running)
	}
	if got := strings.Join(overlay.VisitedCommands, ","); got != "help,help,ship-it" {
		t.Errorf("unexpected visited commands %q", got)
	}

	output := graph.GenerateMermaid(c, overlay)
	for _, s := range []string{
		"classDef visited",
		"class cmd_help visited;",
		"class cmd_ship_it visited;",
		"class cmd_deploy current;",
	} {
		if !strings.Contains(output, s) {
			t.Errorf("expected output to contain %q, got:\n%s", s, output)
		}
	}
	if strings.Count(output, "class cmd_help visited;") != 1 {
		t.Error("visited commands should be deduplicated")
	}
	if strings.Contains(output, "frobnicate") {
		t.Error("unknown tokens should not be styled")
	}
}
