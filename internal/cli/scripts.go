package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aretw0/aria/internal/presentation/graph"
	"github.com/aretw0/aria/internal/runtime"
	"github.com/aretw0/aria/pkg/script"
)

// ListScripts prints the embedded scripts with their descriptions.
func ListScripts(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range script.Builtins() {
		s, err := script.Builtin(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\n", name, s.Description)
	}
	return tw.Flush()
}

// ValidateScript loads a builtin name or a script file and prints its commands.
func ValidateScript(w io.Writer, nameOrPath string) error {
	s, err := script.Resolve(nameOrPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "✓ %s is valid (%d commands, %d pipelines)\n",
		s.Name, s.Registry.Len(), len(s.Registry.Pipelines()))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, entry := range s.Registry.Entries() {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", entry.Token, entry.Kind, entry.Description)
	}
	return tw.Flush()
}

// GraphScript prints a Mermaid diagram (graph TD) of a script's commands.
func GraphScript(w io.Writer, nameOrPath string) error {
	s, err := script.Resolve(nameOrPath)
	if err != nil {
		return err
	}
	prompt := s.Prompt
	if prompt == "" {
		prompt = runtime.DefaultPrompt
	}
	_, err = fmt.Fprint(w, graph.GenerateMermaid(graph.Console{
		Prompt:   prompt,
		Commands: s.Registry.Entries(),
		Aliases:  s.Registry.Aliases(),
	}, nil))
	return err
}
