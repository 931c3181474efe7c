package main

import (
	"github.com/aretw0/aria/internal/cli"
	"github.com/spf13/cobra"
)

var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "Inspect console scripts",
}

var scriptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the builtin scripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ListScripts(cmd.OutOrStdout())
	},
}

var scriptsValidateCmd = &cobra.Command{
	Use:   "validate <name|file>",
	Short: "Load a script and print its commands",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ValidateScript(cmd.OutOrStdout(), args[0])
	},
}

var scriptsGraphCmd = &cobra.Command{
	Use:   "graph <name|file>",
	Short: "Export the command graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the prompt, its commands, pipelines and aliases.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.GraphScript(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(scriptsCmd)
	scriptsCmd.AddCommand(scriptsListCmd, scriptsValidateCmd, scriptsGraphCmd)
}
