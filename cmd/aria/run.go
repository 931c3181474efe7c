package main

import (
	"github.com/aretw0/aria/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive console",
	Long: `Starts a console on the terminal. Interactive terminals see the boot sequence and the
Aria banner first; piped input gets plain text. Lines starting with "chat" go to the chat panel.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tuiMode, _ := cmd.Flags().GetBool("tui")
		jsonMode, _ := cmd.Flags().GetBool("json")
		headless, _ := cmd.Flags().GetBool("headless")
		noBoot, _ := cmd.Flags().GetBool("no-boot")
		persona, _ := cmd.Flags().GetString("persona")

		script := scriptFlag(cmd)
		if script == "" && len(args) > 0 {
			script = args[0]
		}

		return cli.Execute(cli.RunOptions{
			Script:   script,
			Pace:     paceFlag(cmd),
			TUI:      tuiMode,
			JSON:     jsonMode,
			Headless: headless,
			NoBoot:   noBoot,
			Log:      logOptions(cmd, false),
			Persona:  persona,
			Profile:  profileFlag(cmd),
			APIKey:   cfg.GeminiAPIKey,
			Model:    cfg.GeminiModel,
			Prefs:    prefsOptions(cmd),
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("tui", false, "Run the full-screen console")
	runCmd.Flags().Bool("headless", false, "Run in headless mode (no greeting, no boot, plain IO)")
	runCmd.Flags().Bool("json", false, "Run in JSON mode (JSON-Lines input/output)")
	runCmd.Flags().Bool("no-boot", false, "Skip the boot sequence")
	runCmd.Flags().String("persona", "", "Chat persona (essence or sovereign)")

	// 'run' is the default when no command is provided.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
