package main

import (
	"fmt"

	"github.com/aretw0/aria/internal/cli"
	"github.com/aretw0/aria/internal/presentation/tui"
	"github.com/aretw0/aria/pkg/runner"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to Aria",
	Long: `Opens the chat panel on its own. Replies come from Gemini when ARIA_GEMINI_API_KEY is
set and are rendered as markdown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		persona, _ := cmd.Flags().GetString("persona")
		model, _ := cmd.Flags().GetString("model")
		if !cmd.Flags().Changed("model") {
			model = cfg.GeminiModel
		}

		logger, err := cli.CreateLogger(logOptions(cmd, false))
		if err != nil {
			return err
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		prefs, closePrefs, err := cli.OpenPreferences(prefsOptions(cmd))
		if err != nil {
			return err
		}
		defer closePrefs()

		panel, err := cli.NewChatPanel(sigCtx, cli.ChatOptions{
			APIKey:      cfg.GeminiAPIKey,
			Model:       model,
			Persona:     persona,
			Profile:     profileFlag(cmd),
			Preferences: prefs,
			Logger:      logger,
		})
		if err != nil {
			return fmt.Errorf("failed to init chat: %w", err)
		}

		handler := runner.NewTextHandler(cmd.InOrStdin(), cmd.OutOrStdout(),
			runner.WithTextHandlerRenderer(tui.NewRenderer(0)),
		)
		defer handler.Close()

		return cli.RunChat(sigCtx, handler, panel)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().String("persona", "", "Chat persona (essence or sovereign)")
	chatCmd.Flags().String("model", "", "Gemini model (env ARIA_GEMINI_MODEL)")
}
