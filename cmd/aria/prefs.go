package main

import (
	"github.com/aretw0/aria/internal/cli"
	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage saved preferences",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the preferences of a profile (defaults when none are saved)",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, closePrefs, err := cli.OpenPreferences(prefsOptions(cmd))
		if err != nil {
			return err
		}
		defer closePrefs()
		return cli.ShowPreferences(cmd.Context(), cmd.OutOrStdout(), m, profileFlag(cmd))
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one preference (javaHome, gradleVersion, env.NAME, ...)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, closePrefs, err := cli.OpenPreferences(prefsOptions(cmd))
		if err != nil {
			return err
		}
		defer closePrefs()
		return cli.SetPreference(cmd.Context(), cmd.OutOrStdout(), m, profileFlag(cmd), args[0], args[1])
	},
}

var prefsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the saved preferences of a profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, closePrefs, err := cli.OpenPreferences(prefsOptions(cmd))
		if err != nil {
			return err
		}
		defer closePrefs()
		return cli.ResetPreferences(cmd.Context(), cmd.OutOrStdout(), m, profileFlag(cmd))
	},
}

var prefsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, closePrefs, err := cli.OpenPreferences(prefsOptions(cmd))
		if err != nil {
			return err
		}
		defer closePrefs()
		return cli.ListProfiles(cmd.Context(), cmd.OutOrStdout(), m)
	},
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsShowCmd, prefsSetCmd, prefsResetCmd, prefsListCmd)
}
