package main

import (
	"fmt"
	"os"
	"time"

	"github.com/aretw0/aria/internal/cli"
	"github.com/aretw0/aria/internal/config"
	"github.com/spf13/cobra"
)

// cfg holds the environment configuration; flags override it per command.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "aria",
	Short: "Aria is a scripted interactive console",
	Long: `Aria plays scripted consoles: typed commands answer with fixed text or start
timed pipelines that narrate a long-running task line by line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (env ARIA_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json (env ARIA_LOG_FORMAT)")
	rootCmd.PersistentFlags().StringP("script", "s", "", "Builtin script name or script file (env ARIA_SCRIPT)")
	rootCmd.PersistentFlags().Duration("pace", 0, "Force every pipeline step to wait this long (env ARIA_PACE)")
	rootCmd.PersistentFlags().String("profile", "", "Preferences profile (env ARIA_PROFILE)")
	rootCmd.PersistentFlags().String("prefs-dir", "", "Directory of the file preferences store (env ARIA_PREFS_DIR)")
	rootCmd.PersistentFlags().String("redis", "", "Redis address; stores preferences in Redis instead of files (env ARIA_REDIS_ADDR)")
}

// logOptions merges the logging flags over the environment.
// Without --debug or --log-level the environment level only applies to long-running servers.
func logOptions(cmd *cobra.Command, server bool) cli.LogOptions {
	debug, _ := cmd.Flags().GetBool("debug")
	opts := cli.LogOptions{Debug: debug, Format: cfg.LogFormat}
	if server {
		opts.Level = cfg.LogLevel
	}
	if cmd.Flags().Changed("log-level") {
		opts.Level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-format") {
		opts.Format, _ = cmd.Flags().GetString("log-format")
	}
	return opts
}

func scriptFlag(cmd *cobra.Command) string {
	if cmd.Flags().Changed("script") {
		s, _ := cmd.Flags().GetString("script")
		return s
	}
	return cfg.Script
}

func paceFlag(cmd *cobra.Command) time.Duration {
	if cmd.Flags().Changed("pace") {
		d, _ := cmd.Flags().GetDuration("pace")
		return d
	}
	return cfg.Pace
}

func prefsOptions(cmd *cobra.Command) cli.PrefsOptions {
	opts := cli.PrefsOptions{
		Dir:          cfg.PrefsDir,
		RedisAddr:    cfg.RedisAddr,
		RedisTTL:     cfg.RedisTTL,
		Key:          cfg.PrefsKey,
		FallbackKeys: cfg.PrefsFallbackKeys,
	}
	if cmd.Flags().Changed("prefs-dir") {
		opts.Dir, _ = cmd.Flags().GetString("prefs-dir")
	}
	if cmd.Flags().Changed("redis") {
		opts.RedisAddr, _ = cmd.Flags().GetString("redis")
	}
	return opts
}

func profileFlag(cmd *cobra.Command) string {
	if cmd.Flags().Changed("profile") {
		p, _ := cmd.Flags().GetString("profile")
		return p
	}
	return cfg.Profile
}
