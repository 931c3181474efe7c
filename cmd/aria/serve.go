package main

import (
	"fmt"

	"github.com/aretw0/aria/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves one console per session over HTTP: commands, transcripts, an SSE change stream
and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if !cmd.Flags().Changed("addr") {
			addr = cfg.ListenAddr
		}
		limit, _ := cmd.Flags().GetInt("max-sessions")
		interval, _ := cmd.Flags().GetDuration("metrics-interval")
		if !cmd.Flags().Changed("metrics-interval") {
			interval = cfg.MetricsInterval
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		fmt.Fprintf(cmd.OutOrStdout(), "Starting Aria Server on %s\n", addr)
		err := cli.Serve(sigCtx, cli.ServeOptions{
			Addr:            addr,
			Script:          scriptFlag(cmd),
			Pace:            paceFlag(cmd),
			SessionLimit:    limit,
			MetricsInterval: interval,
			Log:             logOptions(cmd, true),
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Aria Server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on (env ARIA_LISTEN_ADDR)")
	serveCmd.Flags().Int("max-sessions", 0, "Maximum number of live sessions (0 = unlimited)")
	serveCmd.Flags().Duration("metrics-interval", 0, "Host metrics sampling interval (env ARIA_METRICS_INTERVAL)")
}
