package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/aria"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of aria",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "aria version %s\n", strings.TrimSpace(aria.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
