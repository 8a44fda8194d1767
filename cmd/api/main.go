// AngelaMos | 2026
// main.go

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "api",
		Short:         "Store ratings API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(
		&configPath, "config", "c", "config.yaml", "path to config file",
	)

	root.AddCommand(
		newServeCommand(&configPath),
		newMigrateCommand(&configPath),
		newKeygenCommand(),
	)

	return root
}
