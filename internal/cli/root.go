package cli

import (
	"github.com/andy/cotiza/internal/app"
	"github.com/spf13/cobra"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "cotiza",
	Short: "A local quotation builder",
	Long: `Cotiza builds client quotations grouped by zone, keeps a local encrypted
history of every saved version and exports them as single-page PDFs.

By default, running cotiza without arguments launches the interactive editor.
Use subcommands for CLI operations.`,
	SilenceUsage: true,
	// Default behavior: launch TUI
	RunE: launchTUI,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(numberCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(tuiCmd)
}
