package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset stored data",
	Long: `Reset stored data. Without a subcommand, wipes history and preferences.

Examples:
  cotiza reset               # Wipe everything
  cotiza reset history       # Delete all saved quotations
  cotiza reset preferences   # Forget company name, logo and texts`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmPrompt(cmd, "This will delete ALL saved quotations and preferences. Continue?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
		if err := appInstance.ResetData(context.Background()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All data has been deleted.")
		return nil
	},
}

var resetHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Delete all saved quotations",
	RunE: func(cmd *cobra.Command, args []string) error {
		n := appInstance.History.Len()
		if !confirmPrompt(cmd, fmt.Sprintf("This will delete %d saved quotation(s). Continue?", n)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
		appInstance.History.Clear(context.Background())
		fmt.Fprintln(cmd.OutOrStdout(), "History has been cleared.")
		return nil
	},
}

var resetPreferencesCmd = &cobra.Command{
	Use:   "preferences",
	Short: "Forget stored company preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmPrompt(cmd, "This will restore the default company name, logo and texts. Continue?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
		if err := appInstance.Preferences.Clear(context.Background()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Preferences have been reset.")
		return nil
	},
}

func init() {
	resetCmd.AddCommand(resetHistoryCmd)
	resetCmd.AddCommand(resetPreferencesCmd)
}
