package cli

import (
	"errors"

	"github.com/andy/cotiza/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the terminal UI",
	Long:  `Launch the interactive quotation editor.`,
	RunE:  launchTUI,
}

func launchTUI(cmd *cobra.Command, args []string) error {
	if appInstance == nil {
		return errors.New("application is not initialized")
	}
	return tui.Run(appInstance)
}
