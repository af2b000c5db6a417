package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a saved quotation to PDF",
	Long: `Restore a quotation from history and render it as a single-page PDF.

Examples:
  cotiza export 5f1c...            # Write to the configured output directory
  cotiza export 5f1c... --out .    # Write to the current directory`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		outDir, _ := cmd.Flags().GetString("out")

		st, err := appInstance.History.Restore(args[0])
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Generating PDF...")
		res, err := appInstance.Exporter.ExportTo(ctx, st, outDir)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ PDF written: %s\n", res.Path)
		fmt.Fprintf(cmd.OutOrStdout(), "  Page: %.0f x %.1f mm (%d x %d px)\n",
			appInstance.Config.Export.PageWidthMM, res.PageHeightMM, res.WidthPx, res.HeightPx)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Output directory (default from config)")
}
