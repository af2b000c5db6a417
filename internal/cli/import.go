package cli

import (
	"context"
	"fmt"

	"github.com/andy/cotiza/internal/editor"
	"github.com/andy/cotiza/internal/history"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file.yaml]",
	Short: "Create a quotation from a YAML file and save it",
	Long: `Build a quotation from a YAML quote file and save it to history.

Example file:
  client:
    name: Maria
    language: Español
    currency: USD
  discount:
    type: percentage
    value: 5
  zones: ["PISO 1 > COCINA"]
  items:
    - zone: PISO 1 > COCINA
      description: Cortina roller blackout
      quantity: 2
      unit_price: 180`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		st, err := appInstance.Quotations.ImportFile(ctx, args[0])
		if err != nil {
			return err
		}

		if lang, _ := cmd.Flags().GetString("translate"); lang != "" && lang != st.Client.Language {
			translated := appInstance.Translate.Run(ctx, st, lang)
			st, err = translated.Apply(editor.SetLanguage{Language: lang})
			if err != nil {
				return err
			}
		}

		res := appInstance.History.Save(ctx, st, false)
		switch res.Status {
		case history.Created:
			fmt.Fprintf(out, "✓ Saved %s (ID: %s)\n", res.Record.FileName, res.Record.ID)
		case history.Unchanged:
			fmt.Fprintln(out, "No changes since the last save.")
		}

		if doExport, _ := cmd.Flags().GetBool("export"); doExport {
			r, err := appInstance.Exporter.Export(ctx, st)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ PDF written: %s\n", r.Path)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().Bool("export", false, "Also export the quotation to PDF")
	importCmd.Flags().String("translate", "", "Switch to this language after import (Español, Inglés, Holandes, Papiamento)")
}
