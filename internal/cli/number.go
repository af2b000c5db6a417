package cli

import (
	"fmt"
	"time"

	"github.com/andy/cotiza/internal/domain"
	"github.com/spf13/cobra"
)

var numberCmd = &cobra.Command{
	Use:   "number",
	Short: "Print a fresh quotation number",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), domain.QuotationNumber(time.Now()))
	},
}
