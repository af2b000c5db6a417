package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/andy/cotiza/internal/domain"
	"github.com/andy/cotiza/internal/editor"
	"github.com/spf13/cobra"
)

func confirmPrompt(cmd *cobra.Command, message string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", message)
	reader := bufio.NewReader(cmd.InOrStdin())
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// printQuotation writes the grouped body and totals of a quotation
func printQuotation(w io.Writer, st editor.State) {
	c := st.Client
	labels := domain.LabelsFor(c.Language)

	fmt.Fprintf(w, "%s  %s\n", c.QuotationNoLabel, c.QuotationNo)
	fmt.Fprintf(w, "%s: %s\n", labels.Client, orDash(c.Name))
	fmt.Fprintf(w, "%s: %s\n", labels.Date, c.Date)
	fmt.Fprintf(w, "%s / %s\n", c.Language, c.Currency)
	fmt.Fprintln(w)

	for _, g := range st.Groups() {
		if g.ShowHeading() {
			fmt.Fprintf(w, "%s\n", g.Main)
		}
		for _, sub := range g.SubZones {
			if sub.ShowHeading() {
				fmt.Fprintf(w, "  %s\n", sub.Name)
			}
			for _, it := range sub.Items {
				fmt.Fprintf(w, "    %-40s %5d x %14s = %14s\n",
					truncate(it.Description, 40),
					it.Quantity,
					domain.FormatCurrency(it.UnitPrice, c.Currency),
					domain.FormatCurrency(it.LineTotal(), c.Currency),
				)
			}
			fmt.Fprintf(w, "    %63s %14s\n", labels.Subtotal, domain.FormatCurrency(sub.Subtotal, c.Currency))
		}
	}

	t := st.Totals()
	fmt.Fprintln(w, strings.Repeat("-", 82))
	if c.DiscountEnabled {
		fmt.Fprintf(w, "%67s %14s\n", labels.SubtotalNet, domain.FormatCurrency(t.Net, c.Currency))
		fmt.Fprintf(w, "%67s %14s\n", labels.Discount, "-"+domain.FormatCurrency(t.Discount, c.Currency))
	}
	fmt.Fprintf(w, "%67s %14s\n", labels.Total, domain.FormatCurrency(t.Grand, c.Currency))
	if n := len(st.Attachments); n > 0 {
		fmt.Fprintf(w, "\n%d attachment(s)\n", n)
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
