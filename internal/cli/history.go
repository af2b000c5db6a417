package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andy/cotiza/internal/domain"
	"github.com/andy/cotiza/internal/editor"
	"github.com/andy/cotiza/internal/history"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"h"},
	Short:   "Browse saved quotations",
	Long:    `List, inspect, rename and delete the quotations saved to the local history.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved quotations, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")

		filter := history.Filter{Text: search, DateFrom: from, DateTo: to}
		if err := filter.Validate(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		count := 0
		for r := range appInstance.History.List(filter) {
			if count == 0 {
				// Print table header
				fmt.Fprintf(out, "%-36s %-44s %-16s %16s\n", "ID", "Name", "Saved", "Total")
				fmt.Fprintln(out, "--------------------------------------------------------------------------------------------------------------------")
			}
			t := domain.ComputeTotals(r.Data.Items, r.Data.ClientData.Discount())
			fmt.Fprintf(out, "%-36s %-44s %-16s %16s\n",
				r.ID,
				truncate(r.FileName, 44),
				r.SavedAt.Local().Format("2006-01-02 15:04"),
				domain.FormatCurrency(t.Grand, r.Data.ClientData.Currency),
			)
			count++
		}

		if count == 0 {
			fmt.Fprintln(out, "No saved quotations found")
			return nil
		}
		fmt.Fprintf(out, "\nTotal: %d quotation(s)\n", count)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a saved quotation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := appInstance.History.Get(args[0])
		if err != nil {
			return err
		}
		st := editor.FromData(rec.Data)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", rec.FileName)
		fmt.Fprintf(out, "Saved %s\n\n", rec.SavedAt.Local().Format("2006-01-02 15:04:05"))
		printQuotation(out, st)
		return nil
	},
}

var historyRenameCmd = &cobra.Command{
	Use:   "rename [id] [name]",
	Short: "Rename a saved quotation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if err := appInstance.History.Rename(ctx, args[0], args[1]); err != nil {
			return fmt.Errorf("failed to rename: %w", err)
		}
		rec, err := appInstance.History.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Renamed to %s\n", rec.FileName)
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved quotation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		rec, err := appInstance.History.Get(args[0])
		if errors.Is(err, history.ErrRecordNotFound) {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to delete.")
			return nil
		}
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("yes")
		if !force && !confirmPrompt(cmd, fmt.Sprintf("Delete %q from history?", rec.FileName)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		appInstance.History.Delete(ctx, rec.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", rec.FileName)
		return nil
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize saved quotations by month and client",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		year, _ := cmd.Flags().GetInt("year")
		if year == 0 {
			year = time.Now().Year()
		}

		months, err := appInstance.Reports.GetMonthSummary(ctx, year)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		clients, err := appInstance.Reports.GetClientSummaries(ctx)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Quotations saved in %d\n\n", year)
		for m := time.January; m <= time.December; m++ {
			sum := months[m]
			if sum.Count == 0 {
				continue
			}
			fmt.Fprintf(out, "  %-10s %4d", m.String(), sum.Count)
			for _, c := range sum.Totals.Currencies() {
				fmt.Fprintf(out, "  %s", domain.FormatCurrency(sum.Totals[c], c))
			}
			fmt.Fprintln(out)
		}

		if len(clients) == 0 {
			return nil
		}
		fmt.Fprintf(out, "\n%-30s %6s  %-16s %s\n", "Client", "Saves", "Last saved", "Totals")
		fmt.Fprintln(out, "----------------------------------------------------------------------")
		for _, c := range clients {
			fmt.Fprintf(out, "%-30s %6d  %-16s", truncate(c.Name, 30), c.Count, c.LastSaved.Local().Format("2006-01-02 15:04"))
			for _, cur := range c.Totals.Currencies() {
				fmt.Fprintf(out, " %s", domain.FormatCurrency(c.Totals[cur], cur))
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyRenameCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyStatsCmd)

	historyListCmd.Flags().StringP("search", "s", "", "Filter by name (case-insensitive)")
	historyListCmd.Flags().String("from", "", "Saved on or after (YYYY-MM-DD)")
	historyListCmd.Flags().String("to", "", "Saved on or before (YYYY-MM-DD)")

	historyDeleteCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")

	historyStatsCmd.Flags().Int("year", 0, "Year to summarize (default: current year)")
}
