package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/daybook/internal/cashcount"
	"github.com/cleared-dev/daybook/internal/model"
	"github.com/cleared-dev/daybook/internal/report"
)

const countUsage = "cash count as denomination=count, or tally with denomination+ / denomination- and clear; repeatable (e.g. --count 500=2)"

func parseCounts(pairs []string) ([]model.DenominationCount, error) {
	c, err := cashcount.ParseCounts(pairs)
	if err != nil {
		return nil, err
	}
	return c.NonZeroEntries(), nil
}

func newOpenCommand(g *globalFlags) *cobra.Command {
	var counts []string

	cmd := &cobra.Command{
		Use:   "open <date>",
		Short: "Open a day with its opening cash count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.close()

			date, err := a.resolveDate(args[0])
			if err != nil {
				return err
			}
			entries, err := parseCounts(counts)
			if err != nil {
				return err
			}
			status, err := a.svc.Open(cmd.Context(), date, entries)
			if err != nil {
				return err
			}
			a.printf("Opened %s with %s\n", status.Date, a.money.Format(status.OpeningBalance()))
			a.printCounts(status.Opening.Denominations)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&counts, "count", nil, countUsage)
	return cmd
}

func newCloseCommand(g *globalFlags) *cobra.Command {
	var counts []string

	cmd := &cobra.Command{
		Use:   "close <date>",
		Short: "Close a day with its closing cash count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.close()

			date, err := a.resolveDate(args[0])
			if err != nil {
				return err
			}
			entries, err := parseCounts(counts)
			if err != nil {
				return err
			}
			status, err := a.svc.Close(cmd.Context(), date, entries)
			if err != nil {
				return err
			}
			sum, err := a.svc.Summary(cmd.Context(), date)
			if err != nil {
				return err
			}
			a.printf("Closed %s with %s\n", status.Date, a.money.Format(status.ClosingBalance()))
			a.printCounts(status.Closing.Denominations)
			if sum.Closing != nil {
				a.printReconciliation(*sum.Closing)
			}
			a.commitDay("close", date)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&counts, "count", nil, countUsage)
	return cmd
}

func newReopenCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <date>",
		Short: "Reopen a closed day (accountant only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.close()

			date, err := a.resolveDate(args[0])
			if err != nil {
				return err
			}
			status, err := a.svc.Reopen(cmd.Context(), date)
			if err != nil {
				return err
			}
			a.printf("Reopened %s\n", status.Date)
			return nil
		},
	}
}

func newReconcileCommand(g *globalFlags) *cobra.Command {
	var counts []string

	cmd := &cobra.Command{
		Use:   "reconcile <date>",
		Short: "Compare a cash count with the expected cash without closing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.close()

			date, err := a.resolveDate(args[0])
			if err != nil {
				return err
			}
			entries, err := parseCounts(counts)
			if err != nil {
				return err
			}
			rec, err := a.svc.Reconcile(cmd.Context(), date, entries)
			if err != nil {
				return err
			}
			a.printReconciliation(rec)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&counts, "count", nil, countUsage)
	return cmd
}

// printCounts lists the counted rows grouped into notes and coins.
func (a *app) printCounts(rows []model.DenominationCount) {
	c, err := cashcount.FromEntries(rows)
	if err != nil {
		return
	}
	a.printTier("Notes", c.Notes())
	a.printTier("Coins", c.Coins())
}

func (a *app) printTier(label string, rows []model.DenominationCount) {
	var counted []model.DenominationCount
	for _, r := range rows {
		if r.Count > 0 {
			counted = append(counted, r)
		}
	}
	if len(counted) == 0 {
		return
	}
	a.printf("  %s\n", label)
	for _, r := range counted {
		a.printf("    %5d x %-4d %s\n", r.Denomination, r.Count, a.money.Format(r.Total()))
	}
}

func (a *app) printReconciliation(r report.Reconciliation) {
	a.printf("Expected cash: %s\n", a.money.Format(r.Expected))
	a.printf("Counted cash:  %s\n", a.money.Format(r.Actual))
	switch r.Outcome {
	case report.OutcomeBalanced:
		a.printf("Balanced\n")
	case report.OutcomeExcess:
		a.printf("Excess: %s\n", a.money.Format(r.Difference))
	case report.OutcomeShort:
		a.printf("Short: %s\n", a.money.Format(r.Difference.Abs()))
	}
}
