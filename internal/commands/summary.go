package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/daybook/internal/model"
	"github.com/cleared-dev/daybook/internal/report"
)

func newSummaryCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <date>",
		Short: "Show a day's totals, expected cash and closing reconciliation",
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
			sum, err := a.svc.Summary(cmd.Context(), date)
			if err != nil {
				return err
			}
			a.printSummary(sum)
			return nil
		},
	}
}

var typeHeadings = map[model.TxnType]string{
	model.TxnSale:     "Sales",
	model.TxnPurchase: "Purchases",
	model.TxnExpense:  "Expenses",
}

func (a *app) printSummary(sum report.Summary) {
	a.printf("%s  %s\n", sum.Date, sum.Phase.Label())
	if sum.Phase == model.PhaseNotStarted {
		return
	}
	a.printf("Opening balance: %s\n\n", a.money.Format(sum.OpeningBalance))

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tPAID\tUNPAID\tENTRIES\tUPLOADED\tMANUAL\t")
	for _, tt := range []model.TxnType{model.TxnSale, model.TxnPurchase, model.TxnExpense} {
		st := sum.Stats[tt]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t\n",
			typeHeadings[tt], a.money.Format(st.Paid), a.money.Format(st.Unpaid), st.Count, st.FromUpload, st.Manual)
	}
	_ = tw.Flush()
	a.printf("\n")

	tw = tabwriter.NewWriter(a.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ACCOUNT\tSALES\tPURCHASES\tEXPENSES\tNET\t")
	for _, n := range sum.Accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			a.accounts.Label(n.Account), a.money.Format(n.Sales), a.money.Format(n.Purchases),
			a.money.Format(n.Expenses), a.money.Format(n.Net))
	}
	_ = tw.Flush()
	a.printf("\n")

	a.printf("Expected cash: %s\n", a.money.Format(sum.ExpectedCash))
	if sum.GrossProfit != nil {
		a.printf("Gross profit:  %s\n", a.money.Format(*sum.GrossProfit))
	}
	if sum.Closing != nil {
		a.printf("\nClosing count\n")
		a.printReconciliation(*sum.Closing)
	}
}
