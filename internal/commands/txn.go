package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/daybook/internal/daybook"
	"github.com/cleared-dev/daybook/internal/model"
	"github.com/cleared-dev/daybook/internal/money"
)

func newAddCommand(g *globalFlags) *cobra.Command {
	var (
		txnType     string
		amount      string
		partner     string
		account     string
		description string
		unpaid      bool
	)

	cmd := &cobra.Command{
		Use:   "add <date>",
		Short: "Record a purchase, sale or expense",
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

			in := daybook.NewTransaction{
				Type:        model.TxnType(txnType),
				Partner:     partner,
				Account:     model.PaymentAccount(account),
				Description: description,
				Paid:        !unpaid,
			}
			if amount != "" {
				d, err := money.Parse(amount)
				if err != nil {
					return fmt.Errorf("invalid amount: %w", err)
				}
				in.Amount = decimal.NewNullDecimal(d)
			}

			txn, err := a.svc.AddTransaction(cmd.Context(), date, in)
			if err != nil {
				return err
			}
			a.printf("Added %s: %s %s via %s (%s)\n",
				txn.ID, txn.Type, a.money.Format(txn.Amount), a.accounts.Label(txn.Account), paidLabel(txn.Paid))
			return nil
		},
	}

	cmd.Flags().StringVar(&txnType, "type", "", "purchase, sale or expense (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, e.g. 1300 or 1,300.50 (required)")
	cmd.Flags().StringVar(&partner, "partner", "", "customer, supplier or payee (required)")
	cmd.Flags().StringVar(&account, "account", string(model.AccountCash), "cash, bank, credit_card or upi")
	cmd.Flags().StringVar(&description, "description", "", "free-text note")
	cmd.Flags().BoolVar(&unpaid, "unpaid", false, "record as not yet paid")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newReverseCommand(g *globalFlags) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reverse <date> <id>",
		Short: "Record an entry that cancels an earlier one",
		Args:  cobra.ExactArgs(2),
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
			txn, err := a.svc.Reverse(cmd.Context(), date, args[1], reason)
			if err != nil {
				return err
			}
			a.printf("Added %s reversing %s (%s)\n", txn.ID, txn.Reverses, a.money.Format(txn.Amount))
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "description for the reversal entry")
	return cmd
}

func newListCommand(g *globalFlags) *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:   "list <date>",
		Short: "List a day's transactions",
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
			var filter *model.TxnType
			if only != "" {
				t, err := model.ParseTxnType(only)
				if err != nil {
					return err
				}
				filter = &t
			}
			txns, err := a.svc.ListTransactions(cmd.Context(), date, filter)
			if err != nil {
				return err
			}
			if len(txns) == 0 {
				a.printf("No transactions for %s\n", date)
				return nil
			}
			a.printTransactions(txns)
			return nil
		},
	}

	cmd.Flags().StringVar(&only, "type", "", "only list purchase, sale or expense entries")
	return cmd
}

func (a *app) printTransactions(txns []model.Transaction) {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tTYPE\tAMOUNT\tACCOUNT\tPARTNER\tSTATUS\tSOURCE\tNOTE")
	for _, t := range txns {
		source := "manual"
		if t.FromUpload {
			source = "upload"
		}
		note := t.Description
		if t.IsReversal() && note == "" {
			note = "reverses " + t.Reverses
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.DisplayTime(), t.Type, a.money.Format(t.Amount), a.accounts.Label(t.Account),
			t.Partner, paidLabel(t.Paid), source, note)
	}
	_ = tw.Flush()
}

func paidLabel(paid bool) string {
	if paid {
		return "paid"
	}
	return "unpaid"
}
