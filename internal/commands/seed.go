package commands

import (
	"github.com/spf13/cobra"
)

func newSeedCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <date>",
		Short: "Fill an empty date with the demo day (development only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, g, withDemoSeed())
			if err != nil {
				return err
			}
			defer a.close()

			date, err := a.resolveDate(args[0])
			if err != nil {
				return err
			}
			_, found, err := a.store.Load(cmd.Context(), date)
			if err != nil {
				return err
			}
			if found {
				a.printf("%s already has data; nothing seeded\n", date)
				return nil
			}

			day, err := a.svc.Load(cmd.Context(), date)
			if err != nil {
				return err
			}
			a.printf("Seeded %s with %d transactions, opening %s\n",
				date, len(day.Transactions), a.money.Format(day.Status.OpeningBalance()))
			return nil
		},
	}
}
