package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/unlockgrowth/intake/internal/coverage"
)

func newScoreCommand() *cobra.Command {
	var s coverage.Signals

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the data coverage score for a set of evidence signals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if s.ReceiptCount < 0 || s.Bills < 0 || s.Rent < 0 || s.Invoices < 0 || s.Compliance < 0 {
				return errors.New("counts must not be negative")
			}

			res := coverage.Evaluate(s)

			t := table.New().Headers("Signal", "Points", "Max")
			for _, c := range res.Contributions {
				t.Row(c.Signal.Label(), strconv.Itoa(c.Points), strconv.Itoa(c.Max))
			}

			w := cmd.OutOrStdout()

			if _, err := fmt.Fprintln(w, t.Render()); err != nil {
				return err
			}

			_, err := fmt.Fprintf(w, "Data Coverage: %d%% (%s)\n", res.Score, res.Badge)

			return err
		},
	}

	f := cmd.Flags()
	f.BoolVar(&s.BankConnected, "bank", false, "bank account connected")
	f.BoolVar(&s.POSConnected, "pos", false, "POS system connected")
	f.BoolVar(&s.RatingsUploaded, "ratings", false, "bank statements or ratings uploaded")
	f.IntVar(&s.ReceiptCount, "receipts", 0, "number of receipts captured")
	f.IntVar(&s.Bills, "bills", 0, "number of utility and telecom bill records")
	f.IntVar(&s.Rent, "rent", 0, "number of rent records")
	f.IntVar(&s.Invoices, "invoices", 0, "number of supplier invoice records")
	f.IntVar(&s.Compliance, "compliance", 0, "number of tax and insurance records")

	return cmd
}
