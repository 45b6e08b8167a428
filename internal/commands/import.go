package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/unlockgrowth/intake/internal/evidence"
	"github.com/unlockgrowth/intake/internal/importer"
)

type importOutput struct {
	Entries []entryOutput `json:"entries"`
	Totals  totalsOutput  `json:"totals"`
}

type entryOutput struct {
	Date    string `json:"date"`
	Inflow  string `json:"inflow"`
	Outflow string `json:"outflow"`
}

type totalsOutput struct {
	Inflow      string `json:"inflow"`
	Outflow     string `json:"outflow"`
	Net         string `json:"net"`
	WeeksLogged int    `json:"weeks_logged"`
}

func newImportCommand() *cobra.Command {
	var source string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Parse a bank or POS export and show the cash-flow log it produces",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening export: %w", err)
			}
			defer f.Close()

			entries, err := importer.NewService().ImportFile(importer.Source(source), args[0], f)
			if err != nil {
				return err
			}

			sess := evidence.NewSession()
			sess.CashFlow = nil
			sess.AppendCashFlow(entries)

			out := toImportOutput(entries, sess.Totals())

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")

				return enc.Encode(out)
			}

			return printImport(cmd, out)
		},
	}

	cmd.Flags().StringVar(&source, "source", string(importer.SourceBank), "export source: bank or pos")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func toImportOutput(entries []evidence.CashFlowEntry, t evidence.Totals) importOutput {
	out := importOutput{
		Entries: make([]entryOutput, 0, len(entries)),
		Totals: totalsOutput{
			Inflow:      t.Inflow.StringFixed(2),
			Outflow:     t.Outflow.StringFixed(2),
			Net:         t.Net.StringFixed(2),
			WeeksLogged: t.WeeksLogged,
		},
	}

	for _, e := range entries {
		out.Entries = append(out.Entries, entryOutput{Date: e.Date, Inflow: e.Inflow, Outflow: e.Outflow})
	}

	return out
}

func printImport(cmd *cobra.Command, out importOutput) error {
	t := table.New().Headers("Date", "Inflow", "Outflow")
	for _, e := range out.Entries {
		t.Row(e.Date, e.Inflow, e.Outflow)
	}

	w := cmd.OutOrStdout()

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Entries: %d  In: $%s  Out: $%s  Net: $%s\n",
		len(out.Entries), out.Totals.Inflow, out.Totals.Outflow, out.Totals.Net)

	return err
}
