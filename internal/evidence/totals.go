package evidence

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Totals is the aggregate of a cash-flow log.
type Totals struct {
	Inflow      decimal.Decimal
	Outflow     decimal.Decimal
	Net         decimal.Decimal
	WeeksLogged int
}

// Aggregate sums the cash-flow log. Empty or malformed amounts count as zero.
// WeeksLogged is the number of entries with a date, duplicates included.
func Aggregate(entries []*CashFlowEntry) Totals {
	var t Totals

	for _, e := range entries {
		t.Inflow = t.Inflow.Add(ParseAmount(e.Inflow))
		t.Outflow = t.Outflow.Add(ParseAmount(e.Outflow))

		if e.Date != "" {
			t.WeeksLogged++
		}
	}

	t.Net = t.Inflow.Sub(t.Outflow)

	return t
}

// ParseAmount reads a decimal amount, returning zero for empty or
// non-numeric input. Exponent notation is not an amount and reads as zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "eE") {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	return d
}
