package importer

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSigned means one signed column, negative for money out.
	amountSigned amountMode = iota
	// amountSplit means separate money-in and money-out columns.
	amountSplit
)

// Profile describes the column layout of one export format. Column names
// are matched case-insensitively.
type Profile struct {
	Name       string
	DateCol    string
	AmountMode amountMode
	AmountCol  string // amountSigned
	InflowCol  string // amountSplit
	OutflowCol string // amountSplit
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol}

	switch p.AmountMode {
	case amountSigned:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.InflowCol, p.OutflowCol)
	}

	return cols
}

// Split layouts come first so a file carrying both a signed and a split
// pair is read from the split columns.
var bankProfiles = []Profile{
	{Name: "inflow-outflow", DateCol: "date", AmountMode: amountSplit, InflowCol: "inflow", OutflowCol: "outflow"},
	{Name: "money-in-out", DateCol: "date", AmountMode: amountSplit, InflowCol: "money in", OutflowCol: "money out"},
	{Name: "credit-debit", DateCol: "date", AmountMode: amountSplit, InflowCol: "credit", OutflowCol: "debit"},
	{Name: "signed", DateCol: "date", AmountMode: amountSigned, AmountCol: "amount"},
}

var posProfiles = []Profile{
	{Name: "sales-refunds", DateCol: "date", AmountMode: amountSplit, InflowCol: "gross sales", OutflowCol: "refunds"},
	{Name: "net-sales", DateCol: "date", AmountMode: amountSigned, AmountCol: "net sales"},
	{Name: "inflow-outflow", DateCol: "date", AmountMode: amountSplit, InflowCol: "inflow", OutflowCol: "outflow"},
	{Name: "signed", DateCol: "date", AmountMode: amountSigned, AmountCol: "amount"},
}
