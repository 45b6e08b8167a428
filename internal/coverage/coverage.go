package coverage

// MaxScore is the ceiling of the coverage percentage.
const MaxScore = 100

// Signals are the objective evidence inputs of the score.
type Signals struct {
	BankConnected   bool
	POSConnected    bool
	RatingsUploaded bool
	ReceiptCount    int
	Bills           int
	Rent            int
	Invoices        int
	Compliance      int
}

// Signal names one contribution to the score.
type Signal string

const (
	SignalBank       Signal = "bank_connected"
	SignalPOS        Signal = "pos_connected"
	SignalReceipts   Signal = "receipts"
	SignalBills      Signal = "bills"
	SignalRent       Signal = "rent"
	SignalInvoices   Signal = "invoices"
	SignalCompliance Signal = "compliance"
	SignalRatings    Signal = "ratings_uploaded"
)

const (
	bankPoints       = 30
	posPoints        = 25
	pointsPerReceipt = 2
	maxReceiptPoints = 10
	billPoints       = 10
	rentPoints       = 10
	invoicePoints    = 10
	compliancePoints = 5
	ratingsPoints    = 5
)

// Contribution is the number of points one signal earned.
type Contribution struct {
	Signal Signal
	Points int
	// Max is what the signal earns when fully satisfied.
	Max int
}

// Result is a scored set of signals.
type Result struct {
	Score         int
	Badge         Badge
	Contributions []Contribution
}

// Evaluate scores the signals and reports every contribution, earned or not.
func Evaluate(s Signals) Result {
	contributions := []Contribution{
		{Signal: SignalBank, Points: flag(s.BankConnected, bankPoints), Max: bankPoints},
		{Signal: SignalPOS, Points: flag(s.POSConnected, posPoints), Max: posPoints},
		{Signal: SignalReceipts, Points: receiptPoints(s.ReceiptCount), Max: maxReceiptPoints},
		{Signal: SignalBills, Points: flag(s.Bills > 0, billPoints), Max: billPoints},
		{Signal: SignalRent, Points: flag(s.Rent > 0, rentPoints), Max: rentPoints},
		{Signal: SignalInvoices, Points: flag(s.Invoices > 0, invoicePoints), Max: invoicePoints},
		{Signal: SignalCompliance, Points: flag(s.Compliance > 0, compliancePoints), Max: compliancePoints},
		{Signal: SignalRatings, Points: flag(s.RatingsUploaded, ratingsPoints), Max: ratingsPoints},
	}

	raw := 0
	for _, c := range contributions {
		raw += c.Points
	}

	score := min(MaxScore, raw)

	return Result{
		Score:         score,
		Badge:         BadgeFor(score),
		Contributions: contributions,
	}
}

// Score returns the coverage percentage in [0, 100].
func Score(s Signals) int {
	return Evaluate(s).Score
}

func flag(ok bool, points int) int {
	if ok {
		return points
	}

	return 0
}

func receiptPoints(count int) int {
	switch {
	case count <= 0:
		return 0
	case count >= maxReceiptPoints/pointsPerReceipt:
		return maxReceiptPoints
	}

	return count * pointsPerReceipt
}
