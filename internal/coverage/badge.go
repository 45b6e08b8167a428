package coverage

// Badge is the qualitative tier of a coverage score.
type Badge string

const (
	BadgeLow    Badge = "low"
	BadgeMedium Badge = "medium"
	BadgeHigh   Badge = "high"
)

const (
	highThreshold   = 80
	mediumThreshold = 50
)

func BadgeFor(score int) Badge {
	switch {
	case score >= highThreshold:
		return BadgeHigh
	case score >= mediumThreshold:
		return BadgeMedium
	}

	return BadgeLow
}

// Label is the human-readable form of the signal.
func (s Signal) Label() string {
	switch s {
	case SignalBank:
		return "Bank account connected"
	case SignalPOS:
		return "POS system connected"
	case SignalReceipts:
		return "Receipts captured"
	case SignalBills:
		return "Utility & telecom bills"
	case SignalRent:
		return "Rent records"
	case SignalInvoices:
		return "Supplier invoices"
	case SignalCompliance:
		return "Tax & insurance proof"
	case SignalRatings:
		return "Bank statements / ratings uploaded"
	}

	return string(s)
}
