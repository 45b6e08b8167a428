package summary

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/unlockgrowth/intake/internal/coverage"
	"github.com/unlockgrowth/intake/internal/evidence"
)

// Placeholder stands in for any empty source field.
const Placeholder = "—"

// Summary is the flat, read-only projection of an intake session.
type Summary struct {
	BusinessName string
	TradingName  string
	ABN          string
	Structure    string
	YearsTrading string
	StaffCount   string
	Sector       string
	Location     string
	RemoteRural  string

	OwnerName    string
	OwnerAddress string
	OwnerDOB     string
	KYCVerified  string

	WeeksLogged  int
	TotalInflow  string
	TotalOutflow string
	Net          string

	BankConnected     string
	POSConnected      string
	RatingsUploaded   string
	ReceiptCount      int
	RecurringRecords  int
	ComplianceRecords int

	Coverage int
	Badge    coverage.Badge

	Assets        []string
	Liabilities   []string
	SupplierRefs  []string
	CommunityNote string

	GeneratedAt time.Time
}

// Project gathers everything the one-page summary shows. It never mutates s.
func Project(s *evidence.Session, now time.Time) Summary {
	totals := s.Totals()
	score := coverage.Evaluate(s.Signals())

	return Summary{
		BusinessName: orPlaceholder(s.Business.Name),
		TradingName:  orPlaceholder(s.Business.TradingName),
		ABN:          orPlaceholder(s.Business.ABN),
		Structure:    orPlaceholder(s.Business.Structure),
		YearsTrading: orPlaceholder(s.Business.YearsTrading),
		StaffCount:   orPlaceholder(s.Business.StaffCount),
		Sector:       orPlaceholder(s.Business.Sector),
		Location:     orPlaceholder(s.Business.Location),
		RemoteRural:  yesNo(s.Business.RemoteRural),

		OwnerName:    orPlaceholder(s.Owner.FullName),
		OwnerAddress: orPlaceholder(s.Owner.Address),
		OwnerDOB:     orPlaceholder(s.Owner.DOB),
		KYCVerified:  yesNo(s.Owner.Verified),

		WeeksLogged:  totals.WeeksLogged,
		TotalInflow:  Money(totals.Inflow),
		TotalOutflow: Money(totals.Outflow),
		Net:          Money(totals.Net),

		BankConnected:     yesNo(s.Connections.BankConnected),
		POSConnected:      yesNo(s.Connections.POSConnected),
		RatingsUploaded:   yesNo(s.Connections.RatingsUploaded),
		ReceiptCount:      max(0, s.Connections.ReceiptCount),
		RecurringRecords:  len(s.Bills) + len(s.Rent) + len(s.Invoices),
		ComplianceRecords: len(s.Compliance),

		Coverage: score.Score,
		Badge:    score.Badge,

		Assets:        assetLines(s.Assets),
		Liabilities:   liabilityLines(s.Liabilities),
		SupplierRefs:  supplierLines(s.SupplierRefs),
		CommunityNote: strings.TrimSpace(s.CommunityNote),

		GeneratedAt: now,
	}
}

// Money formats an amount the way the summary prints it, e.g. "$150.50".
func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}

	return s
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}

	return s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}

	return "No"
}

func assetLines(assets []*evidence.AssetRecord) []string {
	lines := make([]string, 0, len(assets))
	for _, a := range assets {
		lines = append(lines, fmt.Sprintf("%s %s $%s", orDefault(a.Type, "Asset"), Placeholder, orDefault(a.EstValue, "0")))
	}

	return lines
}

func liabilityLines(liabilities []*evidence.LiabilityRecord) []string {
	lines := make([]string, 0, len(liabilities))
	for _, l := range liabilities {
		lines = append(lines, fmt.Sprintf("%s %s $%s (%s)",
			orDefault(l.Provider, "Provider"), Placeholder, orDefault(l.Balance, "0"), l.RepaymentFrequency))
	}

	return lines
}

func supplierLines(refs []*evidence.SupplierReference) []string {
	lines := make([]string, 0, len(refs))

	for _, r := range refs {
		line := orDefault(r.Name, "Supplier")
		if r.Contact != "" {
			line += " " + Placeholder + " " + r.Contact
		}

		lines = append(lines, line)
	}

	return lines
}
