package summary

import (
	"fmt"
	"strings"
	"time"
)

const footnote = "Summary is generated from objective data (receipts, cashflow logs, bank/POS connections, " +
	"bills, rent, invoices, tax/insurance). AI risk assessment is performed separately based on this evidence."

// Text renders the print-friendly one-page summary.
func (s Summary) Text() string {
	var sb strings.Builder

	title := s.BusinessName
	if title == Placeholder {
		title = "Business Name"
	}

	fmt.Fprintf(&sb, "%s\n", title)
	fmt.Fprintf(&sb, "Data Coverage %d%% (%s)\n", s.Coverage, s.Badge)
	fmt.Fprintf(&sb, "Generated %s\n\n", s.GeneratedAt.Format(time.DateOnly))

	sb.WriteString("Business\n")
	line(&sb, "Owner", s.OwnerName)
	line(&sb, "Address", s.OwnerAddress)
	line(&sb, "Date of Birth", s.OwnerDOB)
	line(&sb, "KYC Verified", s.KYCVerified)
	line(&sb, "Trading Name", s.TradingName)
	line(&sb, "ABN", s.ABN)
	line(&sb, "Structure", s.Structure)
	line(&sb, "Years Trading", s.YearsTrading)
	line(&sb, "Staff", s.StaffCount)
	line(&sb, "Sector", s.Sector)
	line(&sb, "Location", s.Location)
	line(&sb, "Remote/Rural", s.RemoteRural)

	sb.WriteString("\nEvidence Summary\n")
	line(&sb, "Weeks of history", fmt.Sprint(s.WeeksLogged))
	line(&sb, "Total inflows", s.TotalInflow)
	line(&sb, "Total outflows", s.TotalOutflow)
	line(&sb, "Net (in − out)", s.Net)
	line(&sb, "Bank connected", s.BankConnected)
	line(&sb, "POS connected", s.POSConnected)
	line(&sb, "Receipts captured", fmt.Sprint(s.ReceiptCount))
	line(&sb, "Bills/Rent/Invoices", fmt.Sprint(s.RecurringRecords))
	line(&sb, "Tax/Insurance records", fmt.Sprint(s.ComplianceRecords))
	line(&sb, "Ratings/Statements uploaded", s.RatingsUploaded)

	list(&sb, "Assets", s.Assets, true)
	list(&sb, "Liabilities", s.Liabilities, true)
	list(&sb, "Supplier References", s.SupplierRefs, false)

	if s.CommunityNote != "" {
		fmt.Fprintf(&sb, "\nCommunity Evidence\n  %s\n", s.CommunityNote)
	}

	fmt.Fprintf(&sb, "\n%s\n", footnote)

	return sb.String()
}

func line(sb *strings.Builder, label, value string) {
	fmt.Fprintf(sb, "  %s: %s\n", label, value)
}

// list prints a titled bullet list; empty lists print a placeholder when
// always is set and are skipped otherwise.
func list(sb *strings.Builder, title string, items []string, always bool) {
	if len(items) == 0 && !always {
		return
	}

	fmt.Fprintf(sb, "\n%s\n", title)

	if len(items) == 0 {
		fmt.Fprintf(sb, "  %s\n", Placeholder)
		return
	}

	for _, it := range items {
		fmt.Fprintf(sb, "  * %s\n", it)
	}
}
