package summary_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unlockgrowth/intake/internal/coverage"
	"github.com/unlockgrowth/intake/internal/evidence"
	"github.com/unlockgrowth/intake/internal/summary"
)

var generatedAt = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func TestProject_EmptySession(t *testing.T) {
	s := evidence.NewSession()

	got := summary.Project(s, generatedAt)

	assert.Equal(t, summary.Placeholder, got.BusinessName)
	assert.Equal(t, summary.Placeholder, got.OwnerName)
	assert.Equal(t, summary.Placeholder, got.ABN)
	assert.Equal(t, "No", got.RemoteRural)
	assert.Equal(t, "No", got.BankConnected)
	assert.Equal(t, 0, got.WeeksLogged)
	assert.Equal(t, "$0.00", got.TotalInflow)
	assert.Equal(t, "$0.00", got.Net)
	assert.Equal(t, 0, got.Coverage)
	assert.Equal(t, coverage.BadgeLow, got.Badge)
	assert.Empty(t, got.Assets)
	assert.Empty(t, got.CommunityNote)
	assert.Equal(t, generatedAt, got.GeneratedAt)
}

func TestProject_PopulatedSession(t *testing.T) {
	s := evidence.NewSession()
	s.Business = evidence.Business{Name: "Bondi Bakes", Sector: "Food Service", RemoteRural: true}
	s.Owner = evidence.Owner{FullName: "Alex Tran", Verified: true}
	s.Connections = evidence.Connections{BankConnected: true, POSConnected: true, ReceiptCount: 5, RatingsUploaded: true}
	s.CommunityNote = "  Stall at Saturday markets since 2019. "

	cashID := s.CashFlow[0].ID
	require.NoError(t, s.UpdateField(evidence.KindCashFlow, cashID, "date", "2024-01-01"))
	require.NoError(t, s.UpdateField(evidence.KindCashFlow, cashID, "inflow", "150.50"))

	for _, k := range []evidence.Kind{evidence.KindBill, evidence.KindRent, evidence.KindInvoice, evidence.KindCompliance} {
		_, err := s.AddRow(k)
		require.NoError(t, err)
	}

	assetID, _ := s.AddRow(evidence.KindAsset)
	require.NoError(t, s.UpdateField(evidence.KindAsset, assetID, "type", "Oven"))
	_, _ = s.AddRow(evidence.KindLiability)
	refID, _ := s.AddRow(evidence.KindSupplierRef)
	require.NoError(t, s.UpdateField(evidence.KindSupplierRef, refID, "contact", "0400 000 000"))

	before := s.Clone()
	got := summary.Project(s, generatedAt)

	assert.Equal(t, before, s, "projection must not mutate the session")

	assert.Equal(t, "Bondi Bakes", got.BusinessName)
	assert.Equal(t, "Food Service", got.Sector)
	assert.Equal(t, summary.Placeholder, got.TradingName)
	assert.Equal(t, "Yes", got.RemoteRural)
	assert.Equal(t, "Yes", got.KYCVerified)
	assert.Equal(t, 1, got.WeeksLogged)
	assert.Equal(t, "$150.50", got.TotalInflow)
	assert.Equal(t, "$0.00", got.TotalOutflow)
	assert.Equal(t, "$150.50", got.Net)
	assert.Equal(t, 3, got.RecurringRecords)
	assert.Equal(t, 1, got.ComplianceRecords)
	assert.Equal(t, 100, got.Coverage)
	assert.Equal(t, coverage.BadgeHigh, got.Badge)
	assert.Equal(t, []string{"Oven — $0"}, got.Assets)
	assert.Equal(t, []string{"Provider — $0 (monthly)"}, got.Liabilities)
	assert.Equal(t, []string{"Supplier — 0400 000 000"}, got.SupplierRefs)
	assert.Equal(t, "Stall at Saturday markets since 2019.", got.CommunityNote)
}

func TestSummary_Text(t *testing.T) {
	s := evidence.NewSession()
	s.Business.Name = "Bondi Bakes"
	s.Connections.BankConnected = true
	s.Connections.POSConnected = true

	body := summary.Project(s, generatedAt).Text()

	expectedSubstrings := []string{
		"Bondi Bakes\n",
		"Data Coverage 55% (medium)",
		"Generated 2024-03-01",
		"  Owner: —",
		"  Weeks of history: 0",
		"  Total inflows: $0.00",
		"  Bank connected: Yes",
		"\nAssets\n  —\n",
		"\nLiabilities\n  —\n",
	}

	for _, sub := range expectedSubstrings {
		assert.True(t, strings.Contains(body, sub), "expected body to contain %q", sub)
	}

	assert.NotContains(t, body, "Supplier References")
	assert.NotContains(t, body, "Community Evidence")
}

func TestSummary_Text_UntitledBusiness(t *testing.T) {
	body := summary.Project(evidence.NewSession(), generatedAt).Text()
	assert.True(t, strings.HasPrefix(body, "Business Name\n"))
}

func TestMoney(t *testing.T) {
	s := evidence.NewSession()
	s.CashFlow[0].Outflow = "20.1"

	got := summary.Project(s, generatedAt)
	assert.Equal(t, "$-20.10", got.Net)
}
