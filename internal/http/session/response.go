package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/unlockgrowth/intake/internal/coverage"
	"github.com/unlockgrowth/intake/internal/evidence"
	"github.com/unlockgrowth/intake/internal/summary"
)

type businessDTO struct {
	Name         string `json:"name"`
	TradingName  string `json:"trading_name"`
	ABN          string `json:"abn"`
	Structure    string `json:"structure"`
	YearsTrading string `json:"years_trading"`
	StaffCount   string `json:"staff_count"`
	Sector       string `json:"sector"`
	Location     string `json:"location"`
	RemoteRural  bool   `json:"remote_rural"`
}

type ownerDTO struct {
	FullName string `json:"full_name"`
	Address  string `json:"address"`
	DOB      string `json:"dob"`
	Verified bool   `json:"verified"`
}

type connectionsDTO struct {
	BankConnected   bool `json:"bank_connected"`
	POSConnected    bool `json:"pos_connected"`
	RatingsUploaded bool `json:"ratings_uploaded"`
	ReceiptCount    int  `json:"receipt_count"`
}

type consentDTO struct {
	AIAnalysis    bool `json:"ai_analysis"`
	AnonymizedUse bool `json:"anonymized_use"`
}

// row is a record rendered as its editable fields plus "id".
type row map[string]string

type sessionResponse struct {
	ID            uuid.UUID               `json:"id"`
	Business      businessDTO             `json:"business"`
	Owner         ownerDTO                `json:"owner"`
	Connections   connectionsDTO          `json:"connections"`
	Consent       consentDTO              `json:"consent"`
	CommunityNote string                  `json:"community_note"`
	Rows          map[evidence.Kind][]row `json:"rows"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

type totalsResponse struct {
	Inflow      string `json:"inflow"`
	Outflow     string `json:"outflow"`
	Net         string `json:"net"`
	WeeksLogged int    `json:"weeks_logged"`
}

type contributionResponse struct {
	Signal coverage.Signal `json:"signal"`
	Label  string          `json:"label"`
	Points int             `json:"points"`
	Max    int             `json:"max"`
}

type coverageResponse struct {
	Score         int                    `json:"score"`
	Max           int                    `json:"max"`
	Badge         coverage.Badge         `json:"badge"`
	Contributions []contributionResponse `json:"contributions"`
}

type summaryResponse struct {
	BusinessName      string         `json:"business_name"`
	TradingName       string         `json:"trading_name"`
	ABN               string         `json:"abn"`
	Structure         string         `json:"structure"`
	YearsTrading      string         `json:"years_trading"`
	StaffCount        string         `json:"staff_count"`
	Sector            string         `json:"sector"`
	Location          string         `json:"location"`
	RemoteRural       string         `json:"remote_rural"`
	OwnerName         string         `json:"owner_name"`
	OwnerAddress      string         `json:"owner_address"`
	OwnerDOB          string         `json:"owner_dob"`
	KYCVerified       string         `json:"kyc_verified"`
	WeeksLogged       int            `json:"weeks_logged"`
	TotalInflow       string         `json:"total_inflow"`
	TotalOutflow      string         `json:"total_outflow"`
	Net               string         `json:"net"`
	BankConnected     string         `json:"bank_connected"`
	POSConnected      string         `json:"pos_connected"`
	RatingsUploaded   string         `json:"ratings_uploaded"`
	ReceiptCount      int            `json:"receipt_count"`
	RecurringRecords  int            `json:"recurring_records"`
	ComplianceRecords int            `json:"compliance_records"`
	Coverage          int            `json:"coverage"`
	Badge             coverage.Badge `json:"badge"`
	Assets            []string       `json:"assets"`
	Liabilities       []string       `json:"liabilities"`
	SupplierRefs      []string       `json:"supplier_refs"`
	CommunityNote     string         `json:"community_note"`
	GeneratedAt       time.Time      `json:"generated_at"`
}

type addRowResponse struct {
	RowID   uuid.UUID       `json:"row_id"`
	Session sessionResponse `json:"session"`
}

type importResponse struct {
	Imported int            `json:"imported"`
	RowIDs   []uuid.UUID    `json:"row_ids"`
	Totals   totalsResponse `json:"totals"`
}

type submitResponse struct {
	PDFURL  string           `json:"pdf_url,omitempty"`
	Summary *summaryResponse `json:"summary,omitempty"`
}

func toSessionResponse(s *evidence.Session) sessionResponse {
	rows := make(map[evidence.Kind][]row, len(evidence.Kinds))

	for _, k := range evidence.Kinds {
		recs, _ := s.Rows(k)
		fields := evidence.Fields(k)

		out := make([]row, 0, len(recs))
		for _, rec := range recs {
			m := row{"id": rec.RowID().String()}
			for _, f := range fields {
				m[f], _ = rec.Get(f)
			}

			out = append(out, m)
		}

		rows[k] = out
	}

	return sessionResponse{
		ID: s.ID,
		Business: businessDTO{
			Name:         s.Business.Name,
			TradingName:  s.Business.TradingName,
			ABN:          s.Business.ABN,
			Structure:    s.Business.Structure,
			YearsTrading: s.Business.YearsTrading,
			StaffCount:   s.Business.StaffCount,
			Sector:       s.Business.Sector,
			Location:     s.Business.Location,
			RemoteRural:  s.Business.RemoteRural,
		},
		Owner: ownerDTO{
			FullName: s.Owner.FullName,
			Address:  s.Owner.Address,
			DOB:      s.Owner.DOB,
			Verified: s.Owner.Verified,
		},
		Connections: connectionsDTO{
			BankConnected:   s.Connections.BankConnected,
			POSConnected:    s.Connections.POSConnected,
			RatingsUploaded: s.Connections.RatingsUploaded,
			ReceiptCount:    s.Connections.ReceiptCount,
		},
		Consent: consentDTO{
			AIAnalysis:    s.Consent.AIAnalysis,
			AnonymizedUse: s.Consent.AnonymizedUse,
		},
		CommunityNote: s.CommunityNote,
		Rows:          rows,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func toTotalsResponse(t evidence.Totals) totalsResponse {
	return totalsResponse{
		Inflow:      t.Inflow.StringFixed(2),
		Outflow:     t.Outflow.StringFixed(2),
		Net:         t.Net.StringFixed(2),
		WeeksLogged: t.WeeksLogged,
	}
}

func toCoverageResponse(r coverage.Result) coverageResponse {
	contributions := make([]contributionResponse, 0, len(r.Contributions))
	for _, c := range r.Contributions {
		contributions = append(contributions, contributionResponse{
			Signal: c.Signal,
			Label:  c.Signal.Label(),
			Points: c.Points,
			Max:    c.Max,
		})
	}

	return coverageResponse{
		Score:         r.Score,
		Max:           coverage.MaxScore,
		Badge:         r.Badge,
		Contributions: contributions,
	}
}

func toSummaryResponse(s summary.Summary) summaryResponse {
	return summaryResponse{
		BusinessName:      s.BusinessName,
		TradingName:       s.TradingName,
		ABN:               s.ABN,
		Structure:         s.Structure,
		YearsTrading:      s.YearsTrading,
		StaffCount:        s.StaffCount,
		Sector:            s.Sector,
		Location:          s.Location,
		RemoteRural:       s.RemoteRural,
		OwnerName:         s.OwnerName,
		OwnerAddress:      s.OwnerAddress,
		OwnerDOB:          s.OwnerDOB,
		KYCVerified:       s.KYCVerified,
		WeeksLogged:       s.WeeksLogged,
		TotalInflow:       s.TotalInflow,
		TotalOutflow:      s.TotalOutflow,
		Net:               s.Net,
		BankConnected:     s.BankConnected,
		POSConnected:      s.POSConnected,
		RatingsUploaded:   s.RatingsUploaded,
		ReceiptCount:      s.ReceiptCount,
		RecurringRecords:  s.RecurringRecords,
		ComplianceRecords: s.ComplianceRecords,
		Coverage:          s.Coverage,
		Badge:             s.Badge,
		Assets:            s.Assets,
		Liabilities:       s.Liabilities,
		SupplierRefs:      s.SupplierRefs,
		CommunityNote:     s.CommunityNote,
		GeneratedAt:       s.GeneratedAt,
	}
}
