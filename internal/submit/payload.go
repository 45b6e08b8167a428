package submit

import (
	"encoding/json"
	"time"

	"github.com/unlockgrowth/intake/internal/coverage"
	"github.com/unlockgrowth/intake/internal/evidence"
)

// envelope is the JSON document sent as payload.json. Its shape is what
// the summary workflow on the other side of the webhook reads.
type envelope struct {
	Payload payload    `json:"payload"`
	Context ctxBlock   `json:"context"`
	Client  clientMeta `json:"client"`
}

type payload struct {
	Business business `json:"business"`
	Computed computed `json:"computed"`
}

type business struct {
	BusinessName  string `json:"businessName"`
	TradingName   string `json:"tradingName"`
	ABN           string `json:"abn"`
	Structure     string `json:"structure"`
	YearsTrading  string `json:"yearsTrading"`
	StaffCount    string `json:"staffCount"`
	Sector        string `json:"sector"`
	Location      string `json:"location"`
	RemoteRural   bool   `json:"remoteRural"`
	OwnerFullName string `json:"ownerFullName"`
	OwnerDOB      string `json:"ownerDob"`
	OwnerAddress  string `json:"ownerAddress"`
	KYCVerified   bool   `json:"kycVerified"`
}

type computed struct {
	DataCoverage int       `json:"dataCoverage"`
	Totals       totals    `json:"totals"`
	Timestamp    time.Time `json:"timestamp"`
}

type totals struct {
	Inflow  json.Number `json:"inflow"`
	Outflow json.Number `json:"outflow"`
	Net     json.Number `json:"net"`
	Weeks   int         `json:"weeks"`
}

type ctxBlock struct {
	Consent     consent     `json:"consent"`
	Connections connections `json:"connections"`
	FileBlocks  []fileBlock `json:"fileBlocks"`
}

type consent struct {
	AIAnalysis    bool `json:"aiAnalysis"`
	AnonymizedUse bool `json:"anonymizedUse"`
}

type connections struct {
	BankConnected   bool `json:"bankConnected"`
	POSConnected    bool `json:"posConnected"`
	RatingsUploaded bool `json:"ratingsUploaded"`
	ReceiptCount    int  `json:"receiptCount"`
}

type fileBlock struct {
	FileField string `json:"fileField"`
	Data      any    `json:"data"`
}

type clientMeta struct {
	UA string `json:"ua"`
}

// blockFields names each evidence list in the payload.
var blockFields = []struct {
	kind  evidence.Kind
	field string
}{
	{evidence.KindCashFlow, "cash_log"},
	{evidence.KindBill, "bills"},
	{evidence.KindRent, "rent"},
	{evidence.KindInvoice, "invoices"},
	{evidence.KindCompliance, "compliance"},
	{evidence.KindAsset, "assets"},
	{evidence.KindLiability, "liabilities"},
	{evidence.KindSupplierRef, "supplier_refs"},
}

func buildEnvelope(s *evidence.Session, userAgent string, now time.Time) envelope {
	t := s.Totals()

	blocks := make([]fileBlock, 0, len(blockFields)+1)
	for _, b := range blockFields {
		blocks = append(blocks, fileBlock{FileField: b.field, Data: rowMaps(s, b.kind)})
	}

	blocks = append(blocks, fileBlock{FileField: "community_note", Data: s.CommunityNote})

	return envelope{
		Payload: payload{
			Business: business{
				BusinessName:  s.Business.Name,
				TradingName:   s.Business.TradingName,
				ABN:           s.Business.ABN,
				Structure:     s.Business.Structure,
				YearsTrading:  s.Business.YearsTrading,
				StaffCount:    s.Business.StaffCount,
				Sector:        s.Business.Sector,
				Location:      s.Business.Location,
				RemoteRural:   s.Business.RemoteRural,
				OwnerFullName: s.Owner.FullName,
				OwnerDOB:      s.Owner.DOB,
				OwnerAddress:  s.Owner.Address,
				KYCVerified:   s.Owner.Verified,
			},
			Computed: computed{
				DataCoverage: coverage.Score(s.Signals()),
				Totals: totals{
					Inflow:  json.Number(t.Inflow.String()),
					Outflow: json.Number(t.Outflow.String()),
					Net:     json.Number(t.Net.String()),
					Weeks:   t.WeeksLogged,
				},
				Timestamp: now.UTC(),
			},
		},
		Context: ctxBlock{
			Consent: consent{
				AIAnalysis:    s.Consent.AIAnalysis,
				AnonymizedUse: s.Consent.AnonymizedUse,
			},
			Connections: connections{
				BankConnected:   s.Connections.BankConnected,
				POSConnected:    s.Connections.POSConnected,
				RatingsUploaded: s.Connections.RatingsUploaded,
				ReceiptCount:    s.Connections.ReceiptCount,
			},
			FileBlocks: blocks,
		},
		Client: clientMeta{UA: userAgent},
	}
}

// rowMaps flattens a list into field/value maps keyed the way rows are
// edited, plus the row id.
func rowMaps(s *evidence.Session, kind evidence.Kind) []map[string]string {
	rows, err := s.Rows(kind)
	if err != nil {
		return []map[string]string{}
	}

	fields := evidence.Fields(kind)
	out := make([]map[string]string, 0, len(rows))

	for _, r := range rows {
		m := make(map[string]string, len(fields)+1)
		m["id"] = r.RowID().String()

		for _, f := range fields {
			v, _ := r.Get(f)
			m[f] = v
		}

		out = append(out, m)
	}

	return out
}
