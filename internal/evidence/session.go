package evidence

import (
	"time"

	"github.com/google/uuid"

	"github.com/unlockgrowth/intake/internal/coverage"
)

// Session is the evidence record store of one borrower intake.
// It is not safe for concurrent use; callers serialise access to it.
type Session struct {
	ID            uuid.UUID
	Business      Business
	Owner         Owner
	Connections   Connections
	Consent       Consent
	CommunityNote string

	CashFlow     []*CashFlowEntry
	Bills        []*BillRecord
	Rent         []*RentRecord
	Invoices     []*InvoiceRecord
	Compliance   []*ComplianceRecord
	Assets       []*AssetRecord
	Liabilities  []*LiabilityRecord
	SupplierRefs []*SupplierReference

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession returns a session with a single blank cash-flow row and
// every other list empty.
func NewSession() *Session {
	return &Session{
		ID:           uuid.New(),
		CashFlow:     []*CashFlowEntry{{ID: uuid.New()}},
		Bills:        []*BillRecord{},
		Rent:         []*RentRecord{},
		Invoices:     []*InvoiceRecord{},
		Compliance:   []*ComplianceRecord{},
		Assets:       []*AssetRecord{},
		Liabilities:  []*LiabilityRecord{},
		SupplierRefs: []*SupplierReference{},
	}
}

// AddRow appends a defaulted row of the given kind and returns its id.
func (s *Session) AddRow(kind Kind) (uuid.UUID, error) {
	id := uuid.New()

	switch kind {
	case KindCashFlow:
		s.CashFlow = append(s.CashFlow, &CashFlowEntry{ID: id})
	case KindBill:
		s.Bills = append(s.Bills, &BillRecord{ID: id})
	case KindRent:
		s.Rent = append(s.Rent, &RentRecord{ID: id})
	case KindInvoice:
		s.Invoices = append(s.Invoices, &InvoiceRecord{ID: id})
	case KindCompliance:
		s.Compliance = append(s.Compliance, &ComplianceRecord{
			ID:     id,
			Type:   ComplianceTax,
			Status: ComplianceCurrent,
		})
	case KindAsset:
		s.Assets = append(s.Assets, &AssetRecord{ID: id})
	case KindLiability:
		s.Liabilities = append(s.Liabilities, &LiabilityRecord{
			ID:                 id,
			RepaymentFrequency: RepaymentMonthly,
		})
	case KindSupplierRef:
		s.SupplierRefs = append(s.SupplierRefs, &SupplierReference{ID: id})
	default:
		return uuid.Nil, unknownKind(kind)
	}

	return id, nil
}

// RemoveRow drops the row with the given id. An absent id is not an error.
func (s *Session) RemoveRow(kind Kind, id uuid.UUID) error {
	switch kind {
	case KindCashFlow:
		s.CashFlow = removeByID(s.CashFlow, id)
	case KindBill:
		s.Bills = removeByID(s.Bills, id)
	case KindRent:
		s.Rent = removeByID(s.Rent, id)
	case KindInvoice:
		s.Invoices = removeByID(s.Invoices, id)
	case KindCompliance:
		s.Compliance = removeByID(s.Compliance, id)
	case KindAsset:
		s.Assets = removeByID(s.Assets, id)
	case KindLiability:
		s.Liabilities = removeByID(s.Liabilities, id)
	case KindSupplierRef:
		s.SupplierRefs = removeByID(s.SupplierRefs, id)
	default:
		return unknownKind(kind)
	}

	return nil
}

// UpdateField replaces one field of the row with the given id.
// An absent id is a no-op; an unknown field or a bad enum value is an error.
func (s *Session) UpdateField(kind Kind, id uuid.UUID, field, value string) error {
	rows, err := s.Rows(kind)
	if err != nil {
		return err
	}

	for _, r := range rows {
		if r.RowID() == id {
			return r.set(field, value)
		}
	}

	if !validField(kind, field) {
		return unknownField(kind, field)
	}

	return nil
}

// Rows returns the rows of a kind behind the Row interface.
func (s *Session) Rows(kind Kind) ([]Row, error) {
	switch kind {
	case KindCashFlow:
		return asRows(s.CashFlow), nil
	case KindBill:
		return asRows(s.Bills), nil
	case KindRent:
		return asRows(s.Rent), nil
	case KindInvoice:
		return asRows(s.Invoices), nil
	case KindCompliance:
		return asRows(s.Compliance), nil
	case KindAsset:
		return asRows(s.Assets), nil
	case KindLiability:
		return asRows(s.Liabilities), nil
	case KindSupplierRef:
		return asRows(s.SupplierRefs), nil
	}

	return nil, unknownKind(kind)
}

// Count returns the number of rows of a kind, zero for unknown kinds.
func (s *Session) Count(kind Kind) int {
	rows, err := s.Rows(kind)
	if err != nil {
		return 0
	}

	return len(rows)
}

// AppendCashFlow adds imported entries to the cash-flow log under fresh ids.
func (s *Session) AppendCashFlow(entries []CashFlowEntry) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(entries))

	for _, e := range entries {
		e.ID = uuid.New()
		s.CashFlow = append(s.CashFlow, &e)
		ids = append(ids, e.ID)
	}

	return ids
}

// Totals aggregates the current cash-flow log.
func (s *Session) Totals() Totals {
	return Aggregate(s.CashFlow)
}

// Signals extracts the inputs of the coverage score.
func (s *Session) Signals() coverage.Signals {
	return coverage.Signals{
		BankConnected:   s.Connections.BankConnected,
		POSConnected:    s.Connections.POSConnected,
		RatingsUploaded: s.Connections.RatingsUploaded,
		ReceiptCount:    s.Connections.ReceiptCount,
		Bills:           len(s.Bills),
		Rent:            len(s.Rent),
		Invoices:        len(s.Invoices),
		Compliance:      len(s.Compliance),
	}
}

// Clone returns a deep copy that shares no rows with s.
func (s *Session) Clone() *Session {
	c := *s
	c.CashFlow = cloneRows(s.CashFlow)
	c.Bills = cloneRows(s.Bills)
	c.Rent = cloneRows(s.Rent)
	c.Invoices = cloneRows(s.Invoices)
	c.Compliance = cloneRows(s.Compliance)
	c.Assets = cloneRows(s.Assets)
	c.Liabilities = cloneRows(s.Liabilities)
	c.SupplierRefs = cloneRows(s.SupplierRefs)

	return &c
}

func validField(kind Kind, field string) bool {
	for _, f := range fieldsByKind[kind] {
		if f == field {
			return true
		}
	}

	return false
}

func removeByID[T Row](rows []T, id uuid.UUID) []T {
	idx := -1

	for i, r := range rows {
		if r.RowID() == id {
			idx = i
			break
		}
	}

	if idx < 0 {
		return rows
	}

	out := make([]T, 0, len(rows)-1)
	out = append(out, rows[:idx]...)

	return append(out, rows[idx+1:]...)
}

func asRows[T Row](rows []T) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r
	}

	return out
}

func cloneRows[T any](rows []*T) []*T {
	if rows == nil {
		return nil
	}

	out := make([]*T, len(rows))

	for i, r := range rows {
		cp := *r
		out[i] = &cp
	}

	return out
}
