package evidence

import (
	"fmt"

	"github.com/google/uuid"
)

// Row is implemented by every evidence record type.
type Row interface {
	RowID() uuid.UUID
	Get(field string) (string, error)
	set(field, value string) error
}

var fieldsByKind = map[Kind][]string{
	KindCashFlow:    {"date", "inflow", "outflow"},
	KindBill:        {"provider", "account", "avg_monthly", "last_paid_date"},
	KindRent:        {"landlord", "address", "monthly_rent", "last_paid_date"},
	KindInvoice:     {"supplier", "issue_date", "amount", "paid_date"},
	KindCompliance:  {"type", "ref", "status", "valid_until"},
	KindAsset:       {"type", "est_value"},
	KindLiability:   {"provider", "balance", "repayment_frequency"},
	KindSupplierRef: {"name", "contact"},
}

// Fields returns the editable field names of a kind, in display order.
func Fields(kind Kind) []string {
	return append([]string(nil), fieldsByKind[kind]...)
}

var optionsByField = map[Kind]map[string][]string{
	KindCompliance: {
		"type":   {string(ComplianceTax), string(ComplianceInsurance)},
		"status": {string(ComplianceCurrent), string(ComplianceLapsed)},
	},
	KindLiability: {
		"repayment_frequency": {string(RepaymentWeekly), string(RepaymentFortnightly), string(RepaymentMonthly)},
	},
}

// Options returns the allowed values of an enumerated field, or nil when
// the field takes free text.
func Options(kind Kind, field string) []string {
	return append([]string(nil), optionsByField[kind][field]...)
}

func unknownField(kind Kind, field string) error {
	return fmt.Errorf("%w: %s.%s", ErrUnknownField, kind, field)
}

func (r *CashFlowEntry) RowID() uuid.UUID { return r.ID }

func (r *CashFlowEntry) Get(field string) (string, error) {
	switch field {
	case "date":
		return r.Date, nil
	case "inflow":
		return r.Inflow, nil
	case "outflow":
		return r.Outflow, nil
	}

	return "", unknownField(KindCashFlow, field)
}

func (r *CashFlowEntry) set(field, value string) error {
	switch field {
	case "date":
		r.Date = value
	case "inflow":
		r.Inflow = value
	case "outflow":
		r.Outflow = value
	default:
		return unknownField(KindCashFlow, field)
	}

	return nil
}

func (r *BillRecord) RowID() uuid.UUID { return r.ID }

func (r *BillRecord) Get(field string) (string, error) {
	switch field {
	case "provider":
		return r.Provider, nil
	case "account":
		return r.Account, nil
	case "avg_monthly":
		return r.AvgMonthly, nil
	case "last_paid_date":
		return r.LastPaidDate, nil
	}

	return "", unknownField(KindBill, field)
}

func (r *BillRecord) set(field, value string) error {
	switch field {
	case "provider":
		r.Provider = value
	case "account":
		r.Account = value
	case "avg_monthly":
		r.AvgMonthly = value
	case "last_paid_date":
		r.LastPaidDate = value
	default:
		return unknownField(KindBill, field)
	}

	return nil
}

func (r *RentRecord) RowID() uuid.UUID { return r.ID }

func (r *RentRecord) Get(field string) (string, error) {
	switch field {
	case "landlord":
		return r.Landlord, nil
	case "address":
		return r.Address, nil
	case "monthly_rent":
		return r.MonthlyRent, nil
	case "last_paid_date":
		return r.LastPaidDate, nil
	}

	return "", unknownField(KindRent, field)
}

func (r *RentRecord) set(field, value string) error {
	switch field {
	case "landlord":
		r.Landlord = value
	case "address":
		r.Address = value
	case "monthly_rent":
		r.MonthlyRent = value
	case "last_paid_date":
		r.LastPaidDate = value
	default:
		return unknownField(KindRent, field)
	}

	return nil
}

func (r *InvoiceRecord) RowID() uuid.UUID { return r.ID }

func (r *InvoiceRecord) Get(field string) (string, error) {
	switch field {
	case "supplier":
		return r.Supplier, nil
	case "issue_date":
		return r.IssueDate, nil
	case "amount":
		return r.Amount, nil
	case "paid_date":
		return r.PaidDate, nil
	}

	return "", unknownField(KindInvoice, field)
}

func (r *InvoiceRecord) set(field, value string) error {
	switch field {
	case "supplier":
		r.Supplier = value
	case "issue_date":
		r.IssueDate = value
	case "amount":
		r.Amount = value
	case "paid_date":
		r.PaidDate = value
	default:
		return unknownField(KindInvoice, field)
	}

	return nil
}

func (r *ComplianceRecord) RowID() uuid.UUID { return r.ID }

func (r *ComplianceRecord) Get(field string) (string, error) {
	switch field {
	case "type":
		return string(r.Type), nil
	case "ref":
		return r.Ref, nil
	case "status":
		return string(r.Status), nil
	case "valid_until":
		return r.ValidUntil, nil
	}

	return "", unknownField(KindCompliance, field)
}

func (r *ComplianceRecord) set(field, value string) error {
	switch field {
	case "type":
		t, err := ParseComplianceType(value)
		if err != nil {
			return err
		}

		r.Type = t
	case "ref":
		r.Ref = value
	case "status":
		st, err := ParseComplianceStatus(value)
		if err != nil {
			return err
		}

		r.Status = st
	case "valid_until":
		r.ValidUntil = value
	default:
		return unknownField(KindCompliance, field)
	}

	return nil
}

func (r *AssetRecord) RowID() uuid.UUID { return r.ID }

func (r *AssetRecord) Get(field string) (string, error) {
	switch field {
	case "type":
		return r.Type, nil
	case "est_value":
		return r.EstValue, nil
	}

	return "", unknownField(KindAsset, field)
}

func (r *AssetRecord) set(field, value string) error {
	switch field {
	case "type":
		r.Type = value
	case "est_value":
		r.EstValue = value
	default:
		return unknownField(KindAsset, field)
	}

	return nil
}

func (r *LiabilityRecord) RowID() uuid.UUID { return r.ID }

func (r *LiabilityRecord) Get(field string) (string, error) {
	switch field {
	case "provider":
		return r.Provider, nil
	case "balance":
		return r.Balance, nil
	case "repayment_frequency":
		return string(r.RepaymentFrequency), nil
	}

	return "", unknownField(KindLiability, field)
}

func (r *LiabilityRecord) set(field, value string) error {
	switch field {
	case "provider":
		r.Provider = value
	case "balance":
		r.Balance = value
	case "repayment_frequency":
		f, err := ParseRepaymentFrequency(value)
		if err != nil {
			return err
		}

		r.RepaymentFrequency = f
	default:
		return unknownField(KindLiability, field)
	}

	return nil
}

func (r *SupplierReference) RowID() uuid.UUID { return r.ID }

func (r *SupplierReference) Get(field string) (string, error) {
	switch field {
	case "name":
		return r.Name, nil
	case "contact":
		return r.Contact, nil
	}

	return "", unknownField(KindSupplierRef, field)
}

func (r *SupplierReference) set(field, value string) error {
	switch field {
	case "name":
		r.Name = value
	case "contact":
		r.Contact = value
	default:
		return unknownField(KindSupplierRef, field)
	}

	return nil
}
