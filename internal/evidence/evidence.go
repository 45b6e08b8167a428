package evidence

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrUnknownKind  = errors.New("unknown evidence kind")
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidValue = errors.New("invalid field value")
)

// Kind identifies one list of evidence rows within a session.
type Kind string

const (
	KindCashFlow    Kind = "cash_flow"
	KindBill        Kind = "bill"
	KindRent        Kind = "rent"
	KindInvoice     Kind = "invoice"
	KindCompliance  Kind = "compliance"
	KindAsset       Kind = "asset"
	KindLiability   Kind = "liability"
	KindSupplierRef Kind = "supplier_ref"
)

// Kinds lists every evidence kind in display order.
var Kinds = []Kind{
	KindCashFlow,
	KindBill,
	KindRent,
	KindInvoice,
	KindCompliance,
	KindAsset,
	KindLiability,
	KindSupplierRef,
}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}

	return "", unknownKind(Kind(s))
}

func unknownKind(k Kind) error {
	return fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
}

func (k Kind) Label() string {
	switch k {
	case KindCashFlow:
		return "Cash-flow log"
	case KindBill:
		return "Utility & telecom bills"
	case KindRent:
		return "Rent"
	case KindInvoice:
		return "Supplier invoices"
	case KindCompliance:
		return "Tax & insurance"
	case KindAsset:
		return "Assets"
	case KindLiability:
		return "Liabilities"
	case KindSupplierRef:
		return "Supplier references"
	}

	return string(k)
}

// ComplianceType is the kind of compliance proof a record holds.
type ComplianceType string

const (
	ComplianceTax       ComplianceType = "tax"
	ComplianceInsurance ComplianceType = "insurance"
)

func ParseComplianceType(s string) (ComplianceType, error) {
	switch ComplianceType(s) {
	case ComplianceTax, ComplianceInsurance:
		return ComplianceType(s), nil
	}

	return "", fmt.Errorf("%w: compliance type %q", ErrInvalidValue, s)
}

// ComplianceStatus tells whether a compliance record is still in force.
type ComplianceStatus string

const (
	ComplianceCurrent ComplianceStatus = "current"
	ComplianceLapsed  ComplianceStatus = "lapsed"
)

func ParseComplianceStatus(s string) (ComplianceStatus, error) {
	switch ComplianceStatus(s) {
	case ComplianceCurrent, ComplianceLapsed:
		return ComplianceStatus(s), nil
	}

	return "", fmt.Errorf("%w: compliance status %q", ErrInvalidValue, s)
}

// RepaymentFrequency is how often a liability is repaid.
type RepaymentFrequency string

const (
	RepaymentWeekly      RepaymentFrequency = "weekly"
	RepaymentFortnightly RepaymentFrequency = "fortnightly"
	RepaymentMonthly     RepaymentFrequency = "monthly"
)

func ParseRepaymentFrequency(s string) (RepaymentFrequency, error) {
	switch RepaymentFrequency(s) {
	case RepaymentWeekly, RepaymentFortnightly, RepaymentMonthly:
		return RepaymentFrequency(s), nil
	}

	return "", fmt.Errorf("%w: repayment frequency %q", ErrInvalidValue, s)
}

// CashFlowEntry is one line of the borrower's cash-flow log.
// Amounts are kept as entered and only interpreted by Aggregate.
type CashFlowEntry struct {
	ID      uuid.UUID
	Date    string
	Inflow  string
	Outflow string
}

// BillRecord is a recurring utility or telecom bill.
type BillRecord struct {
	ID           uuid.UUID
	Provider     string
	Account      string
	AvgMonthly   string
	LastPaidDate string
}

type RentRecord struct {
	ID           uuid.UUID
	Landlord     string
	Address      string
	MonthlyRent  string
	LastPaidDate string
}

// InvoiceRecord is a supplier invoice evidencing the supply chain.
type InvoiceRecord struct {
	ID        uuid.UUID
	Supplier  string
	IssueDate string
	Amount    string
	PaidDate  string
}

type ComplianceRecord struct {
	ID         uuid.UUID
	Type       ComplianceType
	Ref        string
	Status     ComplianceStatus
	ValidUntil string
}

type AssetRecord struct {
	ID       uuid.UUID
	Type     string
	EstValue string
}

type LiabilityRecord struct {
	ID                 uuid.UUID
	Provider           string
	Balance            string
	RepaymentFrequency RepaymentFrequency
}

// SupplierReference is an optional trade reference supplied by the borrower.
type SupplierReference struct {
	ID      uuid.UUID
	Name    string
	Contact string
}

// Business holds the objective business basics of the borrower.
type Business struct {
	Name         string
	TradingName  string
	ABN          string
	Structure    string
	YearsTrading string
	StaffCount   string
	Sector       string
	Location     string
	RemoteRural  bool
}

// Owner holds the KYC fields of the person behind the business.
type Owner struct {
	FullName string
	Address  string
	DOB      string
	Verified bool
}

// Connections are the data-source flags that feed the coverage score.
type Connections struct {
	BankConnected   bool
	POSConnected    bool
	RatingsUploaded bool
	ReceiptCount    int
}

type Consent struct {
	AIAnalysis    bool
	AnonymizedUse bool
}
