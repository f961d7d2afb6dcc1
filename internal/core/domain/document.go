package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind distinguishes money owed to us from money we owe.
type DocumentKind string

const (
	Invoice DocumentKind = "INVOICE" // Receivable
	Bill    DocumentKind = "BILL"    // Payable
)

// DocumentStatus is the payment lifecycle of an invoice or bill.
type DocumentStatus string

const (
	DocDraft     DocumentStatus = "DRAFT"
	DocOpen      DocumentStatus = "OPEN"
	DocPaid      DocumentStatus = "PAID"
	DocOverdue   DocumentStatus = "OVERDUE"
	DocCancelled DocumentStatus = "CANCELLED"
)

// Terminal reports whether no further payments may be applied.
func (s DocumentStatus) Terminal() bool {
	return s == DocPaid || s == DocCancelled
}

// Document is an invoice or bill tracked against the ledger.
// Balance is always Total minus Paid and never goes negative.
type Document struct {
	DocID            string          `json:"docID"` // Primary Key (UUID)
	OrgID            string          `json:"orgID"`
	DocNumber        string          `json:"docNumber"`
	Kind             DocumentKind    `json:"kind"`
	CounterpartyName string          `json:"counterpartyName"`
	IssueDate        time.Time       `json:"issueDate"`
	DueDate          time.Time       `json:"dueDate"`
	CurrencyCode     string          `json:"currencyCode"`
	Total            decimal.Decimal `json:"total"`
	Paid             decimal.Decimal `json:"paid"`
	Balance          decimal.Decimal `json:"balance"`
	Status           DocumentStatus  `json:"status"`
	// OffsetAccountID is the receivable account for an invoice, payable account for a bill.
	OffsetAccountID string `json:"offsetAccountID"`
	AuditFields
}
