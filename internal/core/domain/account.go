package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Valid reports whether t is one of the closed set of account types.
// Unknown types are rejected at construction, not at display time.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// EntrySide identifies one side of a journal line.
type EntrySide string

const (
	DebitSide  EntrySide = "DEBIT"
	CreditSide EntrySide = "CREDIT"
)

// NormalSide returns the side on which balances of this account type naturally increase.
func (t AccountType) NormalSide() EntrySide {
	switch t {
	case Asset, Expense:
		return DebitSide
	default:
		return CreditSide
	}
}

// Account represents a financial account within the core domain.
// Balance is mutated only by the posting engine; Version increments on every
// balance write and guards against lost updates.
type Account struct {
	AccountID    string          `json:"accountID"` // Primary Key (UUID)
	OrgID        string          `json:"orgID"`     // FK -> organizations.org_id (NON-NULL)
	Code         string          `json:"code"`      // User-facing chart-of-accounts code
	Name         string          `json:"name"`
	AccountType  AccountType     `json:"accountType"`
	CurrencyCode string          `json:"currencyCode"`
	Description  string          `json:"description"`
	IsActive     bool            `json:"isActive"` // Soft-deactivate; accounts with history are never deleted
	Balance      decimal.Decimal `json:"balance"`
	Version      int64           `json:"version"`
	AuditFields
}
