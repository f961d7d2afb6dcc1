package models

import (
	"github.com/shopspring/decimal"
)

// Account is the persisted row shape of a ledger account.
// Version increments on every balance write; readers carry it back so the
// posting engine can detect lost updates.
type Account struct {
	AccountID    string          `db:"account_id"`
	OrgID        string          `db:"org_id"`
	Code         string          `db:"code"`
	Name         string          `db:"name"`
	AccountType  string          `db:"account_type"`
	CurrencyCode string          `db:"currency_code"`
	Description  string          `db:"description"`
	IsActive     bool            `db:"is_active"`
	Balance      decimal.Decimal `db:"balance"`
	Version      int64           `db:"version"`
	AuditFields
}
