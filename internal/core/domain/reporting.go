package domain

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single account's posted debit/credit totals.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// AccountActivity is the summed posted line activity for one account over a range.
type AccountActivity struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// ReconciliationResult compares an account's stored running balance with the balance
// recomputed from posted entry history.
type ReconciliationResult struct {
	AccountID         string          `json:"accountID"`
	StoredBalance     decimal.Decimal `json:"storedBalance"`
	RecomputedBalance decimal.Decimal `json:"recomputedBalance"`
	Drift             decimal.Decimal `json:"drift"`
	InSync            bool            `json:"inSync"`
}
