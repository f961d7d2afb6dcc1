package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetStatus is the lifecycle of a budget.
type BudgetStatus string

const (
	BudgetDraft  BudgetStatus = "DRAFT"
	BudgetActive BudgetStatus = "ACTIVE"
	BudgetClosed BudgetStatus = "CLOSED"
)

// Budget is a plan of amounts per account over a fiscal period.
// The variance analyzer only ever reads it; variance is computed, never persisted.
type Budget struct {
	BudgetID  string       `json:"budgetID"` // Primary Key (UUID)
	OrgID     string       `json:"orgID"`
	Name      string       `json:"name"`
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"`
	Status    BudgetStatus `json:"status"`
	AuditFields
	Lines []BudgetLine `json:"lines,omitempty"`
}

// BudgetLine is a single budgeted amount for one account.
type BudgetLine struct {
	BudgetLineID   string          `json:"budgetLineID"`
	BudgetID       string          `json:"budgetID"`
	AccountID      string          `json:"accountID"`
	BudgetedAmount decimal.Decimal `json:"budgetedAmount"`
}

// VarianceLine is the computed budget-vs-actual result for one budget line.
type VarianceLine struct {
	AccountID       string          `json:"accountID"`
	AccountName     string          `json:"accountName"`
	AccountType     AccountType     `json:"accountType"`
	BudgetedAmount  decimal.Decimal `json:"budgetedAmount"`
	ActualAmount    decimal.Decimal `json:"actualAmount"`
	Variance        decimal.Decimal `json:"variance"`
	VariancePercent decimal.Decimal `json:"variancePercent"`
	Favorable       bool            `json:"favorable"`
}

// VarianceReport aggregates variance across all budget lines for a period.
type VarianceReport struct {
	BudgetID      string          `json:"budgetID"`
	BudgetName    string          `json:"budgetName"`
	StartDate     time.Time       `json:"startDate"`
	EndDate       time.Time       `json:"endDate"`
	TotalBudgeted decimal.Decimal `json:"totalBudgeted"`
	TotalActual   decimal.Decimal `json:"totalActual"`
	TotalVariance decimal.Decimal `json:"totalVariance"`
	Lines         []VarianceLine  `json:"lines"`
}
