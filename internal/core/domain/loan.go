package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle of a loan.
type LoanStatus string

const (
	LoanActive LoanStatus = "ACTIVE"
	LoanClosed LoanStatus = "CLOSED"
)

// Loan is an amortizing liability. OutstandingBalance decreases only through
// validated payments and may never go negative.
type Loan struct {
	LoanID             string          `json:"loanID"` // Primary Key (UUID)
	OrgID              string          `json:"orgID"`
	Name               string          `json:"name"`
	Principal          decimal.Decimal `json:"principal"`
	AnnualRatePercent  decimal.Decimal `json:"annualRatePercent"`
	TermMonths         int             `json:"termMonths"`
	PaymentAmount      decimal.Decimal `json:"paymentAmount"` // Fixed monthly payment from the schedule
	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`
	TotalPrincipalPaid decimal.Decimal `json:"totalPrincipalPaid"`
	TotalInterestPaid  decimal.Decimal `json:"totalInterestPaid"`
	StartDate          time.Time       `json:"startDate"`
	CurrencyCode       string          `json:"currencyCode"`
	// Accounts the posting engine books payments against.
	LiabilityAccountID string     `json:"liabilityAccountID"`
	InterestAccountID  string     `json:"interestAccountID"`
	Status             LoanStatus `json:"status"`
	AuditFields
}

// PaymentRow is one period of an amortization schedule.
type PaymentRow struct {
	Period           int             `json:"period"`
	Date             time.Time       `json:"date"`
	Payment          decimal.Decimal `json:"payment"`
	PrincipalPortion decimal.Decimal `json:"principalPortion"`
	InterestPortion  decimal.Decimal `json:"interestPortion"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
}
