package dto

import (
	"time"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLoanRequest defines the payload for registering a loan.
type CreateLoanRequest struct {
	Name               string          `json:"name" binding:"required"`
	Principal          decimal.Decimal `json:"principal" binding:"required,gt=0"`
	AnnualRatePercent  decimal.Decimal `json:"annualRatePercent" binding:"gte=0"`
	TermMonths         int             `json:"termMonths" binding:"required,gt=0"`
	StartDate          time.Time       `json:"startDate" binding:"required"`
	CurrencyCode       string          `json:"currencyCode" binding:"required,len=3"`
	LiabilityAccountID string          `json:"liabilityAccountID" binding:"required"`
	InterestAccountID  string          `json:"interestAccountID" binding:"required"`
}

// LoanPaymentRequest defines the payload for processing a loan payment.
type LoanPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Date          time.Time       `json:"date" binding:"required"`
	CashAccountID string          `json:"cashAccountID" binding:"required"`
}

// LoanResponse defines the data returned for a loan.
type LoanResponse struct {
	LoanID             string          `json:"loanID"`
	Name               string          `json:"name"`
	Principal          decimal.Decimal `json:"principal"`
	AnnualRatePercent  decimal.Decimal `json:"annualRatePercent"`
	TermMonths         int             `json:"termMonths"`
	PaymentAmount      decimal.Decimal `json:"paymentAmount"`
	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`
	TotalPrincipalPaid decimal.Decimal `json:"totalPrincipalPaid"`
	TotalInterestPaid  decimal.Decimal `json:"totalInterestPaid"`
	StartDate          time.Time       `json:"startDate"`
	CurrencyCode       string          `json:"currencyCode"`
	Status             string          `json:"status"`
}

// LoanPaymentResponse bundles the updated loan and the journal entry that recorded it.
type LoanPaymentResponse struct {
	Loan  LoanResponse  `json:"loan"`
	Entry EntryResponse `json:"entry"`
}

// ScheduleResponse carries a loan's amortization schedule.
type ScheduleResponse struct {
	LoanID string              `json:"loanID"`
	Rows   []domain.PaymentRow `json:"rows"`
}

// ToLoanResponse converts a domain.Loan to LoanResponse DTO.
func ToLoanResponse(l *domain.Loan) LoanResponse {
	return LoanResponse{
		LoanID:             l.LoanID,
		Name:               l.Name,
		Principal:          l.Principal,
		AnnualRatePercent:  l.AnnualRatePercent,
		TermMonths:         l.TermMonths,
		PaymentAmount:      l.PaymentAmount,
		OutstandingBalance: l.OutstandingBalance,
		TotalPrincipalPaid: l.TotalPrincipalPaid,
		TotalInterestPaid:  l.TotalInterestPaid,
		StartDate:          l.StartDate,
		CurrencyCode:       l.CurrencyCode,
		Status:             string(l.Status),
	}
}

// ToLoanResponses converts a slice of domain.Loan to []LoanResponse.
func ToLoanResponses(loans []domain.Loan) []LoanResponse {
	responses := make([]LoanResponse, len(loans))
	for i := range loans {
		responses[i] = ToLoanResponse(&loans[i])
	}
	return responses
}
