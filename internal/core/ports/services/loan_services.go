package services

import (
	"context"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
	"github.com/bizbooks/ledger-backend/internal/dto"
)

// LoanSvcFacade exposes loan administration, amortization schedules and payments.
type LoanSvcFacade interface {
	// CreateLoan registers a loan; the fixed payment amount is derived from its
	// amortization schedule.
	CreateLoan(ctx context.Context, orgID string, req dto.CreateLoanRequest, creatorUserID string) (*domain.Loan, error)

	// GetLoanByID retrieves a single loan scoped to the organization.
	GetLoanByID(ctx context.Context, orgID string, loanID string) (*domain.Loan, error)

	// ListLoans retrieves a paginated list of the organization's loans.
	ListLoans(ctx context.Context, orgID string, limit int, offset int) ([]domain.Loan, error)

	// GetSchedule produces the loan's full amortization schedule.
	GetSchedule(ctx context.Context, orgID string, loanID string) ([]domain.PaymentRow, error)

	// ProcessLoanPayment splits a payment into principal and interest, updates the
	// loan and posts the balancing journal entry in one transaction.
	ProcessLoanPayment(ctx context.Context, orgID string, loanID string, req dto.LoanPaymentRequest, userID string) (*domain.Loan, *domain.JournalEntry, error)
}
