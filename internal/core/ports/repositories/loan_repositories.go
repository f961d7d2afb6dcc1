package repositories

import (
	"context"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LoanReader defines read operations for loan data
type LoanReader interface {
	// FindLoanByID retrieves a specific loan by its unique identifier.
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// ListLoans retrieves a paginated list of loans for an organization.
	ListLoans(ctx context.Context, orgID string, limit int, offset int) ([]domain.Loan, error)
}

// LoanWriter defines write operations for loan data
type LoanWriter interface {
	// SaveLoan persists a new loan.
	SaveLoan(ctx context.Context, loan domain.Loan) error

	// UpdateLoanPaymentInTx writes the outstanding balance and cumulative paid fields
	// of a loan within the given transaction, so the update commits together with the
	// journal entry that records the payment. The write is conditional on the stored
	// outstanding balance still equaling expectedOutstanding and fails with
	// ErrConcurrentModification when another payment committed since the caller's read.
	UpdateLoanPaymentInTx(ctx context.Context, tx pgx.Tx, loan domain.Loan, expectedOutstanding decimal.Decimal) error
}

// LoanRepositoryFacade combines all loan-related repository interfaces
type LoanRepositoryFacade interface {
	LoanReader
	LoanWriter
}

// LoanRepositoryWithTx extends LoanRepositoryFacade with transaction capabilities
type LoanRepositoryWithTx interface {
	LoanRepositoryFacade
	TransactionManager
}
