package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/bizbooks/ledger-backend/internal/apperrors"
	"github.com/bizbooks/ledger-backend/internal/core/domain"
	portsrepo "github.com/bizbooks/ledger-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const loanColumns = `loan_id, org_id, name, principal, annual_rate_percent, term_months, payment_amount, outstanding_balance, total_principal_paid, total_interest_paid, start_date, currency_code, liability_account_id, interest_account_id, status, created_at, created_by, last_updated_at, last_updated_by`

type PgxLoanRepository struct {
	BaseRepository
}

// newPgxLoanRepository creates a new repository for loan data.
func newPgxLoanRepository(pool *pgxpool.Pool) portsrepo.LoanRepositoryWithTx {
	return &PgxLoanRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLoanRepository implements portsrepo.LoanRepositoryWithTx
var _ portsrepo.LoanRepositoryWithTx = (*PgxLoanRepository)(nil)

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var l domain.Loan
	err := row.Scan(
		&l.LoanID,
		&l.OrgID,
		&l.Name,
		&l.Principal,
		&l.AnnualRatePercent,
		&l.TermMonths,
		&l.PaymentAmount,
		&l.OutstandingBalance,
		&l.TotalPrincipalPaid,
		&l.TotalInterestPaid,
		&l.StartDate,
		&l.CurrencyCode,
		&l.LiabilityAccountID,
		&l.InterestAccountID,
		&l.Status,
		&l.CreatedAt,
		&l.CreatedBy,
		&l.LastUpdatedAt,
		&l.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// SaveLoan inserts a new loan.
func (r *PgxLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err := r.Pool.Exec(ctx, query,
		loan.LoanID,
		loan.OrgID,
		loan.Name,
		loan.Principal,
		loan.AnnualRatePercent,
		loan.TermMonths,
		loan.PaymentAmount,
		loan.OutstandingBalance,
		loan.TotalPrincipalPaid,
		loan.TotalInterestPaid,
		loan.StartDate,
		loan.CurrencyCode,
		loan.LiabilityAccountID,
		loan.InterestAccountID,
		loan.Status,
		loan.CreatedAt,
		loan.CreatedBy,
		loan.LastUpdatedAt,
		loan.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save loan %s: %w", loan.LoanID, err)
	}
	return nil
}

// FindLoanByID retrieves a loan by its ID.
func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1;`

	loan, err := scanLoan(r.Pool.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find loan by ID %s: %w", loanID, err)
	}
	return loan, nil
}

// ListLoans retrieves a paginated list of loans for an organization.
func (r *PgxLoanRepository) ListLoans(ctx context.Context, orgID string, limit int, offset int) ([]domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE org_id = $1
		ORDER BY start_date DESC, name
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans for organization %s: %w", orgID, err)
	}
	defer rows.Close()

	loans := make([]domain.Loan, 0, limit)
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan row: %w", err)
		}
		loans = append(loans, *loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loan rows: %w", err)
	}
	return loans, nil
}

// UpdateLoanPaymentInTx writes the outstanding balance and cumulative paid fields
// within the given transaction so they commit together with the journal entry.
// The update only lands if the stored outstanding balance still matches what the
// caller split the payment against; a concurrent payment that committed in between
// turns this into a conflict and the whole transaction rolls back.
func (r *PgxLoanRepository) UpdateLoanPaymentInTx(ctx context.Context, tx pgx.Tx, loan domain.Loan, expectedOutstanding decimal.Decimal) error {
	query := `
		UPDATE loans
		SET outstanding_balance = $2,
		    total_principal_paid = $3,
		    total_interest_paid = $4,
		    status = $5,
		    last_updated_at = $6,
		    last_updated_by = $7
		WHERE loan_id = $1 AND outstanding_balance = $8;
	`
	cmdTag, err := tx.Exec(ctx, query,
		loan.LoanID,
		loan.OutstandingBalance,
		loan.TotalPrincipalPaid,
		loan.TotalInterestPaid,
		loan.Status,
		loan.LastUpdatedAt,
		loan.LastUpdatedBy,
		expectedOutstanding,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment fields for loan %s: %w", loan.LoanID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: loan %s was modified concurrently", apperrors.ErrConcurrentModification, loan.LoanID)
	}
	return nil
}
