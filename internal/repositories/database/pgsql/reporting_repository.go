package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
	portsrepo "github.com/bizbooks/ledger-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for read-only reporting queries.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxReportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetTrialBalanceData retrieves per-account posted debit/credit totals as of a date.
// Entries still in DRAFT are excluded by the status filter; REVERSED originals and
// their reversals both count, which is what makes the reversal pair net to zero.
func (r *PgxReportingRepository) GetTrialBalanceData(ctx context.Context, orgID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.name, a.account_type,
		       COALESCE(SUM(l.debit), 0) AS total_debit,
		       COALESCE(SUM(l.credit), 0) AS total_credit
		FROM accounts a
		LEFT JOIN journal_lines l ON l.account_id = a.account_id
		LEFT JOIN journal_entries e ON e.entry_id = l.entry_id
			AND e.status IN ('POSTED', 'REVERSED')
			AND e.entry_date <= $2
		WHERE a.org_id = $1
		GROUP BY a.account_id, a.name, a.account_type
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, orgID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance for organization %s: %w", orgID, err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		if err := rows.Scan(&row.AccountID, &row.AccountName, &row.AccountType, &row.Debit, &row.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}
	return result, nil
}

// GetPostedActivity sums posted line activity per account within [from, to].
func (r *PgxReportingRepository) GetPostedActivity(ctx context.Context, orgID string, accountIDs []string, from, to time.Time) (map[string]domain.AccountActivity, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.AccountActivity{}, nil
	}

	query := `
		SELECT l.account_id,
		       COALESCE(SUM(l.debit), 0) AS total_debit,
		       COALESCE(SUM(l.credit), 0) AS total_credit
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.org_id = $1
		  AND l.account_id = ANY($2)
		  AND e.status IN ('POSTED', 'REVERSED')
		  AND e.entry_date >= $3 AND e.entry_date <= $4
		GROUP BY l.account_id;
	`
	rows, err := r.Pool.Query(ctx, query, orgID, accountIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query posted activity for organization %s: %w", orgID, err)
	}
	defer rows.Close()

	activity := make(map[string]domain.AccountActivity, len(accountIDs))
	for rows.Next() {
		var a domain.AccountActivity
		if err := rows.Scan(&a.AccountID, &a.Debit, &a.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan posted activity row: %w", err)
		}
		activity[a.AccountID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posted activity rows: %w", err)
	}
	return activity, nil
}

// GetAccountPostedTotals sums all posted line activity for one account.
func (r *PgxReportingRepository) GetAccountPostedTotals(ctx context.Context, accountID string) (domain.AccountActivity, error) {
	query := `
		SELECT COALESCE(SUM(l.debit), 0) AS total_debit,
		       COALESCE(SUM(l.credit), 0) AS total_credit
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1 AND e.status IN ('POSTED', 'REVERSED');
	`
	activity := domain.AccountActivity{AccountID: accountID, Debit: decimal.Zero, Credit: decimal.Zero}
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&activity.Debit, &activity.Credit); err != nil {
		return domain.AccountActivity{}, fmt.Errorf("failed to sum posted totals for account %s: %w", accountID, err)
	}
	return activity, nil
}
