package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bizbooks/ledger-backend/internal/apperrors"
	"github.com/bizbooks/ledger-backend/internal/core/domain"
	portsrepo "github.com/bizbooks/ledger-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const budgetColumns = `budget_id, org_id, name, start_date, end_date, status, created_at, created_by, last_updated_at, last_updated_by`

type PgxBudgetRepository struct {
	BaseRepository
}

// newPgxBudgetRepository creates a new repository for budget data.
func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxBudgetRepository implements portsrepo.BudgetRepositoryFacade
var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var b domain.Budget
	err := row.Scan(
		&b.BudgetID,
		&b.OrgID,
		&b.Name,
		&b.StartDate,
		&b.EndDate,
		&b.Status,
		&b.CreatedAt,
		&b.CreatedBy,
		&b.LastUpdatedAt,
		&b.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// SaveBudget inserts a new budget and its line items in one transaction.
func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	budgetQuery := `
		INSERT INTO budgets (` + budgetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, budgetQuery,
		budget.BudgetID,
		budget.OrgID,
		budget.Name,
		budget.StartDate,
		budget.EndDate,
		budget.Status,
		budget.CreatedAt,
		budget.CreatedBy,
		budget.LastUpdatedAt,
		budget.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save budget %s: %w", budget.BudgetID, err)
	}

	lineQuery := `
		INSERT INTO budget_lines (budget_line_id, budget_id, account_id, budgeted_amount)
		VALUES ($1, $2, $3, $4);
	`
	batch := &pgx.Batch{}
	for _, line := range budget.Lines {
		batch.Queue(lineQuery, line.BudgetLineID, line.BudgetID, line.AccountID, line.BudgetedAmount)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert budget lines for budget %s: %w", budget.BudgetID, err)
	}

	return r.Commit(ctx, tx)
}

// FindBudgetByID retrieves a budget and its line items.
func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE budget_id = $1;`

	budget, err := scanBudget(r.Pool.QueryRow(ctx, query, budgetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find budget by ID %s: %w", budgetID, err)
	}

	lineQuery := `
		SELECT budget_line_id, budget_id, account_id, budgeted_amount
		FROM budget_lines
		WHERE budget_id = $1
		ORDER BY account_id;
	`
	rows, err := r.Pool.Query(ctx, lineQuery, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for budget %s: %w", budgetID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.BudgetLine
		if err := rows.Scan(&line.BudgetLineID, &line.BudgetID, &line.AccountID, &line.BudgetedAmount); err != nil {
			return nil, fmt.Errorf("failed to scan budget line row for budget %s: %w", budgetID, err)
		}
		budget.Lines = append(budget.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budget line rows for budget %s: %w", budgetID, err)
	}
	return budget, nil
}

// ListBudgets retrieves a paginated list of budgets without their line items.
func (r *PgxBudgetRepository) ListBudgets(ctx context.Context, orgID string, limit int, offset int) ([]domain.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE org_id = $1
		ORDER BY start_date DESC, name
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets for organization %s: %w", orgID, err)
	}
	defer rows.Close()

	budgets := make([]domain.Budget, 0, limit)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget row: %w", err)
		}
		budgets = append(budgets, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budget rows: %w", err)
	}
	return budgets, nil
}

// UpdateBudgetStatus transitions a budget's lifecycle state.
func (r *PgxBudgetRepository) UpdateBudgetStatus(ctx context.Context, budgetID string, status domain.BudgetStatus, userID string) error {
	query := `
		UPDATE budgets
		SET status = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE budget_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, budgetID, status, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update budget %s status: %w", budgetID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
