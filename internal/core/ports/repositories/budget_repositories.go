package repositories

import (
	"context"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
)

// BudgetReader defines read operations for budget data
type BudgetReader interface {
	// FindBudgetByID retrieves a budget and its line items.
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)

	// ListBudgets retrieves a paginated list of budgets for an organization.
	ListBudgets(ctx context.Context, orgID string, limit int, offset int) ([]domain.Budget, error)
}

// BudgetWriter defines write operations for budget data
type BudgetWriter interface {
	// SaveBudget persists a new budget with its line items.
	SaveBudget(ctx context.Context, budget domain.Budget) error

	// UpdateBudgetStatus transitions a budget between DRAFT, ACTIVE and CLOSED.
	UpdateBudgetStatus(ctx context.Context, budgetID string, status domain.BudgetStatus, userID string) error
}

// BudgetRepositoryFacade combines all budget-related repository interfaces
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
}
