package services

import (
	"context"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
	"github.com/bizbooks/ledger-backend/internal/dto"
)

// BudgetSvcFacade exposes budget administration and variance analysis.
type BudgetSvcFacade interface {
	// CreateBudget registers a budget with its line items in DRAFT state.
	CreateBudget(ctx context.Context, orgID string, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error)

	// GetBudgetByID retrieves a budget with its line items.
	GetBudgetByID(ctx context.Context, orgID string, budgetID string) (*domain.Budget, error)

	// ListBudgets retrieves a paginated list of the organization's budgets.
	ListBudgets(ctx context.Context, orgID string, limit int, offset int) ([]domain.Budget, error)

	// SetBudgetStatus transitions a budget between DRAFT, ACTIVE and CLOSED.
	SetBudgetStatus(ctx context.Context, orgID string, budgetID string, status domain.BudgetStatus, userID string) (*domain.Budget, error)

	// Analyze computes budget-vs-actual variance from posted ledger activity.
	Analyze(ctx context.Context, orgID string, budgetID string) (*domain.VarianceReport, error)
}
