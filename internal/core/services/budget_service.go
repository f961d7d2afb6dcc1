package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bizbooks/ledger-backend/internal/apperrors"
	"github.com/bizbooks/ledger-backend/internal/core/domain"
	portsrepo "github.com/bizbooks/ledger-backend/internal/core/ports/repositories"
	portssvc "github.com/bizbooks/ledger-backend/internal/core/ports/services"
	"github.com/bizbooks/ledger-backend/internal/dto"
	"github.com/bizbooks/ledger-backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// ErrBudgetNotFound signals an unknown budget id.
var ErrBudgetNotFound = fmt.Errorf("%w: budget", apperrors.ErrNotFound)

var percentFactor = decimal.NewFromInt(100)

// budgetService manages budgets and computes budget-vs-actual variance from
// posted ledger activity. Variance is always computed on demand, never stored.
type budgetService struct {
	budgetRepo    portsrepo.BudgetRepositoryFacade
	reportingRepo portsrepo.ReportingRepository
	accountSvc    portssvc.AccountSvcFacade
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(budgetRepo portsrepo.BudgetRepositoryFacade, reportingRepo portsrepo.ReportingRepository, accountSvc portssvc.AccountSvcFacade) portssvc.BudgetSvcFacade {
	return &budgetService{
		budgetRepo:    budgetRepo,
		reportingRepo: reportingRepo,
		accountSvc:    accountSvc,
	}
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

// CreateBudget registers a budget with its line items in DRAFT state.
func (s *budgetService) CreateBudget(ctx context.Context, orgID string, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: budget end date must be after start date", apperrors.ErrValidation)
	}

	accountIDs := make([]string, 0, len(req.Lines))
	seen := make(map[string]bool, len(req.Lines))
	for _, line := range req.Lines {
		if line.BudgetedAmount.IsNegative() {
			return nil, fmt.Errorf("%w: budgeted amount for account %s is negative", apperrors.ErrValidation, line.AccountID)
		}
		if seen[line.AccountID] {
			return nil, fmt.Errorf("%w: duplicate budget line for account %s", apperrors.ErrValidation, line.AccountID)
		}
		seen[line.AccountID] = true
		accountIDs = append(accountIDs, line.AccountID)
	}

	accounts, err := s.accountSvc.GetAccountByIDs(ctx, orgID, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range accountIDs {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("%w: ID %s", ErrAccountNotFound, id)
		}
	}

	now := time.Now().UTC()
	budgetID := uuid.NewString()
	budget := domain.Budget{
		BudgetID:  budgetID,
		OrgID:     orgID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    domain.BudgetDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	for _, line := range req.Lines {
		budget.Lines = append(budget.Lines, domain.BudgetLine{
			BudgetLineID:   uuid.NewString(),
			BudgetID:       budgetID,
			AccountID:      line.AccountID,
			BudgetedAmount: line.BudgetedAmount,
		})
	}

	if err := s.budgetRepo.SaveBudget(ctx, budget); err != nil {
		logger.Error("Failed to save budget", slog.String("error", err.Error()), slog.String("org_id", orgID))
		return nil, err
	}
	logger.Info("Budget created", slog.String("budget_id", budgetID), slog.Int("lines", len(budget.Lines)))
	return &budget, nil
}

// GetBudgetByID retrieves a budget with its line items scoped to the organization.
func (s *budgetService) GetBudgetByID(ctx context.Context, orgID string, budgetID string) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %s", ErrBudgetNotFound, budgetID)
		}
		return nil, err
	}
	if budget.OrgID != orgID {
		return nil, fmt.Errorf("%w: ID %s", ErrBudgetNotFound, budgetID)
	}
	return budget, nil
}

// ListBudgets retrieves a paginated list of the organization's budgets.
func (s *budgetService) ListBudgets(ctx context.Context, orgID string, limit int, offset int) ([]domain.Budget, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.budgetRepo.ListBudgets(ctx, orgID, limit, offset)
}

// SetBudgetStatus transitions a budget's lifecycle state. Closed budgets stay
// readable for analysis but accept no further transitions.
func (s *budgetService) SetBudgetStatus(ctx context.Context, orgID string, budgetID string, status domain.BudgetStatus, userID string) (*domain.Budget, error) {
	budget, err := s.GetBudgetByID(ctx, orgID, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.Status == domain.BudgetClosed {
		return nil, fmt.Errorf("%w: budget is closed", apperrors.ErrConflict)
	}
	if budget.Status == status {
		return budget, nil
	}

	if err := s.budgetRepo.UpdateBudgetStatus(ctx, budgetID, status, userID); err != nil {
		return nil, fmt.Errorf("failed to update budget %s status: %w", budgetID, err)
	}
	budget.Status = status
	return budget, nil
}

// Analyze computes budget-vs-actual variance for every budget line from posted
// ledger activity within the budget window. Actual amounts are signed by the
// account's normal balance side, so overspending on an expense shows as a
// positive actual consumed against budget. Draft entries never contribute.
func (s *budgetService) Analyze(ctx context.Context, orgID string, budgetID string) (*domain.VarianceReport, error) {
	budget, err := s.GetBudgetByID(ctx, orgID, budgetID)
	if err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0, len(budget.Lines))
	for _, line := range budget.Lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	accounts, err := s.accountSvc.GetAccountByIDs(ctx, orgID, accountIDs)
	if err != nil {
		return nil, err
	}
	activity, err := s.reportingRepo.GetPostedActivity(ctx, orgID, accountIDs, budget.StartDate, budget.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to sum posted activity for budget %s: %w", budgetID, err)
	}

	report := &domain.VarianceReport{
		BudgetID:      budget.BudgetID,
		BudgetName:    budget.Name,
		StartDate:     budget.StartDate,
		EndDate:       budget.EndDate,
		TotalBudgeted: decimal.Zero,
		TotalActual:   decimal.Zero,
		TotalVariance: decimal.Zero,
		Lines:         make([]domain.VarianceLine, 0, len(budget.Lines)),
	}

	for _, line := range budget.Lines {
		account, ok := accounts[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: ID %s", ErrAccountNotFound, line.AccountID)
		}

		actual := decimal.Zero
		if act, ok := activity[line.AccountID]; ok {
			actual = act.Debit.Sub(act.Credit)
			if account.AccountType.NormalSide() == domain.CreditSide {
				actual = actual.Neg()
			}
		}

		variance := line.BudgetedAmount.Sub(actual)
		percent := decimal.Zero
		if !line.BudgetedAmount.IsZero() {
			percent = variance.Div(line.BudgetedAmount).Mul(percentFactor).Round(2)
		}

		report.Lines = append(report.Lines, domain.VarianceLine{
			AccountID:       line.AccountID,
			AccountName:     account.Name,
			AccountType:     account.AccountType,
			BudgetedAmount:  line.BudgetedAmount,
			ActualAmount:    actual,
			Variance:        variance,
			VariancePercent: percent,
			Favorable:       !variance.IsNegative(),
		})

		report.TotalBudgeted = report.TotalBudgeted.Add(line.BudgetedAmount)
		report.TotalActual = report.TotalActual.Add(actual)
		report.TotalVariance = report.TotalVariance.Add(variance)
	}

	return report, nil
}
