package dto

import (
	"time"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBudgetLine is one budgeted amount for an account.
type CreateBudgetLine struct {
	AccountID      string          `json:"accountID" binding:"required"`
	BudgetedAmount decimal.Decimal `json:"budgetedAmount" binding:"required,gte=0"`
}

// CreateBudgetRequest defines the payload for creating a budget.
type CreateBudgetRequest struct {
	Name      string             `json:"name" binding:"required"`
	StartDate time.Time          `json:"startDate" binding:"required"`
	EndDate   time.Time          `json:"endDate" binding:"required"`
	Lines     []CreateBudgetLine `json:"lines" binding:"required,min=1,dive"`
}

// UpdateBudgetStatusRequest transitions a budget's lifecycle state.
type UpdateBudgetStatusRequest struct {
	Status domain.BudgetStatus `json:"status" binding:"required,oneof=DRAFT ACTIVE CLOSED"`
}

// BudgetLineResponse is one line of a budget.
type BudgetLineResponse struct {
	AccountID      string          `json:"accountID"`
	BudgetedAmount decimal.Decimal `json:"budgetedAmount"`
}

// BudgetResponse defines the data returned for a budget.
type BudgetResponse struct {
	BudgetID  string               `json:"budgetID"`
	Name      string               `json:"name"`
	StartDate time.Time            `json:"startDate"`
	EndDate   time.Time            `json:"endDate"`
	Status    string               `json:"status"`
	Lines     []BudgetLineResponse `json:"lines,omitempty"`
}

// ToBudgetResponse converts a domain.Budget to BudgetResponse DTO.
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	resp := BudgetResponse{
		BudgetID:  b.BudgetID,
		Name:      b.Name,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		Status:    string(b.Status),
	}
	for _, line := range b.Lines {
		resp.Lines = append(resp.Lines, BudgetLineResponse{
			AccountID:      line.AccountID,
			BudgetedAmount: line.BudgetedAmount,
		})
	}
	return resp
}

// ToBudgetResponses converts a slice of domain.Budget to []BudgetResponse.
func ToBudgetResponses(budgets []domain.Budget) []BudgetResponse {
	responses := make([]BudgetResponse, len(budgets))
	for i := range budgets {
		responses[i] = ToBudgetResponse(&budgets[i])
	}
	return responses
}
