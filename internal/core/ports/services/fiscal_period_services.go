package services

import (
	"context"
	"time"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
	"github.com/bizbooks/ledger-backend/internal/dto"
)

// FiscalPeriodSvcFacade exposes fiscal period administration and the closed-period check.
type FiscalPeriodSvcFacade interface {
	// CreatePeriod registers a new open fiscal period.
	CreatePeriod(ctx context.Context, orgID string, req dto.CreatePeriodRequest, creatorUserID string) (*domain.FiscalPeriod, error)

	// ListPeriods retrieves the organization's fiscal periods.
	ListPeriods(ctx context.Context, orgID string) ([]domain.FiscalPeriod, error)

	// ClosePeriod marks a period CLOSED.
	ClosePeriod(ctx context.Context, orgID string, periodID string, userID string) error

	// EnsureOpen returns an error if the given date falls in a closed period.
	// Dates covered by no period at all are accepted.
	EnsureOpen(ctx context.Context, orgID string, date time.Time) error
}
