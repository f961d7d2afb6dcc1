package repositories

import (
	"context"
	"time"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
)

// FiscalPeriodReader defines read operations for fiscal period data
type FiscalPeriodReader interface {
	// FindPeriodByID retrieves a specific fiscal period.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)

	// FindPeriodForDate retrieves the fiscal period containing the given date, if any.
	// Returns apperrors.ErrNotFound when no period covers the date.
	FindPeriodForDate(ctx context.Context, orgID string, date time.Time) (*domain.FiscalPeriod, error)

	// ListPeriods retrieves all fiscal periods for an organization ordered by start date.
	ListPeriods(ctx context.Context, orgID string) ([]domain.FiscalPeriod, error)
}

// FiscalPeriodWriter defines write operations for fiscal period data
type FiscalPeriodWriter interface {
	// SavePeriod persists a new fiscal period.
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error

	// ClosePeriod marks a period CLOSED; postings dated inside it are rejected from then on.
	ClosePeriod(ctx context.Context, periodID string, userID string, now time.Time) error
}

// FiscalPeriodRepositoryFacade combines all fiscal-period repository interfaces
type FiscalPeriodRepositoryFacade interface {
	FiscalPeriodReader
	FiscalPeriodWriter
}
