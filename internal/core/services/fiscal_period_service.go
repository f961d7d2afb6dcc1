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
)

var (
	// ErrPeriodNotFound signals an unknown fiscal period id.
	ErrPeriodNotFound = fmt.Errorf("%w: fiscal period", apperrors.ErrNotFound)
	// ErrPeriodOverlap rejects a new period overlapping an existing one.
	ErrPeriodOverlap = fmt.Errorf("%w: fiscal period overlaps an existing period", apperrors.ErrConflict)
)

// fiscalPeriodService manages fiscal periods and answers the closed-period check
// the posting engine runs before accepting an entry date.
type fiscalPeriodService struct {
	periodRepo portsrepo.FiscalPeriodRepositoryFacade
}

// NewFiscalPeriodService creates a new FiscalPeriodService.
func NewFiscalPeriodService(periodRepo portsrepo.FiscalPeriodRepositoryFacade) portssvc.FiscalPeriodSvcFacade {
	return &fiscalPeriodService{periodRepo: periodRepo}
}

var _ portssvc.FiscalPeriodSvcFacade = (*fiscalPeriodService)(nil)

// CreatePeriod registers a new open fiscal period. Periods of one organization
// may not overlap.
func (s *fiscalPeriodService) CreatePeriod(ctx context.Context, orgID string, req dto.CreatePeriodRequest, creatorUserID string) (*domain.FiscalPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: period end date must be after start date", apperrors.ErrValidation)
	}

	existing, err := s.periodRepo.ListPeriods(ctx, orgID)
	if err != nil {
		return nil, err
	}
	for _, p := range existing {
		if !req.EndDate.Before(p.StartDate) && !req.StartDate.After(p.EndDate) {
			return nil, fmt.Errorf("%w: %s", ErrPeriodOverlap, p.Name)
		}
	}

	now := time.Now().UTC()
	period := domain.FiscalPeriod{
		PeriodID:  uuid.NewString(),
		OrgID:     orgID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    domain.PeriodOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		logger.Error("Failed to save fiscal period", slog.String("error", err.Error()), slog.String("org_id", orgID))
		return nil, err
	}
	logger.Info("Fiscal period created", slog.String("period_id", period.PeriodID), slog.String("name", period.Name))
	return &period, nil
}

// ListPeriods retrieves the organization's fiscal periods ordered by start date.
func (s *fiscalPeriodService) ListPeriods(ctx context.Context, orgID string) ([]domain.FiscalPeriod, error) {
	return s.periodRepo.ListPeriods(ctx, orgID)
}

// ClosePeriod marks a period CLOSED. Closing is one-way; postings dated inside
// the period are rejected from then on.
func (s *fiscalPeriodService) ClosePeriod(ctx context.Context, orgID string, periodID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: ID %s", ErrPeriodNotFound, periodID)
		}
		return err
	}
	if period.OrgID != orgID {
		return fmt.Errorf("%w: ID %s", ErrPeriodNotFound, periodID)
	}
	if period.Status == domain.PeriodClosed {
		return fmt.Errorf("%w: period %s is already closed", apperrors.ErrConflict, period.Name)
	}

	if err := s.periodRepo.ClosePeriod(ctx, periodID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to close fiscal period", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return err
	}
	logger.Info("Fiscal period closed", slog.String("period_id", periodID), slog.String("name", period.Name))
	return nil
}

// EnsureOpen returns ErrClosedPeriod if date falls in a closed period. Dates
// covered by no period at all are accepted; period setup is optional.
func (s *fiscalPeriodService) EnsureOpen(ctx context.Context, orgID string, date time.Time) error {
	period, err := s.periodRepo.FindPeriodForDate(ctx, orgID, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if period.Status == domain.PeriodClosed {
		return fmt.Errorf("%w: %s", ErrClosedPeriod, period.Name)
	}
	return nil
}
