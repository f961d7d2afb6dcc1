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

// organizationService manages tenant organizations, the scoping root for every
// other aggregate.
type organizationService struct {
	orgRepo     portsrepo.OrganizationRepositoryFacade
	currencySvc portssvc.CurrencySvcFacade
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo portsrepo.OrganizationRepositoryFacade, currencySvc portssvc.CurrencySvcFacade) portssvc.OrganizationSvcFacade {
	return &organizationService{
		orgRepo:     orgRepo,
		currencySvc: currencySvc,
	}
}

var _ portssvc.OrganizationSvcFacade = (*organizationService)(nil)

// CreateOrganization registers a new tenant.
func (s *organizationService) CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.currencySvc.GetCurrencyByCode(ctx, req.DefaultCurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown currency %s", apperrors.ErrValidation, req.DefaultCurrencyCode)
		}
		return nil, err
	}

	now := time.Now().UTC()
	org := domain.Organization{
		OrgID:               uuid.NewString(),
		Name:                req.Name,
		DefaultCurrencyCode: req.DefaultCurrencyCode,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.orgRepo.SaveOrganization(ctx, org); err != nil {
		logger.Error("Failed to save organization", slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("Organization created", slog.String("org_id", org.OrgID), slog.String("name", org.Name))
	return &org, nil
}

// GetOrganizationByID retrieves a single organization.
func (s *organizationService) GetOrganizationByID(ctx context.Context, orgID string) (*domain.Organization, error) {
	return s.orgRepo.FindOrganizationByID(ctx, orgID)
}

// ListOrganizations retrieves a paginated list of organizations.
func (s *organizationService) ListOrganizations(ctx context.Context, limit int, offset int) ([]domain.Organization, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.orgRepo.ListOrganizations(ctx, limit, offset)
}
