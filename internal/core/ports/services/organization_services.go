package services

import (
	"context"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
	"github.com/bizbooks/ledger-backend/internal/dto"
)

// OrganizationSvcFacade exposes tenant organization administration.
type OrganizationSvcFacade interface {
	// CreateOrganization registers a new tenant.
	CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error)

	// GetOrganizationByID retrieves a single organization.
	GetOrganizationByID(ctx context.Context, orgID string) (*domain.Organization, error)

	// ListOrganizations retrieves a paginated list of organizations.
	ListOrganizations(ctx context.Context, limit int, offset int) ([]domain.Organization, error)
}
