package repositories

import (
	"context"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// OrganizationReader defines read operations for organization data
type OrganizationReader interface {
	// FindOrganizationByID retrieves a specific organization.
	FindOrganizationByID(ctx context.Context, orgID string) (*domain.Organization, error)

	// ListOrganizations retrieves a paginated list of organizations.
	ListOrganizations(ctx context.Context, limit int, offset int) ([]domain.Organization, error)
}

// OrganizationWriter defines write operations for organization data
type OrganizationWriter interface {
	// SaveOrganization persists a new organization.
	SaveOrganization(ctx context.Context, org domain.Organization) error

	// NextEntryNumberInTx allocates the next journal entry sequence number for the
	// organization within the given transaction. The org row update serializes
	// concurrent allocations.
	NextEntryNumberInTx(ctx context.Context, tx pgx.Tx, orgID string) (int64, error)
}

// OrganizationRepositoryFacade combines all organization repository interfaces
type OrganizationRepositoryFacade interface {
	OrganizationReader
	OrganizationWriter
}
