package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/bizbooks/ledger-backend/internal/apperrors"
	"github.com/bizbooks/ledger-backend/internal/core/domain"
	portsrepo "github.com/bizbooks/ledger-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const organizationColumns = `org_id, name, default_currency_code, entry_seq, created_at, created_by, last_updated_at, last_updated_by`

type PgxOrganizationRepository struct {
	BaseRepository
}

// newPgxOrganizationRepository creates a new repository for organization data.
func newPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepositoryFacade {
	return &PgxOrganizationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxOrganizationRepository implements portsrepo.OrganizationRepositoryFacade
var _ portsrepo.OrganizationRepositoryFacade = (*PgxOrganizationRepository)(nil)

func scanOrganization(row pgx.Row) (*domain.Organization, error) {
	var o domain.Organization
	err := row.Scan(
		&o.OrgID,
		&o.Name,
		&o.DefaultCurrencyCode,
		&o.EntrySeq,
		&o.CreatedAt,
		&o.CreatedBy,
		&o.LastUpdatedAt,
		&o.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// SaveOrganization inserts a new organization with its entry sequence at zero.
func (r *PgxOrganizationRepository) SaveOrganization(ctx context.Context, org domain.Organization) error {
	query := `
		INSERT INTO organizations (` + organizationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		org.OrgID,
		org.Name,
		org.DefaultCurrencyCode,
		org.EntrySeq,
		org.CreatedAt,
		org.CreatedBy,
		org.LastUpdatedAt,
		org.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save organization %s: %w", org.OrgID, err)
	}
	return nil
}

// FindOrganizationByID retrieves an organization by its ID.
func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, orgID string) (*domain.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE org_id = $1;`

	org, err := scanOrganization(r.Pool.QueryRow(ctx, query, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find organization by ID %s: %w", orgID, err)
	}
	return org, nil
}

// ListOrganizations retrieves a paginated list of organizations.
func (r *PgxOrganizationRepository) ListOrganizations(ctx context.Context, limit int, offset int) ([]domain.Organization, error) {
	query := `
		SELECT ` + organizationColumns + `
		FROM organizations
		ORDER BY name
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	orgs := make([]domain.Organization, 0, limit)
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organization row: %w", err)
		}
		orgs = append(orgs, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating organization rows: %w", err)
	}
	return orgs, nil
}

// NextEntryNumberInTx allocates the next journal entry sequence number for the
// organization. The row update serializes concurrent allocations for one org, so
// entry numbers are gap-free per tenant under concurrent postings.
func (r *PgxOrganizationRepository) NextEntryNumberInTx(ctx context.Context, tx pgx.Tx, orgID string) (int64, error) {
	query := `
		UPDATE organizations
		SET entry_seq = entry_seq + 1
		WHERE org_id = $1
		RETURNING entry_seq;
	`
	var seq int64
	if err := tx.QueryRow(ctx, query, orgID).Scan(&seq); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: organization %s", apperrors.ErrNotFound, orgID)
		}
		return 0, fmt.Errorf("failed to allocate entry number for organization %s: %w", orgID, err)
	}
	return seq, nil
}
