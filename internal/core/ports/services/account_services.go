package services

import (
	"context"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
	"github.com/bizbooks/ledger-backend/internal/dto"
)

// AccountSvcFacade exposes chart-of-accounts administration and reads.
type AccountSvcFacade interface {
	// CreateAccount registers a new ledger account.
	CreateAccount(ctx context.Context, orgID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// GetAccountByID retrieves a single account scoped to the organization.
	GetAccountByID(ctx context.Context, orgID string, accountID string) (*domain.Account, error)

	// GetAccountByIDs retrieves multiple accounts scoped to the organization.
	GetAccountByIDs(ctx context.Context, orgID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated list of the organization's accounts.
	ListAccounts(ctx context.Context, orgID string, limit int, offset int) ([]domain.Account, error)

	// UpdateAccount updates descriptive fields of an account.
	UpdateAccount(ctx context.Context, orgID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount soft-deactivates an account. Accounts with posted history are
	// never deleted; a non-zero balance blocks deactivation.
	DeactivateAccount(ctx context.Context, orgID string, accountID string, userID string) error

	// ReconcileAccount recomputes the account balance from posted entry history and
	// reports any drift against the stored running balance.
	ReconcileAccount(ctx context.Context, orgID string, accountID string) (*domain.ReconciliationResult, error)
}
