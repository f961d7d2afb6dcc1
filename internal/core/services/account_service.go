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

// ErrAccountHasBalance blocks deactivation of an account still carrying a balance.
var ErrAccountHasBalance = fmt.Errorf("%w: account balance must be zero before deactivation", apperrors.ErrConflict)

// accountService implements chart-of-accounts administration. Balance mutation is
// deliberately absent: only the posting engine writes balances.
type accountService struct {
	accountRepo   portsrepo.AccountRepositoryWithTx
	currencySvc   portssvc.CurrencySvcFacade
	reportingRepo portsrepo.ReportingRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryWithTx, currencySvc portssvc.CurrencySvcFacade, reportingRepo portsrepo.ReportingRepository) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:   accountRepo,
		currencySvc:   currencySvc,
		reportingRepo: reportingRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount registers a new ledger account with a zero balance.
func (s *accountService) CreateAccount(ctx context.Context, orgID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.AccountType.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %s", apperrors.ErrValidation, req.AccountType)
	}
	if _, err := s.currencySvc.GetCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown currency %s", apperrors.ErrValidation, req.CurrencyCode)
		}
		return nil, err
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:    uuid.NewString(),
		OrgID:        orgID,
		Code:         req.Code,
		Name:         req.Name,
		AccountType:  req.AccountType,
		CurrencyCode: req.CurrencyCode,
		Description:  req.Description,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("org_id", orgID))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves a single account scoped to the organization.
func (s *accountService) GetAccountByID(ctx context.Context, orgID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.OrgID != orgID {
		// Obscure existence across tenants.
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// GetAccountByIDs retrieves multiple accounts; accounts belonging to other
// organizations are omitted from the result, so callers see them as missing.
func (s *accountService) GetAccountByIDs(ctx context.Context, orgID string, accountIDs []string) (map[string]domain.Account, error) {
	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	for id, acc := range accountsMap {
		if acc.OrgID != orgID {
			delete(accountsMap, id)
		}
	}
	return accountsMap, nil
}

// ListAccounts retrieves a paginated list of the organization's accounts.
func (s *accountService) ListAccounts(ctx context.Context, orgID string, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.accountRepo.ListAccounts(ctx, orgID, limit, offset)
}

// UpdateAccount updates descriptive fields of an account.
func (s *accountService) UpdateAccount(ctx context.Context, orgID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, orgID, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		return nil, fmt.Errorf("failed to update account %s: %w", accountID, err)
	}
	return account, nil
}

// DeactivateAccount soft-deactivates an account. Accounts referenced by posted
// entries are never physically removed.
func (s *accountService) DeactivateAccount(ctx context.Context, orgID string, accountID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByID(ctx, orgID, accountID)
	if err != nil {
		return err
	}
	if !account.Balance.IsZero() {
		return ErrAccountHasBalance
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return err
	}
	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}

// ReconcileAccount recomputes the balance from posted entry history and reports
// drift against the stored running balance. The running balance is the hot path;
// this is the periodic consistency check against it.
func (s *accountService) ReconcileAccount(ctx context.Context, orgID string, accountID string) (*domain.ReconciliationResult, error) {
	account, err := s.GetAccountByID(ctx, orgID, accountID)
	if err != nil {
		return nil, err
	}

	totals, err := s.reportingRepo.GetAccountPostedTotals(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum posted activity for account %s: %w", accountID, err)
	}

	recomputed := totals.Debit.Sub(totals.Credit)
	if account.AccountType.NormalSide() == domain.CreditSide {
		recomputed = recomputed.Neg()
	}

	drift := account.Balance.Sub(recomputed)
	return &domain.ReconciliationResult{
		AccountID:         accountID,
		StoredBalance:     account.Balance,
		RecomputedBalance: recomputed,
		Drift:             drift,
		InSync:            drift.IsZero(),
	}, nil
}
