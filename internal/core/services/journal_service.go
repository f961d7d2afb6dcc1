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
	"github.com/bizbooks/ledger-backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidEntry rejects an entry that fails structural or accounting-rule checks.
	ErrInvalidEntry = fmt.Errorf("%w: invalid journal entry", apperrors.ErrValidation)
	// ErrClosedPeriod rejects an entry dated inside a closed fiscal period.
	ErrClosedPeriod = fmt.Errorf("%w: entry date falls in a closed fiscal period", apperrors.ErrValidation)
	// ErrCurrencyMismatch rejects a line whose account currency differs from the entry's.
	ErrCurrencyMismatch = fmt.Errorf("%w: account currency does not match entry currency", apperrors.ErrValidation)
	// ErrAccountNotFound signals a line referencing an unknown account.
	ErrAccountNotFound = fmt.Errorf("%w: account", apperrors.ErrNotFound)
	// ErrEntryNotFound signals an unknown entry id.
	ErrEntryNotFound = fmt.Errorf("%w: journal entry", apperrors.ErrNotFound)
	// ErrAlreadyPosted signals an attempt to post an entry a second time.
	ErrAlreadyPosted = fmt.Errorf("%w: entry is already posted", apperrors.ErrConflict)
	// ErrImmutableEntry signals an attempt to modify a posted entry.
	ErrImmutableEntry = fmt.Errorf("%w: posted entries are immutable", apperrors.ErrConflict)
	// ErrAlreadyReversed signals an attempt to reverse an entry twice.
	ErrAlreadyReversed = fmt.Errorf("%w: entry is already reversed", apperrors.ErrConflict)
	// ErrNotPosted signals a reversal attempt on an entry that was never posted.
	ErrNotPosted = fmt.Errorf("%w: only posted entries can be reversed", apperrors.ErrConflict)
)

// journalService implements the journal entry lifecycle: draft creation, validation,
// posting and reversal.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryWithTx
	accountSvc  portssvc.AccountSvcFacade
	currencySvc portssvc.CurrencySvcFacade
	periodSvc   portssvc.FiscalPeriodSvcFacade
}

// NewJournalService creates a new JournalService.
func NewJournalService(
	journalRepo portsrepo.JournalRepositoryWithTx,
	accountSvc portssvc.AccountSvcFacade,
	currencySvc portssvc.CurrencySvcFacade,
	periodSvc portssvc.FiscalPeriodSvcFacade,
) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
		currencySvc: currencySvc,
		periodSvc:   periodSvc,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)
var _ portssvc.EntryPoster = (*journalService)(nil)

// currencyPrecision resolves the rounding precision for an entry's currency.
func (s *journalService) currencyPrecision(ctx context.Context, currencyCode string) (int32, error) {
	currency, err := s.currencySvc.GetCurrencyByCode(ctx, currencyCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return 0, fmt.Errorf("%w: unknown currency %s", apperrors.ErrValidation, currencyCode)
		}
		return 0, err
	}
	return currency.Precision, nil
}

// validateForPosting runs the full validator: structural line checks, account
// existence/activity/currency, and the closed-period rule. It is side-effect free
// and returns the net signed balance deltas the posting engine will apply.
func (s *journalService) validateForPosting(ctx context.Context, orgID string, entryDate time.Time, currencyCode string, lines []domain.JournalLine) (map[string]decimal.Decimal, error) {
	precision, err := s.currencyPrecision(ctx, currencyCode)
	if err != nil {
		return nil, err
	}
	if err := accounting.ValidateLines(lines, precision); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEntry, err.Error())
	}

	accountIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	accountsMap, err := s.accountSvc.GetAccountByIDs(ctx, orgID, uniqueStrings(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	accountTypes := make(map[string]domain.AccountType, len(accountsMap))
	for _, id := range uniqueStrings(accountIDs) {
		acc, found := accountsMap[id]
		if !found {
			return nil, fmt.Errorf("%w: ID %s", ErrAccountNotFound, id)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", ErrInvalidEntry, id)
		}
		if acc.CurrencyCode != currencyCode {
			return nil, fmt.Errorf("%w: account %s is denominated in %s", ErrCurrencyMismatch, id, acc.CurrencyCode)
		}
		accountTypes[id] = acc.AccountType
	}

	if err := s.periodSvc.EnsureOpen(ctx, orgID, entryDate); err != nil {
		return nil, err
	}

	balanceChanges, err := accounting.BalanceChanges(lines, accountTypes)
	if err != nil {
		return nil, fmt.Errorf("internal error calculating balance changes: %w", err)
	}
	return balanceChanges, nil
}

// CreateEntry validates a candidate entry and persists it as a draft. No balances move.
func (s *journalService) CreateEntry(ctx context.Context, orgID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidEntry)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	lines := make([]domain.JournalLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   lineReq.AccountID,
			Debit:       lineReq.Debit,
			Credit:      lineReq.Credit,
			Notes:       lineReq.Notes,
			AuditFields: audit,
		}
	}

	// Run the full validator up front so a draft that can never post is rejected
	// at creation time rather than surprising the caller later.
	if _, err := s.validateForPosting(ctx, orgID, req.Date, req.CurrencyCode, lines); err != nil {
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryID:      entryID,
		OrgID:        orgID,
		EntryDate:    req.Date,
		Description:  req.Description,
		CurrencyCode: req.CurrencyCode,
		Status:       domain.Draft,
		Amount:       accounting.EntryAmount(lines),
		AuditFields:  audit,
	}

	if err := s.journalRepo.SaveDraftEntry(ctx, entry, lines); err != nil {
		logger.Error("Failed to save draft entry", slog.String("error", err.Error()), slog.String("org_id", orgID))
		return nil, fmt.Errorf("failed to save draft entry: %w", err)
	}

	logger.Info("Draft entry created", slog.String("entry_id", entryID), slog.String("org_id", orgID))
	entry.Lines = lines
	return &entry, nil
}

// PostEntry validates a draft entry and atomically applies it to the ledger.
func (s *journalService) PostEntry(ctx context.Context, orgID string, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.loadEntryForOrg(ctx, orgID, entryID)
	if err != nil {
		return nil, err
	}
	switch entry.Status {
	case domain.Draft:
		// proceed
	case domain.Posted, domain.Reversed:
		return nil, ErrAlreadyPosted
	default:
		return nil, fmt.Errorf("%w: entry status is %s", apperrors.ErrConflict, entry.Status)
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines

	// Revalidate at post time: accounts may have been deactivated or the fiscal
	// period closed since the draft was created.
	balanceChanges, err := s.validateForPosting(ctx, orgID, entry.EntryDate, entry.CurrencyCode, lines)
	if err != nil {
		return nil, err
	}

	entry.LastUpdatedAt = time.Now().UTC()
	entry.LastUpdatedBy = userID

	posted, err := s.journalRepo.PostEntry(ctx, *entry, balanceChanges)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// The draft row was gone by the time the engine flipped it: a concurrent
			// post won. The retried request is a no-op.
			return nil, ErrAlreadyPosted
		}
		logger.Error("Failed to post entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to post entry: %w", err)
	}

	logger.Info("Entry posted", slog.String("entry_id", entryID), slog.String("entry_number", posted.EntryNumber))
	return posted, nil
}

// UpdateEntry updates the date/description of an entry still in draft.
func (s *journalService) UpdateEntry(ctx context.Context, orgID string, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.loadEntryForOrg(ctx, orgID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Draft {
		return nil, ErrImmutableEntry
	}

	updated := false
	if req.Date != nil {
		entry.EntryDate = *req.Date
		updated = true
	}
	if req.Description != nil {
		entry.Description = *req.Description
		updated = true
	}
	if !updated {
		return entry, nil
	}

	entry.LastUpdatedAt = time.Now().UTC()
	entry.LastUpdatedBy = userID

	if err := s.journalRepo.UpdateDraftEntry(ctx, *entry); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrImmutableEntry
		}
		logger.Error("Failed to update draft entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update draft entry: %w", err)
	}
	return entry, nil
}

// ReverseEntry creates and posts the compensating entry for a posted entry.
// The original is never mutated beyond its status and reversal link.
func (s *journalService) ReverseEntry(ctx context.Context, orgID string, entryID string, date *time.Time, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.loadEntryForOrg(ctx, orgID, entryID)
	if err != nil {
		return nil, err
	}
	if original.Status == domain.Reversed || original.ReversingEntryID != nil {
		return nil, ErrAlreadyReversed
	}
	if original.Status != domain.Posted {
		return nil, ErrNotPosted
	}
	if original.OriginalEntryID != nil {
		return nil, fmt.Errorf("%w: cannot reverse an entry that is itself a reversal", apperrors.ErrConflict)
	}

	originalLines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}

	reversalDate := time.Now().UTC()
	if date != nil {
		reversalDate = *date
	}

	now := time.Now().UTC()
	reversalID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	// Mirror every line: debit and credit swap sides, amounts are untouched.
	reversalLines := make([]domain.JournalLine, len(originalLines))
	for i, origLine := range originalLines {
		reversalLines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     reversalID,
			AccountID:   origLine.AccountID,
			Debit:       origLine.Credit,
			Credit:      origLine.Debit,
			Notes:       origLine.Notes,
			AuditFields: audit,
		}
	}

	balanceChanges, err := s.validateForPosting(ctx, orgID, reversalDate, original.CurrencyCode, reversalLines)
	if err != nil {
		return nil, err
	}

	reversal := domain.JournalEntry{
		EntryID:         reversalID,
		OrgID:           orgID,
		EntryDate:       reversalDate,
		Description:     fmt.Sprintf("Reversal of %s", original.Description),
		CurrencyCode:    original.CurrencyCode,
		Status:          domain.Posted,
		OriginalEntryID: &original.EntryID,
		Amount:          original.Amount,
		AuditFields:     audit,
		Lines:           reversalLines,
	}

	saved, err := s.journalRepo.SaveReversal(ctx, *original, reversal, balanceChanges)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// A concurrent reversal linked the original first.
			return nil, ErrAlreadyReversed
		}
		logger.Error("Failed to save reversal", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to save reversal: %w", err)
	}

	logger.Info("Entry reversed", slog.String("entry_id", entryID), slog.String("reversal_id", reversalID))
	return saved, nil
}

// BuildPostedEntry validates candidate lines and assembles an entry ready to be
// persisted as POSTED inside a caller-owned transaction. Implements EntryPoster.
func (s *journalService) BuildPostedEntry(ctx context.Context, orgID string, date time.Time, description string, currencyCode string, lines []domain.JournalLine, userID string) (*domain.JournalEntry, map[string]decimal.Decimal, error) {
	if description == "" {
		return nil, nil, fmt.Errorf("%w: description is required", ErrInvalidEntry)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
	for i := range lines {
		lines[i].LineID = uuid.NewString()
		lines[i].EntryID = entryID
		lines[i].AuditFields = audit
	}

	balanceChanges, err := s.validateForPosting(ctx, orgID, date, currencyCode, lines)
	if err != nil {
		return nil, nil, err
	}

	entry := domain.JournalEntry{
		EntryID:      entryID,
		OrgID:        orgID,
		EntryDate:    date,
		Description:  description,
		CurrencyCode: currencyCode,
		Status:       domain.Posted,
		Amount:       accounting.EntryAmount(lines),
		AuditFields:  audit,
		Lines:        lines,
	}
	return &entry, balanceChanges, nil
}

// GetEntryByID retrieves an entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, orgID string, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.loadEntryForOrg(ctx, orgID, entryID)
	if err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a paginated list of entries for the organization.
func (s *journalService) ListEntries(ctx context.Context, orgID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.journalRepo.ListEntriesByOrg(ctx, orgID, limit, params.NextToken, params.IncludeReversals)
	if err != nil {
		logger.Error("Failed to list entries", slog.String("error", err.Error()), slog.String("org_id", orgID))
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	responses := make([]dto.EntryResponse, len(entries))
	for i := range entries {
		if params.IncludeLines {
			lines, err := s.journalRepo.FindLinesByEntryID(ctx, entries[i].EntryID)
			if err != nil {
				logger.Warn("Failed to fetch lines for entry", slog.String("entry_id", entries[i].EntryID), slog.String("error", err.Error()))
			} else {
				entries[i].Lines = lines
			}
		}
		responses[i] = dto.ToEntryResponse(&entries[i])
	}

	return &dto.ListEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}

// ListLinesByAccount retrieves a paginated list of an account's posted lines.
func (s *journalService) ListLinesByAccount(ctx context.Context, orgID string, accountID string, params dto.ListLinesParams) (*dto.ListLinesResponse, error) {
	if _, err := s.accountSvc.GetAccountByID(ctx, orgID, accountID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	lines, nextToken, err := s.journalRepo.ListLinesByAccountID(ctx, orgID, accountID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines: %w", err)
	}
	return &dto.ListLinesResponse{Lines: dto.ToLineResponses(lines), NextToken: nextToken}, nil
}

// loadEntryForOrg fetches an entry and hides entries belonging to other organizations.
func (s *journalService) loadEntryForOrg(ctx context.Context, orgID string, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %s", ErrEntryNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.OrgID != orgID {
		// Obscure existence across tenants.
		return nil, fmt.Errorf("%w: ID %s", ErrEntryNotFound, entryID)
	}
	return entry, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
