package services

import (
	"context"
	"time"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
	"github.com/bizbooks/ledger-backend/internal/dto"
	"github.com/shopspring/decimal"
)

// JournalSvcFacade exposes the journal entry lifecycle: draft creation, validation,
// posting, reversal and ledger reads.
type JournalSvcFacade interface {
	EntryPoster

	// CreateEntry validates a candidate entry structurally and persists it as a draft.
	CreateEntry(ctx context.Context, orgID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// PostEntry validates a draft entry against accounts and fiscal periods and
	// atomically applies it to the ledger.
	PostEntry(ctx context.Context, orgID string, entryID string, userID string) (*domain.JournalEntry, error)

	// ReverseEntry creates, validates and posts the compensating entry for a posted
	// entry. The optional date defaults to now.
	ReverseEntry(ctx context.Context, orgID string, entryID string, date *time.Time, userID string) (*domain.JournalEntry, error)

	// UpdateEntry updates the date/description of a draft entry.
	UpdateEntry(ctx context.Context, orgID string, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error)

	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, orgID string, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries for the organization.
	ListEntries(ctx context.Context, orgID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// ListLinesByAccount retrieves a paginated list of an account's posted lines.
	ListLinesByAccount(ctx context.Context, orgID string, accountID string, params dto.ListLinesParams) (*dto.ListLinesResponse, error)
}

// EntryPoster is the narrow interface other services use to originate journal entries
// inside their own transactional boundaries.
type EntryPoster interface {
	// BuildPostedEntry validates candidate lines and returns the entry (lines attached)
	// and the signed balance deltas ready for SavePostedEntryInTx. Side-effect free.
	BuildPostedEntry(ctx context.Context, orgID string, date time.Time, description string, currencyCode string, lines []domain.JournalLine, userID string) (*domain.JournalEntry, map[string]decimal.Decimal, error)
}
