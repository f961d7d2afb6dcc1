package repositories

import (
	"context"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// EntryReader defines read operations for journal entry data
type EntryReader interface {
	// FindEntryByID retrieves a specific entry by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines associated with a single entry ID.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// ListEntriesByOrg retrieves a paginated list of entries for a given organization
	// using token-based pagination. It returns the entries, a token for the next page,
	// and an error.
	ListEntriesByOrg(ctx context.Context, orgID string, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error)

	// ListLinesByAccountID retrieves a paginated list of posted lines for a specific account.
	ListLinesByAccountID(ctx context.Context, orgID, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error)
}

// EntryWriter defines write operations for journal entry data
type EntryWriter interface {
	// SaveDraftEntry persists a new draft entry and its lines. No balances move.
	SaveDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error

	// UpdateDraftEntry updates the date/description of an entry still in draft.
	// Returns apperrors.ErrConflict if the entry is no longer draft.
	UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry) error

	// PostEntry atomically flips a draft entry to POSTED, allocates its entry number,
	// locks the touched accounts, applies the balance deltas and stamps per-line
	// running balances. A second post of the same entry matches no draft row and
	// returns apperrors.ErrConflict without touching balances.
	PostEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (*domain.JournalEntry, error)

	// SaveReversal persists an already-balanced reversing entry as POSTED, applies its
	// balance deltas and links/marks the original entry REVERSED, all in one transaction.
	SaveReversal(ctx context.Context, original domain.JournalEntry, reversal domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (*domain.JournalEntry, error)

	// SavePostedEntryInTx persists a new entry directly in POSTED state within the given
	// transaction, applying balance deltas and allocating the entry number. Used by flows
	// that must commit an entry together with another document update.
	SavePostedEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (*domain.JournalEntry, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	EntryReader
	EntryWriter
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
