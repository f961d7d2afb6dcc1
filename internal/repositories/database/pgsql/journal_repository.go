package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/bizbooks/ledger-backend/internal/apperrors"
	"github.com/bizbooks/ledger-backend/internal/core/domain"
	portsrepo "github.com/bizbooks/ledger-backend/internal/core/ports/repositories"
	"github.com/bizbooks/ledger-backend/internal/models"
	"github.com/bizbooks/ledger-backend/internal/utils/accounting"
	"github.com/bizbooks/ledger-backend/internal/utils/mapping"
	"github.com/bizbooks/ledger-backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const entryColumns = `entry_id, org_id, entry_number, entry_date, description, currency_code, status, original_entry_id, reversing_entry_id, amount, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, debit, credit, notes, running_balance, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
	orgRepo     portsrepo.OrganizationRepositoryFacade
}

// newPgxJournalRepository creates a new repository for journal entry and line data.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade, orgRepo portsrepo.OrganizationRepositoryFacade) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
		orgRepo:        orgRepo,
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (*models.JournalEntry, error) {
	var m models.JournalEntry
	var entryNumber sql.NullString
	var originalID sql.NullString
	var reversingID sql.NullString

	err := row.Scan(
		&m.EntryID,
		&m.OrgID,
		&entryNumber,
		&m.EntryDate,
		&m.Description,
		&m.CurrencyCode,
		&m.Status,
		&originalID,
		&reversingID,
		&m.Amount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	if entryNumber.Valid {
		m.EntryNumber = entryNumber.String
	}
	if originalID.Valid {
		m.OriginalEntryID = &originalID.String
	}
	if reversingID.Valid {
		m.ReversingEntryID = &reversingID.String
	}
	return &m, nil
}

func scanLine(row pgx.Row) (*models.JournalLine, error) {
	var m models.JournalLine
	err := row.Scan(
		&m.LineID,
		&m.EntryID,
		&m.AccountID,
		&m.Debit,
		&m.Credit,
		&m.Notes,
		&m.RunningBalance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// insertEntryInTx inserts the entry row within the given transaction.
func (r *PgxJournalRepository) insertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	m := mapping.ToModelEntry(entry)
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, query,
		m.EntryID,
		m.OrgID,
		nullIfEmpty(m.EntryNumber),
		m.EntryDate,
		m.Description,
		m.CurrencyCode,
		m.Status,
		m.OriginalEntryID,
		m.ReversingEntryID,
		m.Amount,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry %s: %w", m.EntryID, err)
	}
	return nil
}

// insertLinesInTx inserts line rows as a single batch within the given transaction.
func (r *PgxJournalRepository) insertLinesInTx(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	query := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		m := mapping.ToModelLine(line)
		batch.Queue(query,
			m.LineID,
			m.EntryID,
			m.AccountID,
			m.Debit,
			m.Credit,
			m.Notes,
			m.RunningBalance,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert entry lines: %w", err)
	}
	return nil
}

// applyPostingInTx locks the touched accounts, applies the balance deltas with a
// version check, and stamps each line's running balance in entry line order.
// The caller decides whether the lines are inserted fresh or updated in place.
func (r *PgxJournalRepository) applyPostingInTx(ctx context.Context, tx pgx.Tx, entry *domain.JournalEntry, balanceChanges map[string]decimal.Decimal) error {
	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}

	lockedAccounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to lock accounts for entry %s: %w", entry.EntryID, err)
	}

	if err := r.accountRepo.ApplyBalanceChangesInTx(ctx, tx, lockedAccounts, balanceChanges, entry.LastUpdatedBy, entry.LastUpdatedAt); err != nil {
		return fmt.Errorf("failed to apply balance changes for entry %s: %w", entry.EntryID, err)
	}

	// Running balances start from the pre-posting balance read under the lock and
	// accumulate line by line in the entry's own order.
	running := make(map[string]decimal.Decimal, len(lockedAccounts))
	for accID, acc := range lockedAccounts {
		running[accID] = acc.Balance
	}
	for i := range entry.Lines {
		account, ok := lockedAccounts[entry.Lines[i].AccountID]
		if !ok {
			return fmt.Errorf("%w: account %s missing from lock set", apperrors.ErrInternal, entry.Lines[i].AccountID)
		}
		signed, err := accounting.SignedAmount(entry.Lines[i], account.AccountType)
		if err != nil {
			return fmt.Errorf("failed to compute signed amount for line %s: %w", entry.Lines[i].LineID, err)
		}
		newBalance := running[account.AccountID].Add(signed)
		entry.Lines[i].RunningBalance = newBalance
		running[account.AccountID] = newBalance
	}
	return nil
}

// SaveDraftEntry persists a new draft entry and its lines. No balances move.
func (r *PgxJournalRepository) SaveDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertEntryInTx(ctx, tx, entry); err != nil {
		return err
	}
	if err := r.insertLinesInTx(ctx, tx, lines); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateDraftEntry updates the date/description of an entry still in draft.
func (r *PgxJournalRepository) UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry) error {
	query := `
		UPDATE journal_entries
		SET entry_date = $2,
		    description = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		entry.EntryID,
		entry.EntryDate,
		entry.Description,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update draft entry %s: %w", entry.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Either the entry is gone or it left draft; the distinction matters to callers.
		if _, findErr := r.FindEntryByID(ctx, entry.EntryID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: entry %s is no longer draft", apperrors.ErrConflict, entry.EntryID)
	}
	return nil
}

// PostEntry atomically flips a draft entry to POSTED, allocates its entry number,
// applies the balance deltas and stamps per-line running balances. The conditional
// status flip makes a retried post a clean conflict instead of a double apply.
func (r *PgxJournalRepository) PostEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	seq, err := r.orgRepo.NextEntryNumberInTx(ctx, tx, entry.OrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate entry number for org %s: %w", entry.OrgID, err)
	}
	entry.EntryNumber = formatEntryNumber(seq)
	entry.Status = domain.Posted

	flipQuery := `
		UPDATE journal_entries
		SET status = 'POSTED',
		    entry_number = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, flipQuery, entry.EntryID, entry.EntryNumber, entry.LastUpdatedAt, entry.LastUpdatedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to flip entry %s to posted: %w", entry.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: no draft row for entry %s", apperrors.ErrConflict, entry.EntryID)
	}

	if err := r.applyPostingInTx(ctx, tx, &entry, balanceChanges); err != nil {
		return nil, err
	}

	stampQuery := `
		UPDATE journal_lines
		SET running_balance = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE line_id = $1;
	`
	batch := &pgx.Batch{}
	for _, line := range entry.Lines {
		batch.Queue(stampQuery, line.LineID, line.RunningBalance, entry.LastUpdatedAt, entry.LastUpdatedBy)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("failed to stamp running balances for entry %s: %w", entry.EntryID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &entry, nil
}

// SaveReversal persists an already-balanced reversing entry as POSTED, applies its
// balance deltas and marks the original REVERSED, all in one transaction. The
// conditional link update makes concurrent reversals of the same entry a conflict.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, original domain.JournalEntry, reversal domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	seq, err := r.orgRepo.NextEntryNumberInTx(ctx, tx, reversal.OrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate entry number for org %s: %w", reversal.OrgID, err)
	}
	reversal.EntryNumber = formatEntryNumber(seq)

	// The reversal row must exist before the link update: reversing_entry_id
	// carries a foreign key that postgres checks at the end of the statement.
	if err := r.insertEntryInTx(ctx, tx, reversal); err != nil {
		return nil, err
	}
	if err := r.applyPostingInTx(ctx, tx, &reversal, balanceChanges); err != nil {
		return nil, err
	}
	if err := r.insertLinesInTx(ctx, tx, reversal.Lines); err != nil {
		return nil, err
	}

	linkQuery := `
		UPDATE journal_entries
		SET status = 'REVERSED',
		    reversing_entry_id = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE entry_id = $1 AND status = 'POSTED' AND reversing_entry_id IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, linkQuery, original.EntryID, reversal.EntryID, reversal.LastUpdatedAt, reversal.LastUpdatedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to mark entry %s reversed: %w", original.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// A lost race: the rollback discards the reversal rows inserted above.
		return nil, fmt.Errorf("%w: entry %s already reversed or not posted", apperrors.ErrConflict, original.EntryID)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &reversal, nil
}

// SavePostedEntryInTx persists a new entry directly in POSTED state within the given
// transaction. The caller owns commit and rollback; payment and loan flows use this
// to land the entry and their document update in one transactional boundary.
func (r *PgxJournalRepository) SavePostedEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (*domain.JournalEntry, error) {
	seq, err := r.orgRepo.NextEntryNumberInTx(ctx, tx, entry.OrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate entry number for org %s: %w", entry.OrgID, err)
	}
	entry.EntryNumber = formatEntryNumber(seq)
	entry.Status = domain.Posted

	if err := r.insertEntryInTx(ctx, tx, entry); err != nil {
		return nil, err
	}
	if err := r.applyPostingInTx(ctx, tx, &entry, balanceChanges); err != nil {
		return nil, err
	}
	if err := r.insertLinesInTx(ctx, tx, entry.Lines); err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindEntryByID retrieves an entry by its ID.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", entryID, err)
	}

	domainEntry := mapping.ToDomainEntry(*m)
	return &domainEntry, nil
}

// FindLinesByEntryID retrieves all lines associated with a specific entry.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY created_at, line_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	lines := []models.JournalLine{}
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row for entry %s: %w", entryID, err)
		}
		lines = append(lines, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for entry %s: %w", entryID, err)
	}
	return mapping.ToDomainLineSlice(lines), nil
}

// ListEntriesByOrg retrieves a paginated list of entries for an organization using
// token-based pagination over (entry_date, created_at).
func (r *PgxJournalRepository) ListEntriesByOrg(ctx context.Context, orgID string, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + entryColumns + ` FROM journal_entries`
	filterClause := `WHERE org_id = $1`
	if !includeReversals {
		filterClause += ` AND status != 'REVERSED' AND reversing_entry_id IS NULL AND original_entry_id IS NULL`
	}
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	args := []interface{}{orgID}
	var cursorClause string
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause = `AND (entry_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)
	}

	query := baseQuery + " " + filterClause + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query entries for organization %s: %w", orgID, err)
	}
	defer rows.Close()

	modelEntries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan entry row for organization %s: %w", orgID, scanErr)
		}
		modelEntries = append(modelEntries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating entry rows for organization %s: %w", orgID, err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		lastEntry := modelEntries[limit-1]
		token := pagination.EncodeToken(lastEntry.EntryDate, lastEntry.CreatedAt)
		nextTokenVal = &token
		results = modelEntries[:limit]
	}

	domainEntries := make([]domain.JournalEntry, len(results))
	for i, m := range results {
		domainEntries[i] = mapping.ToDomainEntry(m)
	}
	return domainEntries, nextTokenVal, nil
}

// ListLinesByAccountID retrieves a paginated list of posted lines for an account,
// newest first, using the same token scheme as ListEntriesByOrg.
func (r *PgxJournalRepository) ListLinesByAccountID(ctx context.Context, orgID, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT l.line_id, l.entry_id, l.account_id, l.debit, l.credit, l.notes, l.running_balance,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by, e.entry_date
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE l.account_id = $1 AND e.org_id = $2 AND e.status IN ('POSTED', 'REVERSED')
	`
	orderByClause := `ORDER BY e.entry_date DESC, l.created_at DESC`

	args := []interface{}{accountID, orgID}
	var cursorClause string
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause = `AND (e.entry_date, l.created_at) < ($3, $4)`
		args = append(args, lastDate, lastCreatedAt)
	}

	query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query lines for account %s: %w", accountID, err)
	}
	defer rows.Close()

	type lineWithDate struct {
		line      models.JournalLine
		entryDate models.JournalEntry
	}
	lines := make([]lineWithDate, 0, fetchLimit)
	for rows.Next() {
		var m models.JournalLine
		var e models.JournalEntry
		if err := rows.Scan(
			&m.LineID,
			&m.EntryID,
			&m.AccountID,
			&m.Debit,
			&m.Credit,
			&m.Notes,
			&m.RunningBalance,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&e.EntryDate,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan line row for account %s: %w", accountID, err)
		}
		lines = append(lines, lineWithDate{line: m, entryDate: e})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating line rows for account %s: %w", accountID, err)
	}

	var nextTokenVal *string
	count := len(lines)
	if count > limit {
		last := lines[limit-1]
		token := pagination.EncodeToken(last.entryDate.EntryDate, last.line.CreatedAt)
		nextTokenVal = &token
		count = limit
	}

	results := make([]models.JournalLine, count)
	for i := 0; i < count; i++ {
		results[i] = lines[i].line
	}
	return mapping.ToDomainLineSlice(results), nextTokenVal, nil
}

// formatEntryNumber renders an allocated sequence value as the user-facing entry number.
func formatEntryNumber(seq int64) string {
	return fmt.Sprintf("JE-%06d", seq)
}
