package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the persisted row shape of a journal entry. This row is the
// append-only audit record: once status leaves DRAFT, only the status and
// reversal link columns ever change again.
type JournalEntry struct {
	EntryID          string          `db:"entry_id"`
	OrgID            string          `db:"org_id"`
	EntryNumber      string          `db:"entry_number"` // Allocated at post time; NULL while draft
	EntryDate        time.Time       `db:"entry_date"`
	Description      string          `db:"description"`
	CurrencyCode     string          `db:"currency_code"`
	Status           string          `db:"status"`
	OriginalEntryID  *string         `db:"original_entry_id"`
	ReversingEntryID *string         `db:"reversing_entry_id"`
	Amount           decimal.Decimal `db:"amount"`
	AuditFields
}

// JournalLine is the persisted row shape of a single entry line.
type JournalLine struct {
	LineID         string          `db:"line_id"`
	EntryID        string          `db:"entry_id"`
	AccountID      string          `db:"account_id"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
	Notes          string          `db:"notes"`
	RunningBalance decimal.Decimal `db:"running_balance"`
	AuditFields
}
