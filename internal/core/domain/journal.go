package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// JournalEntry represents a single, balanced financial event composed of multiple lines.
// Entries are created in DRAFT, transition to POSTED exactly once, and become immutable
// from that point; REVERSED only records that a linked reversing entry offsets this one.
type JournalEntry struct {
	EntryID          string      `json:"entryID"`     // Primary Key (UUID)
	OrgID            string      `json:"orgID"`       // FK -> organizations.org_id (Not Null)
	EntryNumber      string      `json:"entryNumber"` // Unique per org; allocated at post time
	EntryDate        time.Time   `json:"entryDate"`   // Date the event occurred
	Description      string      `json:"description"`
	CurrencyCode     string      `json:"currencyCode"`
	Status           EntryStatus `json:"status"`
	OriginalEntryID  *string     `json:"originalEntryID,omitempty"`  // Set on a reversing entry
	ReversingEntryID *string     `json:"reversingEntryID,omitempty"` // Set on the reversed original
	// Amount is the economic value of the entry: the sum of one (either) side.
	Amount decimal.Decimal `json:"amount"`
	AuditFields
	Lines []JournalLine `json:"lines,omitempty"`
}

// JournalLine is a single line item within an entry, affecting one account.
// Exactly one of Debit/Credit is non-zero.
type JournalLine struct {
	LineID    string          `json:"lineID"`  // Primary Key (UUID)
	EntryID   string          `json:"entryID"` // FK -> journal_entries.entry_id (Not Null)
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Notes     string          `json:"notes"`
	// RunningBalance is the account balance after this line; stamped at post time.
	RunningBalance decimal.Decimal `json:"runningBalance"`
	AuditFields
}

// Side returns which side of the entry this line sits on.
func (l JournalLine) Side() EntrySide {
	if l.Debit.IsPositive() {
		return DebitSide
	}
	return CreditSide
}

// Amount returns the magnitude of the line regardless of side.
func (l JournalLine) Amount() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}
	return l.Credit
}
