package dto

import (
	"time"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryLine is one candidate line of a journal entry. Exactly one of
// debit/credit must be positive; the validator enforces this before posting.
type CreateEntryLine struct {
	AccountID string          `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Notes     string          `json:"notes"`
}

// CreateEntryRequest defines the payload for creating a draft journal entry.
type CreateEntryRequest struct {
	Date         time.Time         `json:"date" binding:"required"`
	Description  string            `json:"description" binding:"required"`
	CurrencyCode string            `json:"currencyCode" binding:"required,len=3"`
	Lines        []CreateEntryLine `json:"lines" binding:"required,min=2,dive"`
}

// UpdateEntryRequest defines the fields of a draft entry that may still change.
type UpdateEntryRequest struct {
	Date        *time.Time `json:"date"`
	Description *string    `json:"description"`
}

// ReverseEntryRequest optionally carries the date the reversal should be booked at.
type ReverseEntryRequest struct {
	Date *time.Time `json:"date"`
}

// LineResponse defines the data returned for a journal line.
type LineResponse struct {
	LineID         string          `json:"lineID"`
	EntryID        string          `json:"entryID"`
	AccountID      string          `json:"accountID"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Notes          string          `json:"notes,omitempty"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID          string          `json:"entryID"`
	EntryNumber      string          `json:"entryNumber,omitempty"`
	Date             time.Time       `json:"date"`
	Description      string          `json:"description"`
	CurrencyCode     string          `json:"currencyCode"`
	Status           string          `json:"status"`
	Amount           decimal.Decimal `json:"amount"`
	OriginalEntryID  *string         `json:"originalEntryID,omitempty"`
	ReversingEntryID *string         `json:"reversingEntryID,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
	Lines            []LineResponse  `json:"lines,omitempty"`
}

// ListEntriesParams holds query parameters for listing entries.
type ListEntriesParams struct {
	Limit            int     `form:"limit"`
	NextToken        *string `form:"nextToken"`
	IncludeReversals bool    `form:"includeReversals"`
	IncludeLines     bool    `form:"includeLines"`
}

// ListEntriesResponse is the paginated listing payload.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ListLinesParams holds query parameters for listing an account's lines.
type ListLinesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListLinesResponse is the paginated line listing payload.
type ListLinesResponse struct {
	Lines     []LineResponse `json:"lines"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ToLineResponse converts a domain.JournalLine to LineResponse DTO.
func ToLineResponse(l *domain.JournalLine) LineResponse {
	return LineResponse{
		LineID:         l.LineID,
		EntryID:        l.EntryID,
		AccountID:      l.AccountID,
		Debit:          l.Debit,
		Credit:         l.Credit,
		Notes:          l.Notes,
		RunningBalance: l.RunningBalance,
	}
}

// ToLineResponses converts a slice of domain.JournalLine to []LineResponse.
func ToLineResponses(lines []domain.JournalLine) []LineResponse {
	responses := make([]LineResponse, len(lines))
	for i := range lines {
		responses[i] = ToLineResponse(&lines[i])
	}
	return responses
}

// ToEntryResponse converts a domain.JournalEntry to EntryResponse DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:          e.EntryID,
		EntryNumber:      e.EntryNumber,
		Date:             e.EntryDate,
		Description:      e.Description,
		CurrencyCode:     e.CurrencyCode,
		Status:           string(e.Status),
		Amount:           e.Amount,
		OriginalEntryID:  e.OriginalEntryID,
		ReversingEntryID: e.ReversingEntryID,
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = ToLineResponses(e.Lines)
	}
	return resp
}
