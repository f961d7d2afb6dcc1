package dto

import (
	"time"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDocumentRequest defines the payload for creating an invoice or bill.
type CreateDocumentRequest struct {
	DocNumber        string              `json:"docNumber" binding:"required"`
	Kind             domain.DocumentKind `json:"kind" binding:"required,oneof=INVOICE BILL"`
	CounterpartyName string              `json:"counterpartyName" binding:"required"`
	IssueDate        time.Time           `json:"issueDate" binding:"required"`
	DueDate          time.Time           `json:"dueDate" binding:"required"`
	CurrencyCode     string              `json:"currencyCode" binding:"required,len=3"`
	Total            decimal.Decimal     `json:"total" binding:"required,gt=0"`
	OffsetAccountID  string              `json:"offsetAccountID" binding:"required"`
}

// ApplyPaymentRequest defines the payload for applying a payment to a document.
type ApplyPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Date          time.Time       `json:"date" binding:"required"`
	CashAccountID string          `json:"cashAccountID" binding:"required"`
}

// DocumentResponse defines the data returned for an invoice or bill.
type DocumentResponse struct {
	DocID            string          `json:"docID"`
	DocNumber        string          `json:"docNumber"`
	Kind             string          `json:"kind"`
	CounterpartyName string          `json:"counterpartyName"`
	IssueDate        time.Time       `json:"issueDate"`
	DueDate          time.Time       `json:"dueDate"`
	CurrencyCode     string          `json:"currencyCode"`
	Total            decimal.Decimal `json:"total"`
	Paid             decimal.Decimal `json:"paid"`
	Balance          decimal.Decimal `json:"balance"`
	Status           string          `json:"status"`
	OffsetAccountID  string          `json:"offsetAccountID"`
}

// PaymentResponse bundles the updated document and the journal entry that recorded it.
type PaymentResponse struct {
	Document DocumentResponse `json:"document"`
	Entry    EntryResponse    `json:"entry"`
}

// ToDocumentResponse converts a domain.Document to DocumentResponse DTO.
func ToDocumentResponse(d *domain.Document) DocumentResponse {
	return DocumentResponse{
		DocID:            d.DocID,
		DocNumber:        d.DocNumber,
		Kind:             string(d.Kind),
		CounterpartyName: d.CounterpartyName,
		IssueDate:        d.IssueDate,
		DueDate:          d.DueDate,
		CurrencyCode:     d.CurrencyCode,
		Total:            d.Total,
		Paid:             d.Paid,
		Balance:          d.Balance,
		Status:           string(d.Status),
		OffsetAccountID:  d.OffsetAccountID,
	}
}

// ToDocumentResponses converts a slice of domain.Document to []DocumentResponse.
func ToDocumentResponses(docs []domain.Document) []DocumentResponse {
	responses := make([]DocumentResponse, len(docs))
	for i := range docs {
		responses[i] = ToDocumentResponse(&docs[i])
	}
	return responses
}
