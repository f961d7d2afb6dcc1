package services

import (
	"context"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
	"github.com/bizbooks/ledger-backend/internal/dto"
)

// PaymentSvcFacade exposes invoice/bill administration and payment application.
type PaymentSvcFacade interface {
	// CreateDocument registers a new invoice or bill in OPEN state.
	CreateDocument(ctx context.Context, orgID string, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error)

	// GetDocumentByID retrieves a single document scoped to the organization.
	GetDocumentByID(ctx context.Context, orgID string, docID string) (*domain.Document, error)

	// ListDocuments retrieves a paginated list of documents, optionally by kind.
	ListDocuments(ctx context.Context, orgID string, kind *domain.DocumentKind, limit int, offset int) ([]domain.Document, error)

	// CancelDocument cancels a document that has no payments applied.
	CancelDocument(ctx context.Context, orgID string, docID string, userID string) (*domain.Document, error)

	// ApplyPayment applies a cash receipt/disbursement to a document, updating its
	// paid/balance/status and posting the balancing journal entry in one transaction.
	ApplyPayment(ctx context.Context, orgID string, docID string, req dto.ApplyPaymentRequest, userID string) (*domain.Document, *domain.JournalEntry, error)
}
