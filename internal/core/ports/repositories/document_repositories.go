package repositories

import (
	"context"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// DocumentReader defines read operations for invoice/bill data
type DocumentReader interface {
	// FindDocumentByID retrieves a specific document by its unique identifier.
	FindDocumentByID(ctx context.Context, docID string) (*domain.Document, error)

	// ListDocuments retrieves a paginated list of documents for an organization,
	// optionally filtered by kind.
	ListDocuments(ctx context.Context, orgID string, kind *domain.DocumentKind, limit int, offset int) ([]domain.Document, error)
}

// DocumentWriter defines write operations for invoice/bill data
type DocumentWriter interface {
	// SaveDocument persists a new document.
	SaveDocument(ctx context.Context, doc domain.Document) error

	// UpdateDocumentStatus transitions a document's status (e.g. cancel while unpaid).
	UpdateDocumentStatus(ctx context.Context, docID string, status domain.DocumentStatus, userID string) error

	// UpdateDocumentPaymentInTx writes the paid/balance/status fields of a document
	// within the given transaction, so the update commits together with the journal
	// entry that records the payment. The write is conditional on the stored paid
	// amount still equaling expectedPaid and fails with ErrConcurrentModification
	// when another payment committed since the caller's read.
	UpdateDocumentPaymentInTx(ctx context.Context, tx pgx.Tx, doc domain.Document, expectedPaid decimal.Decimal) error
}

// DocumentRepositoryFacade combines all document-related repository interfaces
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}

// DocumentRepositoryWithTx extends DocumentRepositoryFacade with transaction capabilities
type DocumentRepositoryWithTx interface {
	DocumentRepositoryFacade
	TransactionManager
}
