package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bizbooks/ledger-backend/internal/apperrors"
	"github.com/bizbooks/ledger-backend/internal/core/domain"
	portsrepo "github.com/bizbooks/ledger-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const documentColumns = `doc_id, org_id, doc_number, kind, counterparty_name, issue_date, due_date, currency_code, total, paid, balance, status, offset_account_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxDocumentRepository struct {
	BaseRepository
}

// newPgxDocumentRepository creates a new repository for invoice/bill data.
func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryWithTx {
	return &PgxDocumentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxDocumentRepository implements portsrepo.DocumentRepositoryWithTx
var _ portsrepo.DocumentRepositoryWithTx = (*PgxDocumentRepository)(nil)

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var d domain.Document
	err := row.Scan(
		&d.DocID,
		&d.OrgID,
		&d.DocNumber,
		&d.Kind,
		&d.CounterpartyName,
		&d.IssueDate,
		&d.DueDate,
		&d.CurrencyCode,
		&d.Total,
		&d.Paid,
		&d.Balance,
		&d.Status,
		&d.OffsetAccountID,
		&d.CreatedAt,
		&d.CreatedBy,
		&d.LastUpdatedAt,
		&d.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// SaveDocument inserts a new document.
func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, doc domain.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		doc.DocID,
		doc.OrgID,
		doc.DocNumber,
		doc.Kind,
		doc.CounterpartyName,
		doc.IssueDate,
		doc.DueDate,
		doc.CurrencyCode,
		doc.Total,
		doc.Paid,
		doc.Balance,
		doc.Status,
		doc.OffsetAccountID,
		doc.CreatedAt,
		doc.CreatedBy,
		doc.LastUpdatedAt,
		doc.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: document number %s already exists in this organization", apperrors.ErrDuplicate, doc.DocNumber)
		}
		return fmt.Errorf("failed to save document %s: %w", doc.DocID, err)
	}
	return nil
}

// FindDocumentByID retrieves a document by its ID.
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, docID string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE doc_id = $1;`

	doc, err := scanDocument(r.Pool.QueryRow(ctx, query, docID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find document by ID %s: %w", docID, err)
	}
	return doc, nil
}

// ListDocuments retrieves a paginated list of documents, optionally by kind.
func (r *PgxDocumentRepository) ListDocuments(ctx context.Context, orgID string, kind *domain.DocumentKind, limit int, offset int) ([]domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE org_id = $1`
	args := []interface{}{orgID}
	if kind != nil {
		query += ` AND kind = $2 ORDER BY issue_date DESC, doc_number LIMIT $3 OFFSET $4;`
		args = append(args, *kind, limit, offset)
	} else {
		query += ` ORDER BY issue_date DESC, doc_number LIMIT $2 OFFSET $3;`
		args = append(args, limit, offset)
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents for organization %s: %w", orgID, err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0, limit)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document rows: %w", err)
	}
	return docs, nil
}

// UpdateDocumentStatus transitions a document's status.
func (r *PgxDocumentRepository) UpdateDocumentStatus(ctx context.Context, docID string, status domain.DocumentStatus, userID string) error {
	query := `
		UPDATE documents
		SET status = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE doc_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, docID, status, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update document %s status: %w", docID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateDocumentPaymentInTx writes the paid/balance/status fields within the given
// transaction so they commit together with the journal entry recording the payment.
// The update only lands if the stored paid amount still matches what the caller
// read; a concurrent payment that committed in between turns this into a conflict
// and the whole transaction, journal entry included, rolls back.
func (r *PgxDocumentRepository) UpdateDocumentPaymentInTx(ctx context.Context, tx pgx.Tx, doc domain.Document, expectedPaid decimal.Decimal) error {
	query := `
		UPDATE documents
		SET paid = $2,
		    balance = $3,
		    status = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE doc_id = $1 AND paid = $7;
	`
	cmdTag, err := tx.Exec(ctx, query,
		doc.DocID,
		doc.Paid,
		doc.Balance,
		doc.Status,
		doc.LastUpdatedAt,
		doc.LastUpdatedBy,
		expectedPaid,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment fields for document %s: %w", doc.DocID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: document %s was modified concurrently", apperrors.ErrConcurrentModification, doc.DocID)
	}
	return nil
}
