package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bizbooks/ledger-backend/internal/apperrors"
	"github.com/bizbooks/ledger-backend/internal/core/domain"
	portsrepo "github.com/bizbooks/ledger-backend/internal/core/ports/repositories"
	portssvc "github.com/bizbooks/ledger-backend/internal/core/ports/services"
	"github.com/bizbooks/ledger-backend/internal/dto"
	"github.com/bizbooks/ledger-backend/internal/middleware"
	"github.com/shopspring/decimal"
)

var (
	// ErrExcessPayment rejects a payment larger than the outstanding balance.
	// The core never silently clamps an over-payment.
	ErrExcessPayment = fmt.Errorf("%w: payment exceeds outstanding balance", apperrors.ErrValidation)
	// ErrDocumentClosed rejects payments against paid or cancelled documents.
	ErrDocumentClosed = fmt.Errorf("%w: document is in a terminal state", apperrors.ErrConflict)
	// ErrDocumentNotFound signals an unknown document id.
	ErrDocumentNotFound = fmt.Errorf("%w: document", apperrors.ErrNotFound)
	// ErrDocumentHasPayments blocks cancelling a document that was partially paid.
	ErrDocumentHasPayments = fmt.Errorf("%w: document with applied payments cannot be cancelled", apperrors.ErrConflict)
)

// paymentService applies cash receipts and disbursements against invoices and bills,
// recording their accounting impact through the posting engine. The document update
// and the journal entry commit in one transaction or not at all.
type paymentService struct {
	documentRepo portsrepo.DocumentRepositoryWithTx
	journalRepo  portsrepo.JournalRepositoryWithTx
	entryPoster  portssvc.EntryPoster
	accountSvc   portssvc.AccountSvcFacade
	currencySvc  portssvc.CurrencySvcFacade
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	documentRepo portsrepo.DocumentRepositoryWithTx,
	journalRepo portsrepo.JournalRepositoryWithTx,
	entryPoster portssvc.EntryPoster,
	accountSvc portssvc.AccountSvcFacade,
	currencySvc portssvc.CurrencySvcFacade,
) portssvc.PaymentSvcFacade {
	return &paymentService{
		documentRepo: documentRepo,
		journalRepo:  journalRepo,
		entryPoster:  entryPoster,
		accountSvc:   accountSvc,
		currencySvc:  currencySvc,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// CreateDocument registers a new invoice or bill in OPEN state.
func (s *paymentService) CreateDocument(ctx context.Context, orgID string, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Total.IsPositive() {
		return nil, fmt.Errorf("%w: document total must be positive", apperrors.ErrValidation)
	}
	if req.DueDate.Before(req.IssueDate) {
		return nil, fmt.Errorf("%w: due date precedes issue date", apperrors.ErrValidation)
	}
	if _, err := s.currencySvc.GetCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown currency %s", apperrors.ErrValidation, req.CurrencyCode)
		}
		return nil, err
	}

	offsetAccount, err := s.accountSvc.GetAccountByID(ctx, orgID, req.OffsetAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %s", ErrAccountNotFound, req.OffsetAccountID)
		}
		return nil, err
	}
	if !offsetAccount.IsActive {
		return nil, fmt.Errorf("%w: offset account %s is inactive", apperrors.ErrValidation, req.OffsetAccountID)
	}

	now := time.Now().UTC()
	doc := domain.Document{
		DocID:            uuid.NewString(),
		OrgID:            orgID,
		DocNumber:        req.DocNumber,
		Kind:             req.Kind,
		CounterpartyName: req.CounterpartyName,
		IssueDate:        req.IssueDate,
		DueDate:          req.DueDate,
		CurrencyCode:     req.CurrencyCode,
		Total:            req.Total,
		Paid:             decimal.Zero,
		Balance:          req.Total,
		Status:           domain.DocOpen,
		OffsetAccountID:  req.OffsetAccountID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.documentRepo.SaveDocument(ctx, doc); err != nil {
		logger.Error("Failed to save document", slog.String("error", err.Error()), slog.String("org_id", orgID))
		return nil, err
	}
	logger.Info("Document created", slog.String("doc_id", doc.DocID), slog.String("kind", string(doc.Kind)))
	return &doc, nil
}

// GetDocumentByID retrieves a single document scoped to the organization.
func (s *paymentService) GetDocumentByID(ctx context.Context, orgID string, docID string) (*domain.Document, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %s", ErrDocumentNotFound, docID)
		}
		return nil, err
	}
	if doc.OrgID != orgID {
		return nil, fmt.Errorf("%w: ID %s", ErrDocumentNotFound, docID)
	}
	return doc, nil
}

// ListDocuments retrieves a paginated list of documents, optionally by kind.
func (s *paymentService) ListDocuments(ctx context.Context, orgID string, kind *domain.DocumentKind, limit int, offset int) ([]domain.Document, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.documentRepo.ListDocuments(ctx, orgID, kind, limit, offset)
}

// CancelDocument cancels a document that has no payments applied.
func (s *paymentService) CancelDocument(ctx context.Context, orgID string, docID string, userID string) (*domain.Document, error) {
	doc, err := s.GetDocumentByID(ctx, orgID, docID)
	if err != nil {
		return nil, err
	}
	if doc.Status.Terminal() {
		return nil, ErrDocumentClosed
	}
	if doc.Paid.IsPositive() {
		return nil, ErrDocumentHasPayments
	}

	if err := s.documentRepo.UpdateDocumentStatus(ctx, docID, domain.DocCancelled, userID); err != nil {
		return nil, fmt.Errorf("failed to cancel document %s: %w", docID, err)
	}
	doc.Status = domain.DocCancelled
	return doc, nil
}

// ApplyPayment applies a cash receipt (invoice) or disbursement (bill) to a document.
// The paid/balance/status update and the journal entry recording the payment commit
// together or not at all.
func (s *paymentService) ApplyPayment(ctx context.Context, orgID string, docID string, req dto.ApplyPaymentRequest, userID string) (*domain.Document, *domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.GetDocumentByID(ctx, orgID, docID)
	if err != nil {
		return nil, nil, err
	}
	if doc.Status.Terminal() {
		return nil, nil, ErrDocumentClosed
	}
	if !req.Amount.IsPositive() {
		return nil, nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}
	if req.Amount.GreaterThan(doc.Balance) {
		return nil, nil, fmt.Errorf("%w: amount %s, outstanding %s", ErrExcessPayment, req.Amount.String(), doc.Balance.String())
	}

	// Invoice receipt: cash comes in, receivable shrinks.
	// Bill payment: payable shrinks, cash goes out.
	var lines []domain.JournalLine
	var description string
	switch doc.Kind {
	case domain.Invoice:
		description = fmt.Sprintf("Payment received for invoice %s", doc.DocNumber)
		lines = []domain.JournalLine{
			{AccountID: req.CashAccountID, Debit: req.Amount},
			{AccountID: doc.OffsetAccountID, Credit: req.Amount},
		}
	case domain.Bill:
		description = fmt.Sprintf("Payment made for bill %s", doc.DocNumber)
		lines = []domain.JournalLine{
			{AccountID: doc.OffsetAccountID, Debit: req.Amount},
			{AccountID: req.CashAccountID, Credit: req.Amount},
		}
	default:
		return nil, nil, fmt.Errorf("%w: unknown document kind %s", apperrors.ErrValidation, doc.Kind)
	}

	entry, balanceChanges, err := s.entryPoster.BuildPostedEntry(ctx, orgID, req.Date, description, doc.CurrencyCode, lines, userID)
	if err != nil {
		return nil, nil, err
	}

	updated := *doc
	updated.Paid = doc.Paid.Add(req.Amount)
	updated.Balance = doc.Total.Sub(updated.Paid)
	updated.Status = paymentStatus(updated.Balance, doc.DueDate, req.Date)
	updated.LastUpdatedAt = time.Now().UTC()
	updated.LastUpdatedBy = userID

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer s.journalRepo.Rollback(ctx, tx)

	posted, err := s.journalRepo.SavePostedEntryInTx(ctx, tx, *entry, balanceChanges)
	if err != nil {
		logger.Error("Failed to post payment entry", slog.String("error", err.Error()), slog.String("doc_id", docID))
		return nil, nil, fmt.Errorf("failed to post payment entry: %w", err)
	}
	// Conditioned on the paid amount we validated against, so a payment that raced
	// past the excess check on a stale read fails here instead of over-applying.
	if err := s.documentRepo.UpdateDocumentPaymentInTx(ctx, tx, updated, doc.Paid); err != nil {
		logger.Error("Failed to update document payment fields", slog.String("error", err.Error()), slog.String("doc_id", docID))
		return nil, nil, fmt.Errorf("failed to update document: %w", err)
	}
	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}

	logger.Info("Payment applied",
		slog.String("doc_id", docID),
		slog.String("amount", req.Amount.String()),
		slog.String("entry_id", posted.EntryID),
		slog.String("status", string(updated.Status)),
	)
	return &updated, posted, nil
}

// paymentStatus derives the document status after a payment.
func paymentStatus(balance decimal.Decimal, dueDate time.Time, asOf time.Time) domain.DocumentStatus {
	if balance.IsZero() {
		return domain.DocPaid
	}
	if asOf.After(dueDate) {
		return domain.DocOverdue
	}
	return domain.DocOpen
}
