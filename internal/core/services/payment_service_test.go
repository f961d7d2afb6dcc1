package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bizbooks/ledger-backend/internal/apperrors"
	"github.com/bizbooks/ledger-backend/internal/core/domain"
	portssvc "github.com/bizbooks/ledger-backend/internal/core/ports/services"
	"github.com/bizbooks/ledger-backend/internal/core/services"
	"github.com/bizbooks/ledger-backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceTestSuite struct {
	suite.Suite
	mockDocumentRepo *MockDocumentRepository
	mockJournalRepo  *MockJournalRepository
	mockEntryPoster  *MockEntryPoster
	mockAccountSvc   *MockAccountService
	mockCurrencySvc  *MockCurrencyService
	service          portssvc.PaymentSvcFacade
	orgID            string
	userID           string
	cashAccountID    string
	receivableID     string
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.mockDocumentRepo = new(MockDocumentRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockEntryPoster = new(MockEntryPoster)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockCurrencySvc = new(MockCurrencyService)
	suite.service = services.NewPaymentService(
		suite.mockDocumentRepo,
		suite.mockJournalRepo,
		suite.mockEntryPoster,
		suite.mockAccountSvc,
		suite.mockCurrencySvc,
	)

	suite.orgID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.cashAccountID = uuid.NewString()
	suite.receivableID = uuid.NewString()
}

func (suite *PaymentServiceTestSuite) openInvoice(total, paid string) *domain.Document {
	totalDec := dec(total)
	paidDec := dec(paid)
	return &domain.Document{
		DocID:            uuid.NewString(),
		OrgID:            suite.orgID,
		DocNumber:        "INV-001",
		Kind:             domain.Invoice,
		CounterpartyName: "Acme Corp",
		IssueDate:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DueDate:          time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		CurrencyCode:     "USD",
		Total:            totalDec,
		Paid:             paidDec,
		Balance:          totalDec.Sub(paidDec),
		Status:           domain.DocOpen,
		OffsetAccountID:  suite.receivableID,
	}
}

func (suite *PaymentServiceTestSuite) expectPostingPipeline(ctx context.Context) *domain.JournalEntry {
	postedEntry := &domain.JournalEntry{EntryID: uuid.NewString(), Status: domain.Posted, EntryNumber: "JE-000007"}
	changes := map[string]decimal.Decimal{}
	suite.mockEntryPoster.On("BuildPostedEntry", ctx, suite.orgID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("string"), "USD", mock.AnythingOfType("[]domain.JournalLine"), suite.userID).
		Return(postedEntry, changes, nil).Once()
	suite.mockJournalRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockJournalRepo.On("SavePostedEntryInTx", ctx, nil, mock.AnythingOfType("domain.JournalEntry"), mock.Anything).Return(postedEntry, nil).Once()
	suite.mockJournalRepo.On("Commit", ctx, nil).Return(nil).Once()
	suite.mockJournalRepo.On("Rollback", ctx, nil).Return(nil).Maybe()
	return postedEntry
}

func (suite *PaymentServiceTestSuite) TestApplyPayment_FullPaymentMarksPaid() {
	ctx := context.Background()
	doc := suite.openInvoice("100", "0")

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, doc.DocID).Return(doc, nil).Once()
	suite.expectPostingPipeline(ctx)
	suite.mockDocumentRepo.On("UpdateDocumentPaymentInTx", ctx, nil, mock.MatchedBy(func(updated domain.Document) bool {
		return updated.Status == domain.DocPaid && updated.Balance.IsZero() && updated.Paid.Equal(dec("100"))
	}), mock.MatchedBy(func(expectedPaid decimal.Decimal) bool {
		return expectedPaid.IsZero()
	})).Return(nil).Once()

	req := dto.ApplyPaymentRequest{Amount: dec("100"), Date: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), CashAccountID: suite.cashAccountID}
	updated, entry, err := suite.service.ApplyPayment(ctx, suite.orgID, doc.DocID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.DocPaid, updated.Status)
	suite.True(updated.Balance.IsZero())
	suite.NotNil(entry)
	suite.mockDocumentRepo.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestApplyPayment_InvoiceDebitsCash() {
	ctx := context.Background()
	doc := suite.openInvoice("100", "0")

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, doc.DocID).Return(doc, nil).Once()

	postedEntry := &domain.JournalEntry{EntryID: uuid.NewString(), Status: domain.Posted}
	suite.mockEntryPoster.On("BuildPostedEntry", ctx, suite.orgID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("string"), "USD", mock.MatchedBy(func(lines []domain.JournalLine) bool {
		// Cash receipt: debit cash, credit the receivable.
		return len(lines) == 2 &&
			lines[0].AccountID == suite.cashAccountID && lines[0].Debit.Equal(dec("40")) &&
			lines[1].AccountID == suite.receivableID && lines[1].Credit.Equal(dec("40"))
	}), suite.userID).Return(postedEntry, map[string]decimal.Decimal{}, nil).Once()
	suite.mockJournalRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockJournalRepo.On("SavePostedEntryInTx", ctx, nil, mock.Anything, mock.Anything).Return(postedEntry, nil).Once()
	suite.mockDocumentRepo.On("UpdateDocumentPaymentInTx", ctx, nil, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockJournalRepo.On("Commit", ctx, nil).Return(nil).Once()
	suite.mockJournalRepo.On("Rollback", ctx, nil).Return(nil).Maybe()

	req := dto.ApplyPaymentRequest{Amount: dec("40"), Date: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), CashAccountID: suite.cashAccountID}
	updated, _, err := suite.service.ApplyPayment(ctx, suite.orgID, doc.DocID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.DocOpen, updated.Status)
	suite.True(updated.Balance.Equal(dec("60")))
	suite.mockEntryPoster.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestApplyPayment_BillCreditsCash() {
	ctx := context.Background()
	doc := suite.openInvoice("100", "0")
	doc.Kind = domain.Bill
	doc.DocNumber = "BILL-001"

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, doc.DocID).Return(doc, nil).Once()

	postedEntry := &domain.JournalEntry{EntryID: uuid.NewString(), Status: domain.Posted}
	suite.mockEntryPoster.On("BuildPostedEntry", ctx, suite.orgID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("string"), "USD", mock.MatchedBy(func(lines []domain.JournalLine) bool {
		// Disbursement: debit the payable, credit cash.
		return len(lines) == 2 &&
			lines[0].AccountID == suite.receivableID && lines[0].Debit.Equal(dec("100")) &&
			lines[1].AccountID == suite.cashAccountID && lines[1].Credit.Equal(dec("100"))
	}), suite.userID).Return(postedEntry, map[string]decimal.Decimal{}, nil).Once()
	suite.mockJournalRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockJournalRepo.On("SavePostedEntryInTx", ctx, nil, mock.Anything, mock.Anything).Return(postedEntry, nil).Once()
	suite.mockDocumentRepo.On("UpdateDocumentPaymentInTx", ctx, nil, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockJournalRepo.On("Commit", ctx, nil).Return(nil).Once()
	suite.mockJournalRepo.On("Rollback", ctx, nil).Return(nil).Maybe()

	req := dto.ApplyPaymentRequest{Amount: dec("100"), Date: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), CashAccountID: suite.cashAccountID}
	_, _, err := suite.service.ApplyPayment(ctx, suite.orgID, doc.DocID, req, suite.userID)

	suite.Require().NoError(err)
	suite.mockEntryPoster.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestApplyPayment_ExcessRejected() {
	ctx := context.Background()
	doc := suite.openInvoice("100", "40")

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, doc.DocID).Return(doc, nil).Once()

	req := dto.ApplyPaymentRequest{Amount: dec("61"), Date: time.Now().UTC(), CashAccountID: suite.cashAccountID}
	_, _, err := suite.service.ApplyPayment(ctx, suite.orgID, doc.DocID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrExcessPayment)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestApplyPayment_LatePartialGoesOverdue() {
	ctx := context.Background()
	doc := suite.openInvoice("100", "0")

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, doc.DocID).Return(doc, nil).Once()
	suite.expectPostingPipeline(ctx)
	suite.mockDocumentRepo.On("UpdateDocumentPaymentInTx", ctx, nil, mock.MatchedBy(func(updated domain.Document) bool {
		return updated.Status == domain.DocOverdue
	}), mock.Anything).Return(nil).Once()

	// Payment lands after the due date with a balance remaining.
	req := dto.ApplyPaymentRequest{Amount: dec("30"), Date: time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC), CashAccountID: suite.cashAccountID}
	updated, _, err := suite.service.ApplyPayment(ctx, suite.orgID, doc.DocID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.DocOverdue, updated.Status)
}

func (suite *PaymentServiceTestSuite) TestApplyPayment_LostRaceRollsBack() {
	ctx := context.Background()
	// Another full payment committed after our read: the snapshot still shows
	// paid=0, so the excess check passes, but the guarded update must refuse to
	// book a second 100 against the same invoice.
	doc := suite.openInvoice("100", "0")

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, doc.DocID).Return(doc, nil).Once()

	postedEntry := &domain.JournalEntry{EntryID: uuid.NewString(), Status: domain.Posted}
	suite.mockEntryPoster.On("BuildPostedEntry", ctx, suite.orgID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("string"), "USD", mock.Anything, suite.userID).
		Return(postedEntry, map[string]decimal.Decimal{}, nil).Once()
	suite.mockJournalRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockJournalRepo.On("SavePostedEntryInTx", ctx, nil, mock.Anything, mock.Anything).Return(postedEntry, nil).Once()
	suite.mockDocumentRepo.On("UpdateDocumentPaymentInTx", ctx, nil, mock.Anything, mock.MatchedBy(func(expectedPaid decimal.Decimal) bool {
		return expectedPaid.IsZero()
	})).Return(fmt.Errorf("%w: document %s was modified concurrently", apperrors.ErrConcurrentModification, doc.DocID)).Once()
	suite.mockJournalRepo.On("Rollback", ctx, nil).Return(nil).Once()

	req := dto.ApplyPaymentRequest{Amount: dec("100"), Date: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), CashAccountID: suite.cashAccountID}
	_, _, err := suite.service.ApplyPayment(ctx, suite.orgID, doc.DocID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConcurrentModification)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestApplyPayment_TerminalDocument() {
	ctx := context.Background()
	doc := suite.openInvoice("100", "100")
	doc.Status = domain.DocPaid

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, doc.DocID).Return(doc, nil).Once()

	req := dto.ApplyPaymentRequest{Amount: dec("1"), Date: time.Now().UTC(), CashAccountID: suite.cashAccountID}
	_, _, err := suite.service.ApplyPayment(ctx, suite.orgID, doc.DocID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDocumentClosed)
}

func (suite *PaymentServiceTestSuite) TestCancelDocument_WithPaymentsRejected() {
	ctx := context.Background()
	doc := suite.openInvoice("100", "40")

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, doc.DocID).Return(doc, nil).Once()

	_, err := suite.service.CancelDocument(ctx, suite.orgID, doc.DocID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDocumentHasPayments)
	suite.mockDocumentRepo.AssertNotCalled(suite.T(), "UpdateDocumentStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestCancelDocument_Unpaid() {
	ctx := context.Background()
	doc := suite.openInvoice("100", "0")

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, doc.DocID).Return(doc, nil).Once()
	suite.mockDocumentRepo.On("UpdateDocumentStatus", ctx, doc.DocID, domain.DocCancelled, suite.userID).Return(nil).Once()

	cancelled, err := suite.service.CancelDocument(ctx, suite.orgID, doc.DocID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.DocCancelled, cancelled.Status)
}

func (suite *PaymentServiceTestSuite) TestGetDocument_WrongOrgLooksMissing() {
	ctx := context.Background()
	doc := suite.openInvoice("100", "0")
	doc.OrgID = uuid.NewString()

	suite.mockDocumentRepo.On("FindDocumentByID", ctx, doc.DocID).Return(doc, nil).Once()

	_, err := suite.service.GetDocumentByID(ctx, suite.orgID, doc.DocID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PaymentServiceTestSuite) TestCreateDocument_DueBeforeIssue() {
	ctx := context.Background()
	req := dto.CreateDocumentRequest{
		DocNumber:        "INV-002",
		Kind:             domain.Invoice,
		CounterpartyName: "Acme Corp",
		IssueDate:        time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		DueDate:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CurrencyCode:     "USD",
		Total:            dec("100"),
		OffsetAccountID:  suite.receivableID,
	}

	_, err := suite.service.CreateDocument(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
