package services_test

import (
	"context"
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

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// --- Test Suite Setup ---

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountSvc  *MockAccountService
	mockCurrencySvc *MockCurrencyService
	mockPeriodSvc   *MockFiscalPeriodService
	service         portssvc.JournalSvcFacade
	cashAccount     domain.Account
	revenueAccount  domain.Account
	orgID           string
	userID          string
	usd             domain.Currency
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockCurrencySvc = new(MockCurrencyService)
	suite.mockPeriodSvc = new(MockFiscalPeriodService)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountSvc, suite.mockCurrencySvc, suite.mockPeriodSvc)

	suite.orgID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.usd = domain.Currency{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", Precision: 2}

	suite.cashAccount = domain.Account{
		AccountID:    uuid.NewString(),
		OrgID:        suite.orgID,
		Code:         "1000",
		Name:         "Cash",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:    uuid.NewString(),
		OrgID:        suite.orgID,
		Code:         "4000",
		Name:         "Sales Revenue",
		AccountType:  domain.Revenue,
		CurrencyCode: "USD",
		IsActive:     true,
	}
}

func (suite *JournalServiceTestSuite) accountsMap() map[string]domain.Account {
	return map[string]domain.Account{
		suite.cashAccount.AccountID:    suite.cashAccount,
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}
}

func (suite *JournalServiceTestSuite) expectValidation(ctx context.Context) {
	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "USD").Return(&suite.usd, nil)
	suite.mockAccountSvc.On("GetAccountByIDs", ctx, suite.orgID, mock.AnythingOfType("[]string")).Return(suite.accountsMap(), nil)
	suite.mockPeriodSvc.On("EnsureOpen", ctx, suite.orgID, mock.AnythingOfType("time.Time")).Return(nil)
}

func (suite *JournalServiceTestSuite) saleRequest(creditAmount string) dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		Date:         time.Now().UTC(),
		Description:  "Cash sale",
		CurrencyCode: "USD",
		Lines: []dto.CreateEntryLine{
			{AccountID: suite.cashAccount.AccountID, Debit: dec("500")},
			{AccountID: suite.revenueAccount.AccountID, Credit: dec(creditAmount)},
		},
	}
}

// --- Test Cases ---

func (suite *JournalServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	suite.expectValidation(ctx)
	suite.mockJournalRepo.On("SaveDraftEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.orgID, suite.saleRequest("500"), suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.NotEmpty(entry.EntryID)
	suite.Equal(domain.Draft, entry.Status)
	suite.Empty(entry.EntryNumber)
	suite.True(dec("500").Equal(entry.Amount))
	suite.Equal(suite.userID, entry.CreatedBy)
	suite.Len(entry.Lines, 2)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_Unbalanced() {
	ctx := context.Background()
	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "USD").Return(&suite.usd, nil)

	// Debit 500 against credit 499.99 misses by a cent.
	_, err := suite.service.CreateEntry(ctx, suite.orgID, suite.saleRequest("499.99"), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidEntry)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveDraftEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_SameAccountWash() {
	ctx := context.Background()
	suite.expectValidation(ctx)
	suite.mockJournalRepo.On("SaveDraftEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).Return(nil).Once()

	// Both lines hit the same account. Unusual, but it balances and has two
	// lines, so it is a valid entry; its net balance effect is zero.
	req := dto.CreateEntryRequest{
		Date:         time.Now().UTC(),
		Description:  "Wash entry",
		CurrencyCode: "USD",
		Lines: []dto.CreateEntryLine{
			{AccountID: suite.cashAccount.AccountID, Debit: dec("100")},
			{AccountID: suite.cashAccount.AccountID, Credit: dec("100")},
		},
	}

	entry, err := suite.service.CreateEntry(ctx, suite.orgID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Draft, entry.Status)
	suite.True(dec("100").Equal(entry.Amount))
}

func (suite *JournalServiceTestSuite) TestCreateEntry_InactiveAccount() {
	ctx := context.Background()
	suite.cashAccount.IsActive = false
	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "USD").Return(&suite.usd, nil)
	suite.mockAccountSvc.On("GetAccountByIDs", ctx, suite.orgID, mock.AnythingOfType("[]string")).Return(suite.accountsMap(), nil)

	_, err := suite.service.CreateEntry(ctx, suite.orgID, suite.saleRequest("500"), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidEntry)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_CurrencyMismatch() {
	ctx := context.Background()
	suite.revenueAccount.CurrencyCode = "EUR"
	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "USD").Return(&suite.usd, nil)
	suite.mockAccountSvc.On("GetAccountByIDs", ctx, suite.orgID, mock.AnythingOfType("[]string")).Return(suite.accountsMap(), nil)

	_, err := suite.service.CreateEntry(ctx, suite.orgID, suite.saleRequest("500"), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrCurrencyMismatch)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_ClosedPeriod() {
	ctx := context.Background()
	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "USD").Return(&suite.usd, nil)
	suite.mockAccountSvc.On("GetAccountByIDs", ctx, suite.orgID, mock.AnythingOfType("[]string")).Return(suite.accountsMap(), nil)
	suite.mockPeriodSvc.On("EnsureOpen", ctx, suite.orgID, mock.AnythingOfType("time.Time")).Return(services.ErrClosedPeriod)

	_, err := suite.service.CreateEntry(ctx, suite.orgID, suite.saleRequest("500"), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrClosedPeriod)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveDraftEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) draftEntry() *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:      uuid.NewString(),
		OrgID:        suite.orgID,
		EntryDate:    time.Now().UTC(),
		Description:  "Cash sale",
		CurrencyCode: "USD",
		Status:       domain.Draft,
		Amount:       dec("500"),
	}
}

func (suite *JournalServiceTestSuite) draftLines(entryID string) []domain.JournalLine {
	return []domain.JournalLine{
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.cashAccount.AccountID, Debit: dec("500")},
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.revenueAccount.AccountID, Credit: dec("500")},
	}
}

func (suite *JournalServiceTestSuite) TestPostEntry_Success() {
	ctx := context.Background()
	entry := suite.draftEntry()
	lines := suite.draftLines(entry.EntryID)

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.expectValidation(ctx)

	posted := *entry
	posted.Status = domain.Posted
	posted.EntryNumber = "JE-000042"
	suite.mockJournalRepo.On("PostEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		// Debit to cash (asset) raises it, credit to revenue raises it too.
		return changes[suite.cashAccount.AccountID].Equal(dec("500")) &&
			changes[suite.revenueAccount.AccountID].Equal(dec("500"))
	})).Return(&posted, nil).Once()

	result, err := suite.service.PostEntry(ctx, suite.orgID, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, result.Status)
	suite.Equal("JE-000042", result.EntryNumber)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_AlreadyPosted() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Status = domain.Posted

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.PostEntry(ctx, suite.orgID, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyPosted)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_LostRaceIsNoOp() {
	ctx := context.Background()
	entry := suite.draftEntry()
	lines := suite.draftLines(entry.EntryID)

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.expectValidation(ctx)
	// A concurrent post flipped the row first.
	suite.mockJournalRepo.On("PostEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.Anything).Return(nil, apperrors.ErrConflict).Once()

	_, err := suite.service.PostEntry(ctx, suite.orgID, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyPosted)
}

func (suite *JournalServiceTestSuite) TestPostEntry_WrongOrgLooksMissing() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.OrgID = uuid.NewString()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.PostEntry(ctx, suite.orgID, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEntryNotFound)
}

func (suite *JournalServiceTestSuite) TestUpdateEntry_PostedIsImmutable() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Status = domain.Posted
	newDesc := "Edited"

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.UpdateEntry(ctx, suite.orgID, entry.EntryID, dto.UpdateEntryRequest{Description: &newDesc}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrImmutableEntry)
}

func (suite *JournalServiceTestSuite) TestUpdateEntry_Draft() {
	ctx := context.Background()
	entry := suite.draftEntry()
	newDesc := "Corrected description"

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("UpdateDraftEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()

	updated, err := suite.service.UpdateEntry(ctx, suite.orgID, entry.EntryID, dto.UpdateEntryRequest{Description: &newDesc}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(newDesc, updated.Description)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_MirrorsLines() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Status = domain.Posted
	lines := suite.draftLines(entry.EntryID)

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Once()
	suite.expectValidation(ctx)

	suite.mockJournalRepo.On("SaveReversal", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.MatchedBy(func(reversal domain.JournalEntry) bool {
		if len(reversal.Lines) != 2 || reversal.OriginalEntryID == nil || *reversal.OriginalEntryID != entry.EntryID {
			return false
		}
		// Sides swap, amounts stay.
		return reversal.Lines[0].AccountID == suite.cashAccount.AccountID &&
			reversal.Lines[0].Credit.Equal(dec("500")) && reversal.Lines[0].Debit.IsZero() &&
			reversal.Lines[1].AccountID == suite.revenueAccount.AccountID &&
			reversal.Lines[1].Debit.Equal(dec("500")) && reversal.Lines[1].Credit.IsZero()
	}), mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		// The reversal undoes the original deltas exactly.
		return changes[suite.cashAccount.AccountID].Equal(dec("-500")) &&
			changes[suite.revenueAccount.AccountID].Equal(dec("-500"))
	})).Return(entry, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, suite.orgID, entry.EntryID, nil, suite.userID)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseEntry_AlreadyReversed() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Status = domain.Reversed

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, suite.orgID, entry.EntryID, nil, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyReversed)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_DraftNotReversible() {
	ctx := context.Background()
	entry := suite.draftEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, suite.orgID, entry.EntryID, nil, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotPosted)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_ReversalOfReversal() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Status = domain.Posted
	originalID := uuid.NewString()
	entry.OriginalEntryID = &originalID

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.ReverseEntry(ctx, suite.orgID, entry.EntryID, nil, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
