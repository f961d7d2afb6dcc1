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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type FiscalPeriodServiceTestSuite struct {
	suite.Suite
	mockPeriodRepo *MockFiscalPeriodRepository
	service        portssvc.FiscalPeriodSvcFacade
	orgID          string
	userID         string
}

func (suite *FiscalPeriodServiceTestSuite) SetupTest() {
	suite.mockPeriodRepo = new(MockFiscalPeriodRepository)
	suite.service = services.NewFiscalPeriodService(suite.mockPeriodRepo)
	suite.orgID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *FiscalPeriodServiceTestSuite) q1Period(status domain.PeriodStatus) *domain.FiscalPeriod {
	return &domain.FiscalPeriod{
		PeriodID:  uuid.NewString(),
		OrgID:     suite.orgID,
		Name:      "2025-Q1",
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Status:    status,
	}
}

func (suite *FiscalPeriodServiceTestSuite) TestCreatePeriod_Success() {
	ctx := context.Background()
	req := dto.CreatePeriodRequest{
		Name:      "2025-Q2",
		StartDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}

	suite.mockPeriodRepo.On("ListPeriods", ctx, suite.orgID).Return([]domain.FiscalPeriod{*suite.q1Period(domain.PeriodOpen)}, nil).Once()
	suite.mockPeriodRepo.On("SavePeriod", ctx, mock.MatchedBy(func(p domain.FiscalPeriod) bool {
		return p.Status == domain.PeriodOpen && p.Name == "2025-Q2" && p.OrgID == suite.orgID
	})).Return(nil).Once()

	period, err := suite.service.CreatePeriod(ctx, suite.orgID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.PeriodOpen, period.Status)
}

func (suite *FiscalPeriodServiceTestSuite) TestCreatePeriod_Overlap() {
	ctx := context.Background()
	req := dto.CreatePeriodRequest{
		Name:      "March onwards",
		StartDate: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC),
	}

	suite.mockPeriodRepo.On("ListPeriods", ctx, suite.orgID).Return([]domain.FiscalPeriod{*suite.q1Period(domain.PeriodOpen)}, nil).Once()

	_, err := suite.service.CreatePeriod(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPeriodOverlap)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "SavePeriod", mock.Anything, mock.Anything)
}

func (suite *FiscalPeriodServiceTestSuite) TestCreatePeriod_TouchingBoundaryOverlaps() {
	ctx := context.Background()
	// Starting exactly on Q1's end date still counts as overlap; both dates are inclusive.
	req := dto.CreatePeriodRequest{
		Name:      "2025-Q2",
		StartDate: time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}

	suite.mockPeriodRepo.On("ListPeriods", ctx, suite.orgID).Return([]domain.FiscalPeriod{*suite.q1Period(domain.PeriodOpen)}, nil).Once()

	_, err := suite.service.CreatePeriod(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPeriodOverlap)
}

func (suite *FiscalPeriodServiceTestSuite) TestCreatePeriod_EndBeforeStart() {
	ctx := context.Background()
	req := dto.CreatePeriodRequest{
		Name:      "Backwards",
		StartDate: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}

	_, err := suite.service.CreatePeriod(ctx, suite.orgID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *FiscalPeriodServiceTestSuite) TestClosePeriod_Success() {
	ctx := context.Background()
	period := suite.q1Period(domain.PeriodOpen)

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, period.PeriodID).Return(period, nil).Once()
	suite.mockPeriodRepo.On("ClosePeriod", ctx, period.PeriodID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.ClosePeriod(ctx, suite.orgID, period.PeriodID, suite.userID)

	suite.Require().NoError(err)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *FiscalPeriodServiceTestSuite) TestClosePeriod_AlreadyClosed() {
	ctx := context.Background()
	period := suite.q1Period(domain.PeriodClosed)

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, period.PeriodID).Return(period, nil).Once()

	err := suite.service.ClosePeriod(ctx, suite.orgID, period.PeriodID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "ClosePeriod", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FiscalPeriodServiceTestSuite) TestClosePeriod_WrongOrgLooksMissing() {
	ctx := context.Background()
	period := suite.q1Period(domain.PeriodOpen)
	period.OrgID = uuid.NewString()

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, period.PeriodID).Return(period, nil).Once()

	err := suite.service.ClosePeriod(ctx, suite.orgID, period.PeriodID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPeriodNotFound)
}

func (suite *FiscalPeriodServiceTestSuite) TestEnsureOpen_NoPeriodCoversDate() {
	ctx := context.Background()
	date := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)

	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, suite.orgID, date).Return(nil, apperrors.ErrNotFound).Once()

	suite.NoError(suite.service.EnsureOpen(ctx, suite.orgID, date))
}

func (suite *FiscalPeriodServiceTestSuite) TestEnsureOpen_OpenPeriod() {
	ctx := context.Background()
	date := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)

	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, suite.orgID, date).Return(suite.q1Period(domain.PeriodOpen), nil).Once()

	suite.NoError(suite.service.EnsureOpen(ctx, suite.orgID, date))
}

func (suite *FiscalPeriodServiceTestSuite) TestEnsureOpen_ClosedPeriod() {
	ctx := context.Background()
	date := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)

	suite.mockPeriodRepo.On("FindPeriodForDate", ctx, suite.orgID, date).Return(suite.q1Period(domain.PeriodClosed), nil).Once()

	err := suite.service.EnsureOpen(ctx, suite.orgID, date)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrClosedPeriod)
}

func TestFiscalPeriodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FiscalPeriodServiceTestSuite))
}
