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
	"github.com/bizbooks/ledger-backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

var (
	// ErrLoanNotFound signals an unknown loan id.
	ErrLoanNotFound = fmt.Errorf("%w: loan", apperrors.ErrNotFound)
	// ErrLoanClosed rejects payments against a fully repaid loan.
	ErrLoanClosed = fmt.Errorf("%w: loan is closed", apperrors.ErrConflict)
)

// loanService manages amortizing loans. A payment splits into interest on the
// current outstanding balance and principal reduction, and both the loan update
// and the journal entry booking the split commit in one transaction.
type loanService struct {
	loanRepo    portsrepo.LoanRepositoryWithTx
	journalRepo portsrepo.JournalRepositoryWithTx
	entryPoster portssvc.EntryPoster
	accountSvc  portssvc.AccountSvcFacade
	currencySvc portssvc.CurrencySvcFacade
}

// NewLoanService creates a new LoanService.
func NewLoanService(
	loanRepo portsrepo.LoanRepositoryWithTx,
	journalRepo portsrepo.JournalRepositoryWithTx,
	entryPoster portssvc.EntryPoster,
	accountSvc portssvc.AccountSvcFacade,
	currencySvc portssvc.CurrencySvcFacade,
) portssvc.LoanSvcFacade {
	return &loanService{
		loanRepo:    loanRepo,
		journalRepo: journalRepo,
		entryPoster: entryPoster,
		accountSvc:  accountSvc,
		currencySvc: currencySvc,
	}
}

var _ portssvc.LoanSvcFacade = (*loanService)(nil)

// CreateLoan registers a loan. The fixed payment is derived from the annuity
// schedule up front so every later payment can reuse it.
func (s *loanService) CreateLoan(ctx context.Context, orgID string, req dto.CreateLoanRequest, creatorUserID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := accounting.FixedPayment(req.Principal, req.AnnualRatePercent, req.TermMonths)
	if err != nil {
		return nil, err
	}
	if _, err := s.currencySvc.GetCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown currency %s", apperrors.ErrValidation, req.CurrencyCode)
		}
		return nil, err
	}

	accounts, err := s.accountSvc.GetAccountByIDs(ctx, orgID, []string{req.LiabilityAccountID, req.InterestAccountID})
	if err != nil {
		return nil, err
	}
	liability, ok := accounts[req.LiabilityAccountID]
	if !ok {
		return nil, fmt.Errorf("%w: ID %s", ErrAccountNotFound, req.LiabilityAccountID)
	}
	if liability.AccountType != domain.Liability {
		return nil, fmt.Errorf("%w: account %s is not a liability account", apperrors.ErrValidation, req.LiabilityAccountID)
	}
	interestAcc, ok := accounts[req.InterestAccountID]
	if !ok {
		return nil, fmt.Errorf("%w: ID %s", ErrAccountNotFound, req.InterestAccountID)
	}
	if interestAcc.AccountType != domain.Expense {
		return nil, fmt.Errorf("%w: account %s is not an expense account", apperrors.ErrValidation, req.InterestAccountID)
	}

	now := time.Now().UTC()
	loan := domain.Loan{
		LoanID:             uuid.NewString(),
		OrgID:              orgID,
		Name:               req.Name,
		Principal:          req.Principal,
		AnnualRatePercent:  req.AnnualRatePercent,
		TermMonths:         req.TermMonths,
		PaymentAmount:      payment,
		OutstandingBalance: req.Principal,
		TotalPrincipalPaid: decimal.Zero,
		TotalInterestPaid:  decimal.Zero,
		StartDate:          req.StartDate,
		CurrencyCode:       req.CurrencyCode,
		LiabilityAccountID: req.LiabilityAccountID,
		InterestAccountID:  req.InterestAccountID,
		Status:             domain.LoanActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.loanRepo.SaveLoan(ctx, loan); err != nil {
		logger.Error("Failed to save loan", slog.String("error", err.Error()), slog.String("org_id", orgID))
		return nil, err
	}
	logger.Info("Loan created", slog.String("loan_id", loan.LoanID), slog.String("payment", payment.String()))
	return &loan, nil
}

// GetLoanByID retrieves a single loan scoped to the organization.
func (s *loanService) GetLoanByID(ctx context.Context, orgID string, loanID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %s", ErrLoanNotFound, loanID)
		}
		return nil, err
	}
	if loan.OrgID != orgID {
		return nil, fmt.Errorf("%w: ID %s", ErrLoanNotFound, loanID)
	}
	return loan, nil
}

// ListLoans retrieves a paginated list of the organization's loans.
func (s *loanService) ListLoans(ctx context.Context, orgID string, limit int, offset int) ([]domain.Loan, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.loanRepo.ListLoans(ctx, orgID, limit, offset)
}

// GetSchedule produces the loan's full amortization schedule from its original terms.
func (s *loanService) GetSchedule(ctx context.Context, orgID string, loanID string) ([]domain.PaymentRow, error) {
	loan, err := s.GetLoanByID(ctx, orgID, loanID)
	if err != nil {
		return nil, err
	}
	return accounting.AmortizationSchedule(loan.Principal, loan.AnnualRatePercent, loan.TermMonths, loan.StartDate)
}

// ProcessLoanPayment splits a payment into interest and principal, posts the
// balancing journal entry and updates the loan atomically. A payment whose
// principal portion exceeds the outstanding balance is rejected rather than
// clamped.
func (s *loanService) ProcessLoanPayment(ctx context.Context, orgID string, loanID string, req dto.LoanPaymentRequest, userID string) (*domain.Loan, *domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	loan, err := s.GetLoanByID(ctx, orgID, loanID)
	if err != nil {
		return nil, nil, err
	}
	if loan.Status != domain.LoanActive {
		return nil, nil, ErrLoanClosed
	}
	if !req.Amount.IsPositive() {
		return nil, nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	interest := loan.OutstandingBalance.Mul(accounting.MonthlyRate(loan.AnnualRatePercent)).Round(2)
	if req.Amount.Sub(interest).GreaterThan(loan.OutstandingBalance) {
		return nil, nil, fmt.Errorf("%w: amount %s, outstanding %s plus interest %s",
			ErrExcessPayment, req.Amount.String(), loan.OutstandingBalance.String(), interest.String())
	}
	principal, _ := accounting.SplitPayment(loan.OutstandingBalance, loan.AnnualRatePercent, req.Amount)
	// A payment smaller than the accrued interest is booked entirely as interest.
	interestPortion := req.Amount.Sub(principal)

	lines := make([]domain.JournalLine, 0, 3)
	if principal.IsPositive() {
		lines = append(lines, domain.JournalLine{AccountID: loan.LiabilityAccountID, Debit: principal})
	}
	if interestPortion.IsPositive() {
		lines = append(lines, domain.JournalLine{AccountID: loan.InterestAccountID, Debit: interestPortion})
	}
	lines = append(lines, domain.JournalLine{AccountID: req.CashAccountID, Credit: req.Amount})
	if len(lines) < 2 {
		return nil, nil, fmt.Errorf("%w: payment splits to nothing", apperrors.ErrValidation)
	}

	description := fmt.Sprintf("Loan payment for %s", loan.Name)
	entry, balanceChanges, err := s.entryPoster.BuildPostedEntry(ctx, orgID, req.Date, description, loan.CurrencyCode, lines, userID)
	if err != nil {
		return nil, nil, err
	}

	updated := *loan
	updated.OutstandingBalance = loan.OutstandingBalance.Sub(principal)
	updated.TotalPrincipalPaid = loan.TotalPrincipalPaid.Add(principal)
	updated.TotalInterestPaid = loan.TotalInterestPaid.Add(interestPortion)
	if updated.OutstandingBalance.IsZero() {
		updated.Status = domain.LoanClosed
	}
	updated.LastUpdatedAt = time.Now().UTC()
	updated.LastUpdatedBy = userID

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer s.journalRepo.Rollback(ctx, tx)

	posted, err := s.journalRepo.SavePostedEntryInTx(ctx, tx, *entry, balanceChanges)
	if err != nil {
		logger.Error("Failed to post loan payment entry", slog.String("error", err.Error()), slog.String("loan_id", loanID))
		return nil, nil, fmt.Errorf("failed to post loan payment entry: %w", err)
	}
	// Conditioned on the balance the split was computed from, so a payment racing
	// past the excess check on a stale read fails here instead of over-applying.
	if err := s.loanRepo.UpdateLoanPaymentInTx(ctx, tx, updated, loan.OutstandingBalance); err != nil {
		logger.Error("Failed to update loan payment fields", slog.String("error", err.Error()), slog.String("loan_id", loanID))
		return nil, nil, fmt.Errorf("failed to update loan: %w", err)
	}
	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}

	logger.Info("Loan payment processed",
		slog.String("loan_id", loanID),
		slog.String("principal", principal.String()),
		slog.String("interest", interestPortion.String()),
		slog.String("entry_id", posted.EntryID),
		slog.String("status", string(updated.Status)),
	)
	return &updated, posted, nil
}
