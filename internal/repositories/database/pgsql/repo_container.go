package pgsql

import (
	portsrepo "github.com/bizbooks/ledger-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires all pgsql repositories over one connection pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	currencyRepo := newPgxCurrencyRepository(dbPool)
	orgRepo := newPgxOrganizationRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool, accountRepo, orgRepo)
	documentRepo := newPgxDocumentRepository(dbPool)
	loanRepo := newPgxLoanRepository(dbPool)
	budgetRepo := newPgxBudgetRepository(dbPool)
	fiscalPeriodRepo := newPgxFiscalPeriodRepository(dbPool)
	reportingRepo := newPgxReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:      accountRepo,
		JournalRepo:      journalRepo,
		DocumentRepo:     documentRepo,
		LoanRepo:         loanRepo,
		BudgetRepo:       budgetRepo,
		FiscalPeriodRepo: fiscalPeriodRepo,
		OrgRepo:          orgRepo,
		CurrencyRepo:     currencyRepo,
		ReportingRepo:    reportingRepo,
	}
}
