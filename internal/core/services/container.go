package services

import (
	portsrepo "github.com/bizbooks/ledger-backend/internal/core/ports/repositories"
	portssvc "github.com/bizbooks/ledger-backend/internal/core/ports/services"
)

// NewContainer wires all services over the repository provider. Dependency order
// matters: currency feeds accounts, accounts and periods feed the journal, and
// the journal's posting engine feeds payments and loans.
func NewContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	currencySvc := NewCurrencyService(repos.CurrencyRepo)
	orgSvc := NewOrganizationService(repos.OrgRepo, currencySvc)
	accountSvc := NewAccountService(repos.AccountRepo, currencySvc, repos.ReportingRepo)
	periodSvc := NewFiscalPeriodService(repos.FiscalPeriodRepo)
	journalSvc := NewJournalService(repos.JournalRepo, accountSvc, currencySvc, periodSvc)
	paymentSvc := NewPaymentService(repos.DocumentRepo, repos.JournalRepo, journalSvc, accountSvc, currencySvc)
	loanSvc := NewLoanService(repos.LoanRepo, repos.JournalRepo, journalSvc, accountSvc, currencySvc)
	budgetSvc := NewBudgetService(repos.BudgetRepo, repos.ReportingRepo, accountSvc)
	reportingSvc := NewReportingService(repos.ReportingRepo)

	return &portssvc.ServiceContainer{
		Organization: orgSvc,
		Currency:     currencySvc,
		Account:      accountSvc,
		Journal:      journalSvc,
		Payment:      paymentSvc,
		Loan:         loanSvc,
		Budget:       budgetSvc,
		FiscalPeriod: periodSvc,
		Reporting:    reportingSvc,
	}
}
