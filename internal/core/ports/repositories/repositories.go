package repositories

// RepositoryProvider bundles all repository implementations for service wiring.
type RepositoryProvider struct {
	AccountRepo      AccountRepositoryWithTx
	JournalRepo      JournalRepositoryWithTx
	DocumentRepo     DocumentRepositoryWithTx
	LoanRepo         LoanRepositoryWithTx
	BudgetRepo       BudgetRepositoryFacade
	FiscalPeriodRepo FiscalPeriodRepositoryFacade
	OrgRepo          OrganizationRepositoryFacade
	CurrencyRepo     CurrencyRepositoryFacade
	ReportingRepo    ReportingRepository
}
