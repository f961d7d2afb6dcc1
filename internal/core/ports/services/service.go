package services

// ServiceContainer bundles all service facades for handler wiring.
type ServiceContainer struct {
	Organization OrganizationSvcFacade
	Currency     CurrencySvcFacade
	Account      AccountSvcFacade
	Journal      JournalSvcFacade
	Payment      PaymentSvcFacade
	Loan         LoanSvcFacade
	Budget       BudgetSvcFacade
	FiscalPeriod FiscalPeriodSvcFacade
	Reporting    ReportingSvcFacade
}
