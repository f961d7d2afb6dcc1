package domain

// Currency describes a currency accepted by the ledger.
// Precision is the number of decimal places of the smallest unit (2 for USD, 0 for JPY).
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // ISO 4217 code, Primary Key
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Precision    int32  `json:"precision"`
	AuditFields
}
