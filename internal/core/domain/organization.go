package domain

// Organization is the tenancy root. Every ledger aggregate is scoped to exactly one
// organization; journal entry numbers are allocated from its sequence.
type Organization struct {
	OrgID               string `json:"orgID"` // Primary Key (UUID)
	Name                string `json:"name"`
	DefaultCurrencyCode string `json:"defaultCurrencyCode"`
	EntrySeq            int64  `json:"-"` // Last allocated journal entry number
	AuditFields
}
