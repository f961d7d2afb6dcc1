package domain

import "time"

// PeriodStatus indicates whether postings into a fiscal period are allowed.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
)

// FiscalPeriod is a date range that can be closed to further postings.
type FiscalPeriod struct {
	PeriodID  string       `json:"periodID"` // Primary Key (UUID)
	OrgID     string       `json:"orgID"`
	Name      string       `json:"name"` // e.g. "2026-03" or "FY2026 Q1"
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"`
	Status    PeriodStatus `json:"status"`
	AuditFields
}

// Contains reports whether d falls inside the period (inclusive of both ends).
func (p FiscalPeriod) Contains(d time.Time) bool {
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}
