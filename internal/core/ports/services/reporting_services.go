package services

import (
	"context"
	"time"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
)

// ReportingSvcFacade exposes read-only projections over posted ledger activity.
type ReportingSvcFacade interface {
	// GetTrialBalance returns per-account posted debit/credit totals as of a date.
	GetTrialBalance(ctx context.Context, orgID string, asOf time.Time) ([]domain.TrialBalanceRow, error)
}
