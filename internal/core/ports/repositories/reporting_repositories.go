package repositories

import (
	"context"
	"time"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
)

// ReportingRepository defines read-only projections over posted ledger activity.
// Draft entries are excluded by construction in every query.
type ReportingRepository interface {
	// GetTrialBalanceData retrieves per-account posted debit/credit totals as of a date.
	GetTrialBalanceData(ctx context.Context, orgID string, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// GetPostedActivity sums posted line activity per account within [from, to].
	GetPostedActivity(ctx context.Context, orgID string, accountIDs []string, from, to time.Time) (map[string]domain.AccountActivity, error)

	// GetAccountPostedTotals sums all posted line activity for one account, for
	// reconciling the stored running balance against entry history.
	GetAccountPostedTotals(ctx context.Context, accountID string) (domain.AccountActivity, error)
}
