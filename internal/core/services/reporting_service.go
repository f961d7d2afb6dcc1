package services

import (
	"context"
	"time"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
	portsrepo "github.com/bizbooks/ledger-backend/internal/core/ports/repositories"
	portssvc "github.com/bizbooks/ledger-backend/internal/core/ports/services"
)

// reportingService exposes read-only projections over posted ledger activity.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// GetTrialBalance returns per-account posted debit/credit totals as of a date.
// In a consistent ledger total debits equal total credits across all rows.
func (s *reportingService) GetTrialBalance(ctx context.Context, orgID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	return s.reportingRepo.GetTrialBalanceData(ctx, orgID, asOf)
}
