package report

import (
	"context"
	"time"

	"github.com/botecopos/backend/internal/domain/report"
	"github.com/botecopos/backend/internal/domain/shared"
)

// ReportService serves dashboard read models. All numbers come from the
// report repository's SQL aggregates; nothing here touches the write-side
// aggregates.
type ReportService struct {
	reportRepo report.ReportRepository
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo report.ReportRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo}
}

// Summary returns period totals over finalized sales
func (s *ReportService) Summary(ctx context.Context, start, end time.Time) (*report.SalesSummary, error) {
	if !end.After(start) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end must be after start")
	}
	return s.reportRepo.Summary(ctx, start, end)
}

// MonthlySales returns one revenue point per month in the period
func (s *ReportService) MonthlySales(ctx context.Context, start, end time.Time) ([]report.MonthlySalesPoint, error) {
	if !end.After(start) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end must be after start")
	}
	return s.reportRepo.MonthlySales(ctx, start, end)
}

// ProductShares returns the top-N products by revenue with an "others"
// bucket for the rest
func (s *ReportService) ProductShares(ctx context.Context, start, end time.Time, topN int) ([]report.ProductShare, error) {
	if !end.After(start) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end must be after start")
	}
	if topN <= 0 {
		topN = 5
	}
	return s.reportRepo.ProductShares(ctx, start, end, topN)
}

// DebtRanking returns the clients with the largest cached debt
func (s *ReportService) DebtRanking(ctx context.Context, limit int) ([]report.ClientDebtRanking, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.reportRepo.DebtRanking(ctx, limit)
}
