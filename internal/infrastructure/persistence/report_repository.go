package persistence

import (
	"context"
	"time"

	"github.com/botecopos/backend/internal/domain/report"
	"github.com/botecopos/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements ReportRepository using GORM.
// Reports read the sale tables directly; they never load write-side
// aggregates.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// Summary returns aggregated totals over finalized sales in the period
func (r *GormReportRepository) Summary(ctx context.Context, start, end time.Time) (*report.SalesSummary, error) {
	type summaryResult struct {
		SalesCount   int64
		TotalRevenue decimal.Decimal
		ItemsSold    int64
	}

	var result summaryResult
	if err := r.db.WithContext(ctx).
		Table("sales s").
		Select(`
			COUNT(DISTINCT s.id) as sales_count,
			COALESCE(SUM(si.price * si.quantity), 0) as total_revenue,
			COALESCE(SUM(si.quantity), 0) as items_sold
		`).
		Joins("LEFT JOIN sale_items si ON si.sale_id = s.id").
		Where("s.status = ?", sales.SaleStatusFinalized).
		Where("s.updated_at >= ? AND s.updated_at < ?", start, end).
		Scan(&result).Error; err != nil {
		return nil, err
	}

	var outOfStock int64
	if err := r.db.WithContext(ctx).
		Table("products").
		Where("quantity = 0").
		Count(&outOfStock).Error; err != nil {
		return nil, err
	}

	var openDebt decimal.Decimal
	if err := r.db.WithContext(ctx).
		Table("clients").
		Select("COALESCE(SUM(debt_balance), 0)").
		Scan(&openDebt).Error; err != nil {
		return nil, err
	}

	averageTicket := decimal.Zero
	if result.SalesCount > 0 {
		averageTicket = result.TotalRevenue.Div(decimal.NewFromInt(result.SalesCount)).Round(2)
	}

	return &report.SalesSummary{
		PeriodStart:   start,
		PeriodEnd:     end,
		SalesCount:    result.SalesCount,
		TotalRevenue:  result.TotalRevenue.Round(2),
		ItemsSold:     result.ItemsSold,
		OutOfStock:    outOfStock,
		OpenDebtTotal: openDebt.Round(2),
		AverageTicket: averageTicket,
	}, nil
}

// MonthlySales returns one revenue point per month. Per-sale totals come
// from SQL; the month bucketing happens here to stay portable across
// dialects.
func (r *GormReportRepository) MonthlySales(ctx context.Context, start, end time.Time) ([]report.MonthlySalesPoint, error) {
	type saleTotal struct {
		UpdatedAt time.Time
		Revenue   decimal.Decimal
	}

	var rows []saleTotal
	if err := r.db.WithContext(ctx).
		Table("sales s").
		Select("s.updated_at as updated_at, COALESCE(SUM(si.price * si.quantity), 0) as revenue").
		Joins("LEFT JOIN sale_items si ON si.sale_id = s.id").
		Where("s.status = ?", sales.SaleStatusFinalized).
		Where("s.updated_at >= ? AND s.updated_at < ?", start, end).
		Group("s.id, s.updated_at").
		Order("s.updated_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		year  int
		month time.Month
	}
	totals := make(map[bucket]*report.MonthlySalesPoint)
	var order []bucket
	for _, row := range rows {
		key := bucket{row.UpdatedAt.Year(), row.UpdatedAt.Month()}
		point, ok := totals[key]
		if !ok {
			point = &report.MonthlySalesPoint{Year: key.year, Month: key.month, Revenue: decimal.Zero}
			totals[key] = point
			order = append(order, key)
		}
		point.Revenue = point.Revenue.Add(row.Revenue)
		point.Count++
	}

	points := make([]report.MonthlySalesPoint, 0, len(order))
	for _, key := range order {
		point := totals[key]
		point.Revenue = point.Revenue.Round(2)
		points = append(points, *point)
	}
	return points, nil
}

// ProductShares returns the top-N products by revenue over finalized sales
// in the period, with everything else folded into an "others" bucket
func (r *GormReportRepository) ProductShares(ctx context.Context, start, end time.Time, topN int) ([]report.ProductShare, error) {
	type shareRow struct {
		ProductID   uuid.UUID
		ProductName string
		Quantity    int64
		Revenue     decimal.Decimal
	}

	var rows []shareRow
	if err := r.db.WithContext(ctx).
		Table("sale_items si").
		Select(`
			si.product_id as product_id,
			si.product_name as product_name,
			COALESCE(SUM(si.quantity), 0) as quantity,
			COALESCE(SUM(si.price * si.quantity), 0) as revenue
		`).
		Joins("JOIN sales s ON s.id = si.sale_id").
		Where("s.status = ?", sales.SaleStatusFinalized).
		Where("s.updated_at >= ? AND s.updated_at < ?", start, end).
		Group("si.product_id, si.product_name").
		Order("revenue DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Revenue)
	}

	percentOf := func(revenue decimal.Decimal) decimal.Decimal {
		if total.IsZero() {
			return decimal.Zero
		}
		return revenue.Div(total).Mul(decimal.NewFromInt(100)).Round(1)
	}

	shares := make([]report.ProductShare, 0, topN+1)
	for i, row := range rows {
		if i >= topN {
			break
		}
		productID := row.ProductID
		shares = append(shares, report.ProductShare{
			ProductID:   &productID,
			ProductName: row.ProductName,
			Quantity:    row.Quantity,
			Revenue:     row.Revenue.Round(2),
			Percent:     percentOf(row.Revenue),
		})
	}

	if len(rows) > topN {
		others := report.ProductShare{ProductName: "others", Revenue: decimal.Zero}
		for _, row := range rows[topN:] {
			others.Quantity += row.Quantity
			others.Revenue = others.Revenue.Add(row.Revenue)
		}
		others.Percent = percentOf(others.Revenue)
		others.Revenue = others.Revenue.Round(2)
		shares = append(shares, others)
	}
	return shares, nil
}

// DebtRanking returns the clients with the largest cached debt
func (r *GormReportRepository) DebtRanking(ctx context.Context, limit int) ([]report.ClientDebtRanking, error) {
	type rankRow struct {
		ClientID   uuid.UUID
		ClientName string
		Nickname   string
		Debt       decimal.Decimal
		OpenSales  int64
	}

	var rows []rankRow
	if err := r.db.WithContext(ctx).
		Table("clients c").
		Select(`
			c.id as client_id,
			c.name as client_name,
			c.nickname as nickname,
			c.debt_balance as debt,
			COUNT(s.id) as open_sales
		`).
		Joins("LEFT JOIN sales s ON s.client_id = c.id AND s.status = ?", sales.SaleStatusOpen).
		Where("c.debt_balance > 0").
		Group("c.id, c.name, c.nickname, c.debt_balance").
		Order("c.debt_balance DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	rankings := make([]report.ClientDebtRanking, 0, len(rows))
	for _, row := range rows {
		rankings = append(rankings, report.ClientDebtRanking{
			ClientID:   row.ClientID,
			ClientName: row.ClientName,
			Nickname:   row.Nickname,
			Debt:       row.Debt,
			OpenSales:  row.OpenSales,
		})
	}
	return rankings, nil
}

var _ report.ReportRepository = (*GormReportRepository)(nil)
