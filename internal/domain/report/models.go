package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesSummary aggregates finalized sales over a period
type SalesSummary struct {
	PeriodStart    time.Time       `json:"period_start"`
	PeriodEnd      time.Time       `json:"period_end"`
	SalesCount     int64           `json:"sales_count"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	ItemsSold      int64           `json:"items_sold"`
	OutOfStock     int64           `json:"out_of_stock"`
	OpenDebtTotal  decimal.Decimal `json:"open_debt_total"`
	AverageTicket  decimal.Decimal `json:"average_ticket"`
}

// MonthlySalesPoint is one month on the revenue chart
type MonthlySalesPoint struct {
	Year    int             `json:"year"`
	Month   time.Month      `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Count   int64           `json:"count"`
}

// ProductShare is one slice of the top-products chart. The final slice may be
// the "others" bucket aggregating everything outside the top N.
type ProductShare struct {
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
	Percent     decimal.Decimal `json:"percent"`
}

// ClientDebtRanking is one row of the biggest-debtors list
type ClientDebtRanking struct {
	ClientID   uuid.UUID       `json:"client_id"`
	ClientName string          `json:"client_name"`
	Nickname   string          `json:"nickname,omitempty"`
	Debt       decimal.Decimal `json:"debt"`
	OpenSales  int64           `json:"open_sales"`
}

// ReportRepository reads aggregates straight from the database; report data
// never goes through the write-side aggregates
type ReportRepository interface {
	Summary(ctx context.Context, start, end time.Time) (*SalesSummary, error)
	MonthlySales(ctx context.Context, start, end time.Time) ([]MonthlySalesPoint, error)
	ProductShares(ctx context.Context, start, end time.Time, topN int) ([]ProductShare, error)
	DebtRanking(ctx context.Context, limit int) ([]ClientDebtRanking, error)
}
