// Package sheets defines the dashboard writer ports implemented by the
// Google Sheets client and the in-memory test double.
package sheets

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/patrickrelix/relix-daily-reporting/internal/core"
)

// DailyRevenueRow is one appended line of the daily revenue tab. YoY is
// the year-over-year change as a fraction (0.15 = +15%); HasYoY is false
// when there is no prior-year revenue to compare against, in which case
// the cell is left empty.
type DailyRevenueRow struct {
	Date             string
	YesterdayRevenue decimal.Decimal
	QTDRevenue       decimal.Decimal
	PriorYearRevenue decimal.Decimal
	YoY              decimal.Decimal
	HasYoY           bool
}

// DailyRevenueAppender appends to the daily revenue tab. HasDailyRow is
// the duplicate guard consulted before appending, so a re-run of the same
// day is a no-op.
type DailyRevenueAppender interface {
	HasDailyRow(ctx context.Context, date string) (bool, error)
	AppendDailyRow(ctx context.Context, row DailyRevenueRow) error
}

// TopProductsWriter overwrites a top-products tab with a fresh ranking.
type TopProductsWriter interface {
	WriteTopProducts(ctx context.Context, sheet string, products []core.ProductAggregate) error
}

// GoalsWriter updates the actual-revenue column of the quarterly goals
// tab. quarterStart names the first month of the quarter; the three rows
// below the header correspond to the quarter's months in order.
type GoalsWriter interface {
	UpdateGoalActuals(ctx context.Context, quarterStart time.Month, byMonth map[time.Month]decimal.Decimal) error
}

// Dashboard is the full write surface the dashboard updater needs.
type Dashboard interface {
	DailyRevenueAppender
	TopProductsWriter
	GoalsWriter
}
