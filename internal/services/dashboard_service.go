package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/patrickrelix/relix-daily-reporting/internal/amqp"
	"github.com/patrickrelix/relix-daily-reporting/internal/core"
	"github.com/patrickrelix/relix-daily-reporting/internal/dates"
	"github.com/patrickrelix/relix-daily-reporting/internal/sheets"
	"github.com/patrickrelix/relix-daily-reporting/internal/storage"
)

// DashboardService refreshes the spreadsheet dashboard from order data.
type DashboardService struct {
	fetcher    OrderFetcher
	dashboard  sheets.Dashboard
	catalog    core.Catalog
	history    *storage.Repository
	events     *amqp.Client
	top7Sheet  string
	top30Sheet string
	topN       int
}

// NewDashboardService wires the dashboard updater. history and events
// may be nil.
func NewDashboardService(fetcher OrderFetcher, dashboard sheets.Dashboard, catalog core.Catalog,
	history *storage.Repository, events *amqp.Client, top7Sheet, top30Sheet string, topN int) *DashboardService {
	return &DashboardService{
		fetcher:    fetcher,
		dashboard:  dashboard,
		catalog:    catalog,
		history:    history,
		events:     events,
		top7Sheet:  top7Sheet,
		top30Sheet: top30Sheet,
		topN:       topN,
	}
}

// Update fetches the five order windows and refreshes every dashboard
// tab: the daily revenue row (duplicate-day guarded), both top-products
// tabs, and the quarter goals' actual revenue column.
func (s *DashboardService) Update(ctx context.Context, r dates.Ranges) error {
	var yesterday, priorYesterday, sevenDay, thirtyDay, qtd []core.Order

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		yesterday, err = s.fetcher.FetchOrders(gctx, r.YesterdayStart, r.YesterdayEnd, "")
		return err
	})
	g.Go(func() error {
		var err error
		priorYesterday, err = s.fetcher.FetchOrders(gctx, r.PriorYesterdayStart, r.PriorYesterdayEnd, fieldsRevenueOnly)
		return err
	})
	g.Go(func() error {
		var err error
		sevenDay, err = s.fetcher.FetchOrders(gctx, r.SevenDaysStart, r.WindowEnd, "")
		return err
	})
	g.Go(func() error {
		var err error
		thirtyDay, err = s.fetcher.FetchOrders(gctx, r.ThirtyDaysStart, r.WindowEnd, "")
		return err
	})
	g.Go(func() error {
		var err error
		qtd, err = s.fetcher.FetchOrders(gctx, r.QTDStart, r.QTDEnd, fieldsRevenueDated)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("fetch order windows: %w", err)
	}

	yesterdayRevenue := core.SumRevenue(yesterday)

	if err := s.updateDailyRevenue(ctx, r, yesterday, priorYesterday, qtd); err != nil {
		return fmt.Errorf("update daily revenue: %w", err)
	}

	if err := s.dashboard.WriteTopProducts(ctx, s.top7Sheet, s.catalog.TopProducts(sevenDay, s.topN)); err != nil {
		return fmt.Errorf("update %s: %w", s.top7Sheet, err)
	}
	if err := s.dashboard.WriteTopProducts(ctx, s.top30Sheet, s.catalog.TopProducts(thirtyDay, s.topN)); err != nil {
		return fmt.Errorf("update %s: %w", s.top30Sheet, err)
	}

	if err := s.dashboard.UpdateGoalActuals(ctx, r.QTDStart.Month(), core.MonthlyRevenue(qtd)); err != nil {
		return fmt.Errorf("update goal actuals: %w", err)
	}

	s.finishRun(ctx, r.YesterdayDate(), yesterdayRevenue)
	return nil
}

func (s *DashboardService) updateDailyRevenue(ctx context.Context, r dates.Ranges,
	yesterday, priorYesterday, qtd []core.Order) error {

	date := r.YesterdayDate()
	exists, err := s.dashboard.HasDailyRow(ctx, date)
	if err != nil {
		return fmt.Errorf("check existing row: %w", err)
	}
	if exists {
		slog.InfoContext(ctx, "Daily revenue row already exists, skipping", "date", date)
		return nil
	}

	row := sheets.DailyRevenueRow{
		Date:             date,
		YesterdayRevenue: core.SumRevenue(yesterday),
		QTDRevenue:       core.SumRevenue(qtd),
		PriorYearRevenue: core.SumRevenue(priorYesterday),
	}
	if row.PriorYearRevenue.IsPositive() {
		row.YoY = row.YesterdayRevenue.Sub(row.PriorYearRevenue).Div(row.PriorYearRevenue)
		row.HasYoY = true
	}

	return s.dashboard.AppendDailyRow(ctx, row)
}

func (s *DashboardService) finishRun(ctx context.Context, reportDate string, revenue decimal.Decimal) {
	if s.history != nil {
		if _, err := s.history.RecordRun(ctx, storage.KindDashboardUpdate, reportDate, revenue); err != nil {
			slog.ErrorContext(ctx, "Failed to record run", "error", err)
		}
	}
	if s.events != nil {
		msg := amqp.NewReportGeneratedMessage(storage.KindDashboardUpdate, reportDate, revenue.String())
		if err := s.events.PublishReportGenerated(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish run event", "error", err)
		}
	}
}
