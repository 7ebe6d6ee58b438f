// Package services orchestrates the report runs: fetch the order
// windows, run the aggregations, publish the results, record history.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/patrickrelix/relix-daily-reporting/internal/amqp"
	"github.com/patrickrelix/relix-daily-reporting/internal/core"
	"github.com/patrickrelix/relix-daily-reporting/internal/dates"
	"github.com/patrickrelix/relix-daily-reporting/internal/report"
	"github.com/patrickrelix/relix-daily-reporting/internal/storage"
)

// Sparse field sets for windows where line items are not needed; large
// QTD windows get much cheaper this way.
const (
	fieldsRevenueOnly  = "id,total_price"
	fieldsRevenueDated = "id,total_price,created_at"
)

// OrderFetcher is the slice of the commerce client the services use.
type OrderFetcher interface {
	FetchOrders(ctx context.Context, start, end time.Time, fields string) ([]core.Order, error)
}

// ReportService produces the daily revenue report.
type ReportService struct {
	fetcher OrderFetcher
	catalog core.Catalog
	history *storage.Repository
	events  *amqp.Client
}

// NewReportService wires the daily report. history and events may be nil;
// the run then skips recording and event publishing.
func NewReportService(fetcher OrderFetcher, catalog core.Catalog, history *storage.Repository, events *amqp.Client) *ReportService {
	return &ReportService{
		fetcher: fetcher,
		catalog: catalog,
		history: history,
		events:  events,
	}
}

// DailyResult is everything the daily report run produced.
type DailyResult struct {
	Text             string
	YesterdayRevenue decimal.Decimal
	QTDRevenue       decimal.Decimal
	PriorQTDRevenue  decimal.Decimal
	CategoryCounts   map[string]int64
	Samples          []report.Sample
}

// GenerateDaily fetches yesterday's, QTD and prior-year QTD orders,
// aggregates them and renders the report text. The three windows are
// independent and fetched concurrently.
func (s *ReportService) GenerateDaily(ctx context.Context, r dates.Ranges) (*DailyResult, error) {
	var yesterdayOrders, qtdOrders, priorOrders []core.Order

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		yesterdayOrders, err = s.fetcher.FetchOrders(gctx, r.YesterdayStart, r.YesterdayEnd, "")
		return err
	})
	g.Go(func() error {
		var err error
		qtdOrders, err = s.fetcher.FetchOrders(gctx, r.QTDStart, r.QTDEnd, fieldsRevenueOnly)
		return err
	})
	g.Go(func() error {
		var err error
		priorOrders, err = s.fetcher.FetchOrders(gctx, r.PriorQTDStart, r.PriorQTDEnd, fieldsRevenueOnly)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch order windows: %w", err)
	}

	result := &DailyResult{
		YesterdayRevenue: core.SumRevenue(yesterdayOrders),
		QTDRevenue:       core.SumRevenue(qtdOrders),
		PriorQTDRevenue:  core.SumRevenue(priorOrders),
		CategoryCounts:   s.catalog.CountUnits(yesterdayOrders),
		Samples:          report.SampleLineItems(s.catalog, yesterdayOrders, 5),
	}
	result.Text = report.Build(report.Daily{
		DateLabel:        r.YesterdayLabel(),
		YesterdayRevenue: result.YesterdayRevenue,
		QTDRevenue:       result.QTDRevenue,
		PriorQTDRevenue:  result.PriorQTDRevenue,
		Categories:       s.catalog.Categories,
		CategoryCounts:   result.CategoryCounts,
	})

	s.finishRun(ctx, storage.KindDailyReport, r.YesterdayDate(), result.YesterdayRevenue)
	return result, nil
}

// finishRun records history and publishes the run event. Both are
// best-effort: the report itself already succeeded.
func (s *ReportService) finishRun(ctx context.Context, kind, reportDate string, revenue decimal.Decimal) {
	if s.history != nil {
		if _, err := s.history.RecordRun(ctx, kind, reportDate, revenue); err != nil {
			slog.ErrorContext(ctx, "Failed to record run", "kind", kind, "error", err)
		}
	}
	if s.events != nil {
		msg := amqp.NewReportGeneratedMessage(kind, reportDate, revenue.String())
		if err := s.events.PublishReportGenerated(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish run event", "kind", kind, "error", err)
		}
	}
}
