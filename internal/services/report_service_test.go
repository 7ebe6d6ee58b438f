package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/patrickrelix/relix-daily-reporting/internal/core"
	"github.com/patrickrelix/relix-daily-reporting/internal/dates"
)

// fakeFetcher serves canned orders keyed by the window's start date.
// Windows are fetched concurrently, so access is locked.
type fakeFetcher struct {
	mu      sync.Mutex
	windows map[string][]core.Order
	calls   []string
}

func (f *fakeFetcher) FetchOrders(_ context.Context, start, _ time.Time, fields string) ([]core.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := start.Format("2006-01-02")
	f.calls = append(f.calls, key+"|"+fields)
	return f.windows[key], nil
}

func testRanges() dates.Ranges {
	loc := time.FixedZone("EST", -5*3600)
	return dates.Compute(time.Date(2026, 8, 29, 6, 0, 0, 0, loc))
}

func TestReportService_GenerateDaily(t *testing.T) {
	r := testRanges()
	fetcher := &fakeFetcher{windows: map[string][]core.Order{
		"2026-08-28": { // yesterday, full orders
			{TotalPrice: "120.00", LineItems: []core.LineItem{
				{Title: "Abbey Road LP", Quantity: 11, Price: "30.00"},
				{Title: "Tour Tee", ProductType: "Tees", Quantity: 2, Price: "25.00"},
			}},
			{TotalPrice: "30.50"},
		},
		"2026-07-01": { // QTD, revenue only
			{TotalPrice: "1000.00"},
			{TotalPrice: "500.00"},
		},
		"2025-07-01": { // prior-year QTD
			{TotalPrice: "1200.00"},
		},
	}}

	svc := NewReportService(fetcher, core.DefaultCatalog(), nil, nil)
	result, err := svc.GenerateDaily(context.Background(), r)
	if err != nil {
		t.Fatalf("GenerateDaily() error = %v", err)
	}

	if want := decimal.RequireFromString("150.50"); !result.YesterdayRevenue.Equal(want) {
		t.Errorf("YesterdayRevenue = %s, want %s", result.YesterdayRevenue, want)
	}
	if want := decimal.RequireFromString("1500.00"); !result.QTDRevenue.Equal(want) {
		t.Errorf("QTDRevenue = %s, want %s", result.QTDRevenue, want)
	}
	if got := result.CategoryCounts["Vinyl"]; got != 11 {
		t.Errorf("Vinyl units = %d, want 11", got)
	}
	if len(result.Samples) != 2 {
		t.Errorf("samples = %d, want 2", len(result.Samples))
	}

	for _, want := range []string{
		"Yesterday: $150.50",
		"QTD: $1,500.00 (vs $1,200.00 last year → +25.0%)",
		"🎵 Vinyl units yesterday: 11",
		"• Vinyl: 11 units",
	} {
		if !strings.Contains(result.Text, want) {
			t.Errorf("report text missing %q:\n%s", want, result.Text)
		}
	}

	// QTD windows must request the sparse field set.
	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	var sparse int
	for _, call := range fetcher.calls {
		if strings.HasSuffix(call, "|"+fieldsRevenueOnly) {
			sparse++
		}
	}
	if sparse != 2 {
		t.Errorf("sparse-field fetches = %d, want 2 (QTD and prior QTD)", sparse)
	}
}

func TestReportService_GenerateDaily_EmptyWindows(t *testing.T) {
	fetcher := &fakeFetcher{windows: map[string][]core.Order{}}
	svc := NewReportService(fetcher, core.DefaultCatalog(), nil, nil)

	result, err := svc.GenerateDaily(context.Background(), testRanges())
	if err != nil {
		t.Fatalf("GenerateDaily() error = %v", err)
	}
	if !result.YesterdayRevenue.IsZero() || !result.QTDRevenue.IsZero() {
		t.Error("zero orders should aggregate to zero revenue")
	}
	if !strings.Contains(result.Text, "N/A (no prior year data)") {
		t.Errorf("expected N/A YoY in:\n%s", result.Text)
	}
	if len(result.CategoryCounts) != 4 {
		t.Errorf("CategoryCounts has %d entries, want all 4 fixed categories", len(result.CategoryCounts))
	}
}
