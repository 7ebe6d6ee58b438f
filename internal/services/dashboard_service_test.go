package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/patrickrelix/relix-daily-reporting/internal/core"
	"github.com/patrickrelix/relix-daily-reporting/internal/sheets"
	"github.com/patrickrelix/relix-daily-reporting/internal/sheets/memory"
)

func newDashboardFixture() (*fakeFetcher, *memory.Store, *DashboardService) {
	fetcher := &fakeFetcher{windows: map[string][]core.Order{
		"2026-08-28": { // yesterday
			{TotalPrice: "200.00", LineItems: []core.LineItem{
				{Title: "Harvest LP", ProductType: "Vinyl", Quantity: 4, Price: "35.00"},
			}},
		},
		"2025-08-28": { // prior-year same day
			{TotalPrice: "160.00"},
		},
		"2026-08-22": { // rolling 7 days
			{LineItems: []core.LineItem{
				{Title: "Harvest LP", ProductType: "Vinyl", Quantity: 6, Price: "35.00"},
				{Title: "Tour Poster", ProductType: "Posters", Quantity: 2, Price: "15.00"},
			}},
		},
		"2026-07-30": { // rolling 30 days
			{LineItems: []core.LineItem{
				{Title: "Tour Poster", ProductType: "Posters", Quantity: 9, Price: "15.00"},
			}},
		},
		"2026-07-01": { // QTD with timestamps
			{CreatedAt: "2026-07-15T10:00:00-04:00", TotalPrice: "1000.00"},
			{CreatedAt: "2026-08-10T10:00:00-04:00", TotalPrice: "400.00"},
		},
	}}
	store := memory.New()
	svc := NewDashboardService(fetcher, store, core.DefaultCatalog(), nil, nil,
		"Top Products (7 Days)", "Top Products (30 Days)", 20)
	return fetcher, store, svc
}

func TestDashboardService_Update(t *testing.T) {
	_, store, svc := newDashboardFixture()

	if err := svc.Update(context.Background(), testRanges()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	// Daily revenue row.
	if len(store.DailyRows) != 1 {
		t.Fatalf("daily rows = %d, want 1", len(store.DailyRows))
	}
	row := store.DailyRows[0]
	if row.Date != "2026-08-28" {
		t.Errorf("row date = %q", row.Date)
	}
	if want := decimal.RequireFromString("200.00"); !row.YesterdayRevenue.Equal(want) {
		t.Errorf("yesterday revenue = %s, want %s", row.YesterdayRevenue, want)
	}
	if !row.HasYoY {
		t.Fatal("expected YoY to be set")
	}
	if want := decimal.RequireFromString("0.25"); !row.YoY.Equal(want) {
		t.Errorf("YoY = %s, want 0.25", row.YoY)
	}

	// Top products tabs.
	seven := store.TopProducts["Top Products (7 Days)"]
	if len(seven) != 2 || seven[0].Title != "Harvest LP" {
		t.Errorf("7-day top products = %+v", seven)
	}
	thirty := store.TopProducts["Top Products (30 Days)"]
	if len(thirty) != 1 || thirty[0].Units != 9 {
		t.Errorf("30-day top products = %+v", thirty)
	}

	// Goal actuals: Q3 months July-September.
	if want := decimal.RequireFromString("1000.00"); !store.GoalActuals[time.July].Equal(want) {
		t.Errorf("July actual = %s, want %s", store.GoalActuals[time.July], want)
	}
	if want := decimal.RequireFromString("400.00"); !store.GoalActuals[time.August].Equal(want) {
		t.Errorf("August actual = %s, want %s", store.GoalActuals[time.August], want)
	}
	if !store.GoalActuals[time.September].IsZero() {
		t.Errorf("September actual = %s, want 0", store.GoalActuals[time.September])
	}
}

func TestDashboardService_Update_SkipsDuplicateDay(t *testing.T) {
	_, store, svc := newDashboardFixture()
	store.DailyRows = append(store.DailyRows, sheets.DailyRevenueRow{Date: "2026-08-28"})

	if err := svc.Update(context.Background(), testRanges()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(store.DailyRows) != 1 {
		t.Errorf("daily rows = %d, want 1 (duplicate day must not append)", len(store.DailyRows))
	}
	// The rest of the dashboard still refreshes.
	if len(store.TopProducts) != 2 {
		t.Errorf("top products tabs written = %d, want 2", len(store.TopProducts))
	}
}

func TestDashboardService_Update_NoPriorYearData(t *testing.T) {
	fetcher, store, _ := newDashboardFixture()
	delete(fetcher.windows, "2025-08-28")
	svc := NewDashboardService(fetcher, store, core.DefaultCatalog(), nil, nil, "7d", "30d", 20)

	if err := svc.Update(context.Background(), testRanges()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if store.DailyRows[0].HasYoY {
		t.Error("YoY should be empty when prior-year revenue is zero")
	}
}
