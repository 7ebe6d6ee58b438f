package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSumRevenue(t *testing.T) {
	tests := []struct {
		name   string
		orders []Order
		want   string
	}{
		{
			name:   "empty input is exactly zero",
			orders: nil,
			want:   "0",
		},
		{
			name: "malformed price contributes zero",
			orders: []Order{
				{TotalPrice: "10.00"},
				{TotalPrice: "invalid"},
				{TotalPrice: "5.50"},
			},
			want: "15.50",
		},
		{
			name: "missing price contributes zero",
			orders: []Order{
				{TotalPrice: "42.00"},
				{},
			},
			want: "42.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SumRevenue(tt.orders)
			want := decimal.RequireFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("SumRevenue() = %s, want %s", got, want)
			}
		})
	}
}

func TestSumRevenue_OrderIndependent(t *testing.T) {
	orders := []Order{
		{TotalPrice: "1.10"},
		{TotalPrice: "2.20"},
		{TotalPrice: "3.33"},
	}
	reversed := []Order{orders[2], orders[1], orders[0]}

	if a, b := SumRevenue(orders), SumRevenue(reversed); !a.Equal(b) {
		t.Errorf("SumRevenue() depends on input order: %s vs %s", a, b)
	}
}

func TestCatalog_CountUnits(t *testing.T) {
	catalog := DefaultCatalog()
	orders := []Order{
		{LineItems: []LineItem{
			{Title: "Abbey Road LP", ProductType: "", Quantity: 2},
			{Title: "Tour Tee", ProductType: "Tees", Quantity: 3},
			{Title: "Tote Bag", ProductType: "Accessories", Quantity: 4},
		}},
		{LineItems: []LineItem{
			{Title: "Harvest", ProductType: "Vinyl", Quantity: 1},
		}},
	}

	counts := catalog.CountUnits(orders)

	want := map[string]int64{"Vinyl": 3, "Books": 0, "Posters": 0, "Tees": 3}
	for cat, n := range want {
		got, present := counts[cat]
		if !present {
			t.Errorf("category %q missing from counts", cat)
			continue
		}
		if got != n {
			t.Errorf("counts[%q] = %d, want %d", cat, got, n)
		}
	}

	// Unclassified units are dropped from category counts.
	var total int64
	for _, n := range counts {
		total += n
	}
	if total != 6 {
		t.Errorf("total counted units = %d, want 6 (tote bag excluded)", total)
	}
}

func TestCatalog_CountUnits_EmptyInput(t *testing.T) {
	counts := DefaultCatalog().CountUnits(nil)
	if len(counts) != 4 {
		t.Fatalf("expected all 4 fixed categories, got %d", len(counts))
	}
	for cat, n := range counts {
		if n != 0 {
			t.Errorf("counts[%q] = %d, want 0", cat, n)
		}
	}
}

func TestCatalog_TopProducts(t *testing.T) {
	catalog := DefaultCatalog()

	t.Run("groups by exact title", func(t *testing.T) {
		orders := []Order{
			{LineItems: []LineItem{
				{Title: "Tote Bag", Price: "20.00", Quantity: 3},
			}},
			{LineItems: []LineItem{
				{Title: "Tote Bag", Price: "20.00", Quantity: 5},
			}},
		}

		got := catalog.TopProducts(orders, 10)
		if len(got) != 1 {
			t.Fatalf("got %d aggregates, want 1", len(got))
		}
		p := got[0]
		if p.Title != "Tote Bag" || p.Units != 8 {
			t.Errorf("aggregate = %+v, want Tote Bag with 8 units", p)
		}
		if !p.Revenue.Equal(decimal.RequireFromString("160.00")) {
			t.Errorf("revenue = %s, want 160.00", p.Revenue)
		}
		if p.Category != OtherCategory {
			t.Errorf("category = %q, want %q", p.Category, OtherCategory)
		}
	})

	t.Run("truncates to n with highest units", func(t *testing.T) {
		orders := []Order{{LineItems: []LineItem{
			{Title: "A", Quantity: 5, Price: "1.00"},
			{Title: "B", Quantity: 9, Price: "1.00"},
			{Title: "C", Quantity: 2, Price: "1.00"},
			{Title: "D", Quantity: 7, Price: "1.00"},
			{Title: "E", Quantity: 1, Price: "1.00"},
		}}}

		got := catalog.TopProducts(orders, 3)
		if len(got) != 3 {
			t.Fatalf("got %d aggregates, want 3", len(got))
		}
		wantTitles := []string{"B", "D", "A"}
		for i, w := range wantTitles {
			if got[i].Title != w {
				t.Errorf("rank %d = %q, want %q", i+1, got[i].Title, w)
			}
		}
	})

	t.Run("ties keep encounter order", func(t *testing.T) {
		orders := []Order{{LineItems: []LineItem{
			{Title: "First", Quantity: 4},
			{Title: "Second", Quantity: 4},
			{Title: "Third", Quantity: 4},
		}}}

		got := catalog.TopProducts(orders, 5)
		wantTitles := []string{"First", "Second", "Third"}
		for i, w := range wantTitles {
			if got[i].Title != w {
				t.Errorf("position %d = %q, want %q", i, got[i].Title, w)
			}
		}
	})

	t.Run("category fixed by first occurrence", func(t *testing.T) {
		orders := []Order{{LineItems: []LineItem{
			{Title: "Anthology", ProductType: "Books", Quantity: 1},
			{Title: "Anthology", ProductType: "Vinyl", Quantity: 1},
		}}}

		got := catalog.TopProducts(orders, 1)
		if got[0].Category != "Books" {
			t.Errorf("category = %q, want Books (first seen)", got[0].Category)
		}
	})

	t.Run("varying prices summed per occurrence", func(t *testing.T) {
		orders := []Order{{LineItems: []LineItem{
			{Title: "Print", ProductType: "Posters", Price: "10.00", Quantity: 1},
			{Title: "Print", ProductType: "Posters", Price: "8.00", Quantity: 2},
		}}}

		got := catalog.TopProducts(orders, 1)
		if !got[0].Revenue.Equal(decimal.RequireFromString("26.00")) {
			t.Errorf("revenue = %s, want 26.00", got[0].Revenue)
		}
	})

	t.Run("fewer groups than n returns all", func(t *testing.T) {
		orders := []Order{{LineItems: []LineItem{{Title: "Only", Quantity: 1}}}}
		if got := catalog.TopProducts(orders, 20); len(got) != 1 {
			t.Errorf("got %d aggregates, want 1", len(got))
		}
	})
}

func TestMonthlyRevenue(t *testing.T) {
	orders := []Order{
		{CreatedAt: "2026-01-05T10:00:00-05:00", TotalPrice: "10.00"},
		{CreatedAt: "2026-01-20T10:00:00-05:00", TotalPrice: "5.00"},
		{CreatedAt: "2026-03-01T10:00:00-05:00", TotalPrice: "7.50"},
		{CreatedAt: "garbage", TotalPrice: "99.00"},
		{CreatedAt: "", TotalPrice: "99.00"},
		{CreatedAt: "2026-02-10T10:00:00-05:00", TotalPrice: "not-a-number"},
	}

	byMonth := MonthlyRevenue(orders)

	if got := byMonth[time.January]; !got.Equal(decimal.RequireFromString("15.00")) {
		t.Errorf("January = %s, want 15.00", got)
	}
	if got := byMonth[time.March]; !got.Equal(decimal.RequireFromString("7.50")) {
		t.Errorf("March = %s, want 7.50", got)
	}
	if _, present := byMonth[time.February]; present {
		t.Error("February should be absent, not zero-valued")
	}
	for m := range byMonth {
		if m < time.January || m > time.December {
			t.Errorf("month key %d out of range", m)
		}
	}
}
