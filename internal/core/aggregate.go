package core

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ProductAggregate accumulates units and revenue for one product title.
// Category is the classification of the first line item seen for the title
// and is not re-evaluated for later occurrences.
type ProductAggregate struct {
	Title    string
	Units    int64
	Revenue  decimal.Decimal
	Category string
}

// SumRevenue sums total_price across orders (gross revenue). Orders with a
// missing or unparsable price contribute zero; an empty input yields
// exactly zero.
func SumRevenue(orders []Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		if amount, ok := ParseAmount(o.TotalPrice); ok {
			total = total.Add(amount)
		}
	}
	return total
}

// CountUnits counts units sold per category. Every catalog category is
// present in the result, at least with zero. Unclassified items are not
// counted here.
func (c Catalog) CountUnits(orders []Order) map[string]int64 {
	counts := make(map[string]int64, len(c.Categories))
	for _, cat := range c.Categories {
		counts[cat] = 0
	}
	for _, o := range orders {
		for _, item := range o.LineItems {
			if cat, ok := c.Classify(item); ok {
				counts[cat] += item.Quantity
			}
		}
	}
	return counts
}

// TopProducts groups line items by exact title and returns at most n
// aggregates sorted by units descending. Revenue uses each occurrence's own
// unit price since prices can vary order to order. Ties keep encounter
// order; unclassified products carry the "Other" label.
func (c Catalog) TopProducts(orders []Order, n int) []ProductAggregate {
	byTitle := make(map[string]*ProductAggregate)
	var encounter []string

	for _, o := range orders {
		for _, item := range o.LineItems {
			agg, seen := byTitle[item.Title]
			if !seen {
				cat, ok := c.Classify(item)
				if !ok {
					cat = OtherCategory
				}
				agg = &ProductAggregate{
					Title:    item.Title,
					Revenue:  decimal.Zero,
					Category: cat,
				}
				byTitle[item.Title] = agg
				encounter = append(encounter, item.Title)
			}
			agg.Units += item.Quantity
			if price, ok := ParseAmount(item.Price); ok {
				agg.Revenue = agg.Revenue.Add(price.Mul(decimal.NewFromInt(item.Quantity)))
			}
		}
	}

	products := make([]ProductAggregate, 0, len(encounter))
	for _, title := range encounter {
		products = append(products, *byTitle[title])
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Units > products[j].Units
	})
	if n >= 0 && len(products) > n {
		products = products[:n]
	}
	return products
}

// MonthlyRevenue buckets order revenue by the calendar month of the
// creation timestamp. Only months present in the input appear as keys;
// orders with a malformed timestamp or price are skipped.
func MonthlyRevenue(orders []Order) map[time.Month]decimal.Decimal {
	byMonth := make(map[time.Month]decimal.Decimal)
	for _, o := range orders {
		month, ok := monthOf(o.CreatedAt)
		if !ok {
			continue
		}
		amount, ok := ParseAmount(o.TotalPrice)
		if !ok {
			continue
		}
		if cur, present := byMonth[month]; present {
			byMonth[month] = cur.Add(amount)
		} else {
			byMonth[month] = amount
		}
	}
	return byMonth
}

// monthOf extracts the two-digit month from an ISO-8601 timestamp string.
func monthOf(createdAt string) (time.Month, bool) {
	if len(createdAt) < 7 {
		return 0, false
	}
	m, err := strconv.Atoi(createdAt[5:7])
	if err != nil || m < 1 || m > 12 {
		return 0, false
	}
	return time.Month(m), true
}
