// Package report renders aggregation results into the daily report text
// posted to Slack.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/patrickrelix/relix-daily-reporting/internal/core"
)

// minUnitsCallout is the threshold for listing a category in the report.
const minUnitsCallout = 10

// Daily carries everything the daily report needs. Categories preserves
// the catalog order so the callout list renders deterministically.
type Daily struct {
	DateLabel        string
	YesterdayRevenue decimal.Decimal
	QTDRevenue       decimal.Decimal
	PriorQTDRevenue  decimal.Decimal
	Categories       []string
	CategoryCounts   map[string]int64
}

// Build renders the report.
func Build(d Daily) string {
	yoy := FormatYoY(d.QTDRevenue, d.PriorQTDRevenue)

	lines := []string{
		fmt.Sprintf("Yesterday: %s", FormatCurrency(d.YesterdayRevenue)),
		fmt.Sprintf("QTD: %s (vs %s last year → %s)",
			FormatCurrency(d.QTDRevenue), FormatCurrency(d.PriorQTDRevenue), yoy),
		"",
		fmt.Sprintf("🎵 Vinyl units yesterday: %d", d.CategoryCounts["Vinyl"]),
	}

	var callouts []string
	for _, cat := range d.Categories {
		if count := d.CategoryCounts[cat]; count >= minUnitsCallout {
			callouts = append(callouts, fmt.Sprintf("• %s: %d units", cat, count))
		}
	}
	if len(callouts) > 0 {
		lines = append(lines, "", fmt.Sprintf("Categories with %d+ units sold:", minUnitsCallout))
		lines = append(lines, callouts...)
	}

	return strings.Join(lines, "\n")
}

// FormatCurrency formats an amount as $X,XXX.XX with half-up rounding to
// cents.
func FormatCurrency(amount decimal.Decimal) string {
	s := amount.Round(2).StringFixed(2)

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s.%s", sign, b.String(), fracPart)
}

// FormatYoY formats the year-over-year change between two amounts as
// +X.X% or -X.X%. A zero prior period has no meaningful ratio.
func FormatYoY(current, prior decimal.Decimal) string {
	if prior.IsZero() {
		return "N/A (no prior year data)"
	}
	change := current.Sub(prior).Div(prior).Mul(decimal.NewFromInt(100)).Round(1)
	sign := ""
	if change.Sign() >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%s%%", sign, change.StringFixed(1))
}

// Sample pairs a line item with its classification, for eyeballing how
// the keyword table is matching real catalog data.
type Sample struct {
	Title        string
	ProductType  string
	Quantity     int64
	ClassifiedAs string
}

// SampleLineItems returns up to n classified line items from the given
// orders.
func SampleLineItems(catalog core.Catalog, orders []core.Order, n int) []Sample {
	var samples []Sample
	for _, o := range orders {
		for _, item := range o.LineItems {
			cat, ok := catalog.Classify(item)
			if !ok {
				cat = "(none)"
			}
			samples = append(samples, Sample{
				Title:        item.Title,
				ProductType:  item.ProductType,
				Quantity:     item.Quantity,
				ClassifiedAs: cat,
			})
			if len(samples) >= n {
				return samples
			}
		}
	}
	return samples
}
