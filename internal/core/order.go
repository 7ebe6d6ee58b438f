// Package core holds the order domain model and the pure aggregation
// functions used by both reporting binaries.
//
// The order shape mirrors the commerce API payload and must tolerate any
// field being absent; a malformed record contributes zero instead of
// failing an aggregate.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Order is one paid or partially-paid transaction as returned by the
// commerce API. Numeric amounts arrive as decimal strings.
type Order struct {
	ID         int64      `json:"id"`
	CreatedAt  string     `json:"created_at"`
	TotalPrice string     `json:"total_price"`
	LineItems  []LineItem `json:"line_items"`
}

// LineItem is one product line within an order.
type LineItem struct {
	Title       string `json:"title"`
	ProductType string `json:"product_type"`
	Price       string `json:"price"`
	Quantity    int64  `json:"quantity"`
}

// ParseAmount parses a decimal currency string. Missing or unparsable
// values report ok=false and a zero amount; callers treat that as a zero
// contribution, never an error.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
