package core

import "strings"

// KeywordRule maps a lowercase keyword to a category. Rules are evaluated
// in slice order and the first match wins, so the table order is the
// tie-break, not alphabetical order.
type KeywordRule struct {
	Keyword  string
	Category string
}

// Catalog is the classification configuration: the closed set of business
// categories plus the ordered keyword table. It is plain data so tests can
// inject alternate tables without touching process state.
type Catalog struct {
	Categories []string
	Keywords   []KeywordRule
}

// OtherCategory labels products whose line items never matched a category.
const OtherCategory = "Other"

// DefaultCatalog returns the store's category setup.
func DefaultCatalog() Catalog {
	return Catalog{
		Categories: []string{"Vinyl", "Books", "Posters", "Tees"},
		Keywords: []KeywordRule{
			{"vinyl", "Vinyl"},
			{"record", "Vinyl"},
			{"lp", "Vinyl"},
			{"book", "Books"},
			{"poster", "Posters"},
			{"print", "Posters"},
			{"tee", "Tees"},
			{"t-shirt", "Tees"},
			{"shirt", "Tees"},
		},
	}
}

// Classify assigns a line item to a category. Precedence, first match wins:
//
//  1. product type equals a category name (case-insensitive, trimmed)
//  2. keyword substring of the product type, in table order
//  3. keyword substring of the title, in table order
//
// Missing fields are empty strings, which simply never match; ok=false
// means unclassified.
func (c Catalog) Classify(item LineItem) (string, bool) {
	productType := strings.ToLower(strings.TrimSpace(item.ProductType))

	for _, cat := range c.Categories {
		if productType == strings.ToLower(cat) {
			return cat, true
		}
	}

	for _, rule := range c.Keywords {
		if strings.Contains(productType, rule.Keyword) {
			return rule.Category, true
		}
	}

	title := strings.ToLower(item.Title)
	for _, rule := range c.Keywords {
		if strings.Contains(title, rule.Keyword) {
			return rule.Category, true
		}
	}

	return "", false
}
