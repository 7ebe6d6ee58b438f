// Package google implements the dashboard ports on top of the Google
// Sheets API using service-account credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/patrickrelix/relix-daily-reporting/internal/core"
	"github.com/patrickrelix/relix-daily-reporting/internal/sheets"
)

// topProductsRows bounds the cleared/written region of a top-products tab
// (header row + 20 ranked rows, columns A:E).
const topProductsRows = 20

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	dailySheet    string
	goalsSheet    string
}

var _ sheets.Dashboard = (*Client)(nil)

// NewFromEnv creates a Sheets client for the given spreadsheet using
// service-account credentials from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context, spreadsheetID, dailySheet, goalsSheet string) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		dailySheet:    dailySheet,
		goalsSheet:    goalsSheet,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	inlineJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	credFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if inlineJSON == "" && credFile == "" {
		credFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case inlineJSON != "":
		credentialsJSON = []byte(inlineJSON)
	case credFile != "":
		data, err := os.ReadFile(credFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

// HasDailyRow reports whether the daily revenue tab already contains a
// row for the given date (column A holds the date keys).
func (c *Client) HasDailyRow(ctx context.Context, date string) (bool, error) {
	rng := fmt.Sprintf("%s!A:A", c.dailySheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("read %s: %w", rng, err)
	}
	for _, row := range resp.Values {
		if len(row) > 0 && strings.TrimSpace(fmt.Sprint(row[0])) == date {
			return true, nil
		}
	}
	return false, nil
}

// AppendDailyRow appends one row of daily revenue figures.
func (c *Client) AppendDailyRow(ctx context.Context, row sheets.DailyRevenueRow) error {
	yoy := any("")
	if row.HasYoY {
		yoy = row.YoY.InexactFloat64()
	}
	vr := &gsheet.ValueRange{Values: [][]any{{
		row.Date,
		row.YesterdayRevenue.InexactFloat64(),
		row.QTDRevenue.InexactFloat64(),
		row.PriorYearRevenue.InexactFloat64(),
		yoy,
	}}}

	rng := fmt.Sprintf("%s!A:E", c.dailySheet)
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", rng, err)
	}

	slog.InfoContext(ctx, "Appended daily revenue row",
		"sheet", c.dailySheet, "date", row.Date)
	return nil
}

// WriteTopProducts clears the data region of a top-products tab and
// writes the fresh ranking below the header row.
func (c *Client) WriteTopProducts(ctx context.Context, sheet string, products []core.ProductAggregate) error {
	clearRng := fmt.Sprintf("%s!A2:E%d", sheet, 1+topProductsRows+1)
	clearReq := &gsheet.BatchClearValuesRequest{Ranges: []string{clearRng}}
	if _, err := c.svc.Spreadsheets.Values.BatchClear(c.spreadsheetID, clearReq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", clearRng, err)
	}

	if len(products) == 0 {
		slog.InfoContext(ctx, "No products to write", "sheet", sheet)
		return nil
	}

	rows := make([][]any, 0, len(products))
	for rank, p := range products {
		rows = append(rows, []any{
			rank + 1,
			p.Title,
			p.Units,
			p.Revenue.InexactFloat64(),
			p.Category,
		})
	}

	rng := fmt.Sprintf("%s!A2:E%d", sheet, 1+len(rows))
	vr := &gsheet.ValueRange{Values: rows}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}

	slog.InfoContext(ctx, "Wrote top products", "sheet", sheet, "products", len(rows))
	return nil
}

// UpdateGoalActuals batch-updates the actual revenue column (C) of the
// goals tab. Rows 2-4 hold the quarter's three months in order. The ad
// revenue columns are manual entry and are never touched.
func (c *Client) UpdateGoalActuals(ctx context.Context, quarterStart time.Month, byMonth map[time.Month]decimal.Decimal) error {
	data := make([]*gsheet.ValueRange, 0, 3)
	for i := 0; i < 3; i++ {
		month := quarterStart + time.Month(i)
		revenue := decimal.Zero
		if v, ok := byMonth[month]; ok {
			revenue = v
		}
		data = append(data, &gsheet.ValueRange{
			Range:  fmt.Sprintf("%s!C%d", c.goalsSheet, 2+i),
			Values: [][]any{{revenue.InexactFloat64()}},
		})
	}

	req := &gsheet.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}
	if _, err := c.svc.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("batch update %s: %w", c.goalsSheet, err)
	}

	slog.InfoContext(ctx, "Updated goal actuals",
		"sheet", c.goalsSheet, "quarter_start", quarterStart.String())
	return nil
}
