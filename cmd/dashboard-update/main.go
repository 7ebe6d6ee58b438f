// Command dashboard-update pulls sales data from the commerce API and
// refreshes the Google Sheets dashboard: the daily revenue tracker, the
// rolling top-products tabs, and the quarterly goals' actual revenue.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/patrickrelix/relix-daily-reporting/internal/amqp"
	"github.com/patrickrelix/relix-daily-reporting/internal/config"
	"github.com/patrickrelix/relix-daily-reporting/internal/core"
	"github.com/patrickrelix/relix-daily-reporting/internal/dates"
	applog "github.com/patrickrelix/relix-daily-reporting/internal/log"
	"github.com/patrickrelix/relix-daily-reporting/internal/services"
	gsheet "github.com/patrickrelix/relix-daily-reporting/internal/sheets/google"
	"github.com/patrickrelix/relix-daily-reporting/internal/shopify"
	"github.com/patrickrelix/relix-daily-reporting/internal/storage"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "show date ranges and exit without API calls")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.Setup("dashboard-update", cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("Load report timezone", "error", err)
		os.Exit(1)
	}
	ranges := dates.Compute(time.Now().In(loc))

	if *dryRun {
		printDryRun(cfg, ranges)
		return
	}

	if cfg.ShopifyAPIToken == "" {
		logger.Error("SHOPIFY_API_TOKEN environment variable is not set")
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID environment variable is not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dashboard, err := gsheet.NewFromEnv(ctx, cfg.GoogleSpreadsheetID, cfg.DailyRevenueSheet, cfg.GoalsSheet)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	history, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Warn("Run history unavailable", "error", err)
		history = nil
	} else {
		defer history.Close()
	}

	var events *amqp.Client
	if cfg.AMQPURL != "" {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, skipping run events", "error", err)
		} else {
			defer events.Close()
		}
	}

	client := shopify.NewClient(cfg.ShopifyStore, cfg.ShopifyAPIToken, cfg.ShopifyAPIVersion)
	svc := services.NewDashboardService(client, dashboard, core.DefaultCatalog(),
		history, events, cfg.TopProducts7Sheet, cfg.TopProducts30Sheet, cfg.TopProductsCount)

	logger.Info("Dashboard update started", "date", ranges.YesterdayDate())
	if err := svc.Update(ctx, ranges); err != nil {
		logger.Error("Dashboard update failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Dashboard update complete",
		"url", "https://docs.google.com/spreadsheets/d/"+cfg.GoogleSpreadsheetID+"/edit")
}

func printDryRun(cfg *config.Config, r dates.Ranges) {
	slog.Info("DRY RUN — date ranges that would be queried")
	slog.Info("Yesterday", "from", r.YesterdayStart.Format(time.RFC3339), "to", r.YesterdayEnd.Format(time.RFC3339))
	slog.Info("7-day window", "from", r.SevenDaysStart.Format(time.RFC3339), "to", r.WindowEnd.Format(time.RFC3339))
	slog.Info("30-day window", "from", r.ThirtyDaysStart.Format(time.RFC3339), "to", r.WindowEnd.Format(time.RFC3339))
	slog.Info("QTD", "from", r.QTDStart.Format(time.RFC3339), "to", r.QTDEnd.Format(time.RFC3339))
	slog.Info("Prior year day", "from", r.PriorYesterdayStart.Format(time.RFC3339), "to", r.PriorYesterdayEnd.Format(time.RFC3339))
	slog.Info("Store", "value", cfg.ShopifyStore)
	slog.Info("Token set", "value", cfg.ShopifyAPIToken != "")
	slog.Info("Spreadsheet", "value", cfg.GoogleSpreadsheetID)
}
