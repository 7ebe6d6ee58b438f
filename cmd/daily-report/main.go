// Command daily-report pulls yesterday's sales data from the commerce
// API and generates the formatted revenue report, optionally posting it
// to Slack.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/patrickrelix/relix-daily-reporting/internal/amqp"
	"github.com/patrickrelix/relix-daily-reporting/internal/config"
	"github.com/patrickrelix/relix-daily-reporting/internal/core"
	"github.com/patrickrelix/relix-daily-reporting/internal/dates"
	applog "github.com/patrickrelix/relix-daily-reporting/internal/log"
	"github.com/patrickrelix/relix-daily-reporting/internal/services"
	"github.com/patrickrelix/relix-daily-reporting/internal/shopify"
	"github.com/patrickrelix/relix-daily-reporting/internal/slack"
	"github.com/patrickrelix/relix-daily-reporting/internal/storage"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "show date ranges without making API calls")
	toSlack := flag.Bool("slack", false, "send the report to Slack via webhook")
	showHistory := flag.Bool("history", false, "print recent report runs and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.Setup("daily-report", cfg.LogLevel)

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *showHistory {
		if err := printHistory(ctx, cfg.SQLiteDBPath); err != nil {
			logger.Error("Read run history", "error", err)
			os.Exit(1)
		}
		return
	}

	if cfg.ShopifyAPIToken == "" {
		logger.Error("SHOPIFY_API_TOKEN environment variable is not set")
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
	svc := services.NewReportService(client, core.DefaultCatalog(), history, events)

	logger.Info("Generating daily report", "date", ranges.YesterdayLabel())
	result, err := svc.GenerateDaily(ctx, ranges)
	if err != nil {
		logger.Error("Report generation failed", "error", err)
		os.Exit(1)
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println(result.Text)
	fmt.Println(strings.Repeat("=", 60))

	if *toSlack {
		if err := slack.NewWebhook(cfg.SlackWebhookURL).Post(ctx, result.Text); err != nil {
			logger.Error("Slack delivery failed", "error", err)
			os.Exit(1)
		}
		logger.Info("Report sent to Slack")
		return
	}

	// Manual runs get a classification sample for eyeballing the
	// keyword table against live catalog data.
	if len(result.Samples) > 0 {
		fmt.Println("\n--- Sample line items (for category verification) ---")
		for i, s := range result.Samples {
			fmt.Printf("  %d. %q\n", i+1, s.Title)
			fmt.Printf("     product_type: %q  →  classified as: %s\n", s.ProductType, s.ClassifiedAs)
			fmt.Printf("     quantity: %d\n", s.Quantity)
		}
	}
}

func printHistory(ctx context.Context, dbPath string) error {
	history, err := storage.NewRepository(dbPath)
	if err != nil {
		return err
	}
	defer history.Close()

	runs, err := history.RecentRuns(ctx, storage.KindDailyReport, 10)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}
	for _, run := range runs {
		fmt.Printf("%s  %-16s  $%s\n", run.ReportDate, run.Kind, run.Revenue.StringFixed(2))
	}
	return nil
}

func printDryRun(cfg *config.Config, r dates.Ranges) {
	slog.Info("DRY RUN — date ranges that would be queried")
	slog.Info("Report label", "value", r.YesterdayLabel())
	slog.Info("Yesterday", "from", r.YesterdayStart.Format(time.RFC3339), "to", r.YesterdayEnd.Format(time.RFC3339))
	slog.Info("QTD (current)", "from", r.QTDStart.Format(time.RFC3339), "to", r.QTDEnd.Format(time.RFC3339))
	slog.Info("QTD (prior year)", "from", r.PriorQTDStart.Format(time.RFC3339), "to", r.PriorQTDEnd.Format(time.RFC3339))
	slog.Info("Store", "value", cfg.ShopifyStore)
	slog.Info("API version", "value", cfg.ShopifyAPIVersion)
	slog.Info("Token set", "value", cfg.ShopifyAPIToken != "")
}
