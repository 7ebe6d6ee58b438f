package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Shopify Admin API
	ShopifyStore      string
	ShopifyAPIToken   string
	ShopifyAPIVersion string

	// Slack
	SlackWebhookURL string

	// Google Sheets dashboard
	GoogleSpreadsheetID string
	DailyRevenueSheet   string
	TopProducts7Sheet   string
	TopProducts30Sheet  string
	GoalsSheet          string

	// Run history
	SQLiteDBPath string

	// AMQP (optional; run events are skipped when URL is empty)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Reporting
	ReportTimezone   string
	TopProductsCount int
	LogLevel         string
}

func Load() *Config {
	return &Config{
		ShopifyStore:      getEnv("SHOPIFY_STORE", "relix-store.myshopify.com"),
		ShopifyAPIToken:   getEnv("SHOPIFY_API_TOKEN", ""),
		ShopifyAPIVersion: getEnv("SHOPIFY_API_VERSION", "2024-01"),

		SlackWebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		DailyRevenueSheet:   getEnv("DAILY_REVENUE_SHEET", "Daily Revenue Tracker"),
		TopProducts7Sheet:   getEnv("TOP_PRODUCTS_7_SHEET", "Top Products (7 Days)"),
		TopProducts30Sheet:  getEnv("TOP_PRODUCTS_30_SHEET", "Top Products (30 Days)"),
		GoalsSheet:          getEnv("GOALS_SHEET", "Q1 2026 Goals"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/reporting.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "reports"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "report_runs"),

		ReportTimezone:   getEnv("REPORT_TIMEZONE", "America/New_York"),
		TopProductsCount: getEnvInt("TOP_PRODUCTS_COUNT", 20),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration shape and returns every problem at
// once. Credentials needed only for live runs are checked by the mains so
// dry runs stay credential-free.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.ShopifyStore) == "" {
		errs = append(errs, "SHOPIFY_STORE cannot be empty")
	}
	if strings.TrimSpace(c.ShopifyAPIVersion) == "" {
		errs = append(errs, "SHOPIFY_API_VERSION cannot be empty")
	}

	if _, err := time.LoadLocation(c.ReportTimezone); err != nil {
		errs = append(errs, fmt.Sprintf("invalid REPORT_TIMEZONE '%s': %v", c.ReportTimezone, err))
	}

	if c.TopProductsCount < 1 || c.TopProductsCount > 100 {
		errs = append(errs, fmt.Sprintf("invalid TOP_PRODUCTS_COUNT %d: must be between 1 and 100", c.TopProductsCount))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP_URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP_URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP_EXCHANGE cannot be empty when AMQP_URL is set")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP_QUEUE cannot be empty when AMQP_URL is set")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// Location resolves the report timezone. Validate guarantees this
// succeeds for a validated config.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.ReportTimezone)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
