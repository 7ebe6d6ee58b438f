// Package shopify is a minimal Admin API client for the order queries the
// reports need: date-windowed order listing with cursor pagination,
// bounded retries with exponential backoff, and request pacing that honors
// the API's rate-limit signals.
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/patrickrelix/relix-daily-reporting/internal/core"
)

const (
	defaultPageSize   = 250
	defaultMaxRetries = 5
	// The Admin API allows 2 requests/second on standard plans.
	defaultRequestsPerSecond = 2
)

type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	token      string
	maxRetries int
}

// NewClient builds a client for the given store domain and API version,
// e.g. NewClient("relix-store.myshopify.com", token, "2024-01").
func NewClient(store, token, apiVersion string) *Client {
	return &Client{
		httpClient: newHTTPClient(),
		limiter:    rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), 1),
		baseURL:    fmt.Sprintf("https://%s/admin/api/%s", store, apiVersion),
		token:      token,
		maxRetries: defaultMaxRetries,
	}
}

// newHTTPClient returns a pooled transport tuned for repeated calls to a
// single API host.
func newHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   30 * time.Second,
	}
}

type ordersEnvelope struct {
	Orders []core.Order `json:"orders"`
}

// FetchOrders returns every paid or partially-paid order created inside
// [start, end], following cursor pagination until the last page. fields
// optionally narrows the returned order fields (comma-separated) to keep
// large windows cheap.
func (c *Client) FetchOrders(ctx context.Context, start, end time.Time, fields string) ([]core.Order, error) {
	params := url.Values{}
	params.Set("created_at_min", start.Format(time.RFC3339))
	params.Set("created_at_max", end.Format(time.RFC3339))
	params.Set("status", "any")
	params.Set("financial_status", "paid,partially_paid")
	params.Set("limit", strconv.Itoa(defaultPageSize))
	if fields != "" {
		params.Set("fields", fields)
	}

	slog.InfoContext(ctx, "Fetching orders",
		"from", start.Format("2006-01-02"),
		"to", end.Format("2006-01-02"))

	pageURL := c.baseURL + "/orders.json?" + params.Encode()
	var all []core.Order
	for page := 1; pageURL != ""; page++ {
		orders, next, err := c.fetchPage(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("fetch orders page %d: %w", page, err)
		}
		all = append(all, orders...)
		slog.DebugContext(ctx, "Fetched orders page", "page", page, "orders", len(orders))
		pageURL = next
	}

	slog.InfoContext(ctx, "Fetched orders", "total", len(all))
	return all, nil
}

// fetchPage GETs one absolute page URL and returns its orders plus the
// next-page URL from the Link header, empty on the last page.
func (c *Client) fetchPage(ctx context.Context, pageURL string) ([]core.Order, string, error) {
	resp, err := c.get(ctx, pageURL)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var envelope ordersEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, "", fmt.Errorf("decode response: %w", err)
	}
	return envelope.Orders, nextPageURL(resp.Header.Get("Link")), nil
}

// get performs a GET with retries. 429 responses wait out Retry-After
// (falling back to exponential backoff) without consuming the attempt
// budget's last slot; transient errors and 5xx back off exponentially.
func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("X-Shopify-Access-Token", c.token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if wErr := c.backoff(ctx, attempt, err); wErr != nil {
				return nil, wErr
			}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			wait := retryAfter(resp, attempt)
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			slog.WarnContext(ctx, "Rate limited", "retry_in", wait)
			lastErr = fmt.Errorf("rate limited (status 429)")
			if err := sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue
		case resp.StatusCode >= 400:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
			if resp.StatusCode < 500 {
				return nil, lastErr
			}
			if wErr := c.backoff(ctx, attempt, lastErr); wErr != nil {
				return nil, wErr
			}
			continue
		}

		return resp, nil
	}
	return nil, fmt.Errorf("request failed after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) backoff(ctx context.Context, attempt int, cause error) error {
	if attempt >= c.maxRetries-1 {
		return nil
	}
	wait := time.Duration(1<<uint(attempt)) * time.Second
	slog.WarnContext(ctx, "Request error, retrying", "error", cause, "retry_in", wait)
	return sleep(ctx, wait)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryAfter reads the Retry-After header, falling back to exponential
// backoff when it is missing or malformed.
func retryAfter(resp *http.Response, attempt int) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil && secs >= 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return time.Duration(1<<uint(attempt)) * time.Second
}

// nextPageURL extracts the rel="next" URL from a Link header used for
// cursor pagination. Returns "" when there is no next page.
func nextPageURL(link string) string {
	for _, part := range strings.Split(link, ",") {
		if !strings.Contains(part, `rel="next"`) {
			continue
		}
		urlPart := strings.SplitN(part, ";", 2)[0]
		return strings.Trim(strings.TrimSpace(urlPart), "<>")
	}
	return ""
}
