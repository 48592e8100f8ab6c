package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/botfleet/console/internal/bots"
	"github.com/botfleet/console/internal/contacts"
	"github.com/botfleet/console/internal/dashboard"
	"github.com/botfleet/console/internal/observability/metrics"
	"github.com/botfleet/console/pkg/logging"
)

var tracer = otel.Tracer("botconsole.internal.gateway")

const defaultTimeout = 20 * time.Second

// Client is an HTTP/JSON client for the bot platform API. All console reads
// and writes of domain entities go through it; the platform owns persistence.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logging.Logger
	metrics    *metrics.GatewayMetrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMetrics attaches request metrics.
func WithMetrics(m *metrics.GatewayMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTimeout sets the transport timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a platform API client.
func NewClient(baseURL, apiKey string, logger *logging.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx platform response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway: platform returned status %d: %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a platform 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// do issues one request and decodes a JSON response into out (when non-nil).
func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, body, out any) error {
	ctx, span := tracer.Start(ctx, "gateway."+operation)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	)

	start := time.Now()
	err := c.roundTrip(ctx, method, path, query, body, out)
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
	}
	c.metrics.ObserveRequest(operation, status, time.Since(start).Seconds())
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("gateway: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("gateway: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		return &APIError{StatusCode: resp.StatusCode, Body: msg}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("gateway: unmarshal response: %w", err)
		}
	}
	return nil
}

// ListBots returns the bots the actor may access, by explicit id list.
func (c *Client) ListBots(ctx context.Context, botIDs []string) ([]bots.Bot, error) {
	if len(botIDs) == 0 {
		return []bots.Bot{}, nil
	}
	q := url.Values{"bot_ids": {strings.Join(botIDs, ",")}}
	var out []bots.Bot
	if err := c.do(ctx, "list_bots", http.MethodGet, "/bots", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAllBots returns every bot on the platform. Admin only.
func (c *Client) ListAllBots(ctx context.Context) ([]bots.Bot, error) {
	var out []bots.Bot
	if err := c.do(ctx, "list_all_bots", http.MethodGet, "/admin/bots", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListContacts returns the bot-wide contact directory.
func (c *Client) ListContacts(ctx context.Context, botID string) ([]contacts.Contact, error) {
	var out []contacts.Contact
	path := fmt.Sprintf("/bots/%s/contacts", url.PathEscape(botID))
	if err := c.do(ctx, "list_contacts", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SyncContacts asks the platform to re-sync the contact directory from the CRM.
func (c *Client) SyncContacts(ctx context.Context, botID string) error {
	path := fmt.Sprintf("/bots/%s/contacts/sync_chatwood", url.PathEscape(botID))
	return c.do(ctx, "sync_contacts", http.MethodPost, path, nil, struct{}{}, nil)
}

// ImportContacts uploads a CSV of contacts for the platform to import. The
// body is streamed as-is; parsing and row validation happen platform-side.
func (c *Client) ImportContacts(ctx context.Context, botID string, csv io.Reader) (*contacts.ImportResult, error) {
	ctx, span := tracer.Start(ctx, "gateway.import_contacts")
	defer span.End()

	u := c.baseURL + fmt.Sprintf("/bots/%s/contacts/import", url.PathEscape(botID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, csv)
	if err != nil {
		return nil, fmt.Errorf("gateway: create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest("import_contacts", "error", time.Since(start).Seconds())
		span.RecordError(err)
		return nil, fmt.Errorf("gateway: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.ObserveRequest("import_contacts", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("gateway: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.ObserveRequest("import_contacts", "error", time.Since(start).Seconds())
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: msg}
	}
	c.metrics.ObserveRequest("import_contacts", "ok", time.Since(start).Seconds())

	var out contacts.ImportResult
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("gateway: unmarshal response: %w", err)
	}
	return &out, nil
}

// ListInteractionLogs returns interaction logs for the dashboard window.
func (c *Client) ListInteractionLogs(ctx context.Context, botID string, start, end time.Time) ([]dashboard.InteractionLog, error) {
	q := url.Values{
		"start_date": {start.UTC().Format(time.RFC3339)},
		"end_date":   {end.UTC().Format(time.RFC3339)},
	}
	var out []dashboard.InteractionLog
	path := fmt.Sprintf("/bots/%s/interaction_logs", url.PathEscape(botID))
	if err := c.do(ctx, "list_interaction_logs", http.MethodGet, path, q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
