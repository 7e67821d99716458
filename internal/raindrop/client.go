// Package raindrop provides a client for the Raindrop.io REST API.
//
// Every call is a single round-trip: there are no retries. Failures are
// classified into clierr codes here and nowhere else.
package raindrop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/steveyegge/rd/internal/clierr"
	"github.com/steveyegge/rd/internal/debug"
	"github.com/steveyegge/rd/internal/telemetry"
)

const (
	DefaultBaseURL = "https://api.raindrop.io/rest/v1"
	// MaxPerPage is the largest page the list endpoints accept.
	MaxPerPage = 50
	// MaxBatchSize is the largest item count the bulk endpoints accept.
	MaxBatchSize = 100

	maxResponseSize = 50 * 1024 * 1024
	maxErrorBody    = 512
)

// Special collection ids.
const (
	CollectionAll      int64 = 0
	CollectionUnsorted int64 = -1
	CollectionTrash    int64 = -99
)

// Client provides methods to interact with the Raindrop REST API.
type Client struct {
	BaseURL    string
	Token      string
	RequestID  string
	HTTPClient *http.Client

	tracer   trace.Tracer
	requests metric.Int64Counter
	latency  metric.Float64Histogram
}

// NewClient creates a new Raindrop client. A zero timeout leaves the
// transport default in place.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	c.instrument()
	return c
}

// WithHTTPClient returns a new client with a custom HTTP client.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	cp := *c
	cp.HTTPClient = httpClient
	return &cp
}

// WithRequestID returns a new client that sends id as X-Request-Id.
func (c *Client) WithRequestID(id string) *Client {
	cp := *c
	cp.RequestID = id
	return &cp
}

func (c *Client) instrument() {
	c.tracer = telemetry.Tracer("")
	meter := telemetry.Meter("")
	// Instrument creation only fails on invalid names; nil instruments are skipped.
	c.requests, _ = meter.Int64Counter("rd.api.requests",
		metric.WithDescription("Raindrop API requests by method and status class"))
	c.latency, _ = meter.Float64Histogram("rd.api.duration",
		metric.WithDescription("Raindrop API round-trip time"), metric.WithUnit("ms"))
}

// Response is a successful (2xx) upstream response.
type Response struct {
	Status int
	Body   []byte
	// JSON is true when Body is non-empty, valid JSON.
	JSON bool
}

// Value returns the decoded JSON value, or the raw text for non-JSON bodies.
func (r *Response) Value() any {
	if r.JSON {
		var v any
		if err := json.Unmarshal(r.Body, &v); err == nil {
			return v
		}
	}
	return string(r.Body)
}

// EncodeQuery builds a query string, omitting keys whose value is empty.
func EncodeQuery(query map[string]string) string {
	values := url.Values{}
	for k, v := range query {
		if v == "" {
			continue
		}
		values.Set(k, v)
	}
	return values.Encode()
}

// Request sends one HTTP request and classifies the outcome:
// transport failure → NetworkError, 401/403 → AuthInvalid, 404 → NotFound,
// 429 → RateLimited, any other non-2xx → ApiError.
func (c *Client) Request(ctx context.Context, method, path string, query map[string]string, body any) (*Response, error) {
	urlStr := c.BaseURL + path
	if qs := EncodeQuery(query); qs != "" {
		urlStr += "?" + qs
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, clierr.InvalidArgs("failed to encode request body: %v", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	if c.tracer == nil {
		c.instrument()
	}
	ctx, span := c.tracer.Start(ctx, "raindrop.request", trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("url.path", path),
	))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, urlStr, bodyReader)
	if err != nil {
		return nil, clierr.InvalidArgs("failed to create request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.RequestID != "" {
		req.Header.Set("X-Request-Id", c.RequestID)
	}

	start := time.Now()
	debug.Logf("%s %s\n", method, urlStr)

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		c.record(ctx, span, method, 0, start)
		debug.Logf("%s %s failed: %v\n", method, path, err)
		return nil, clierr.NetworkError(err)
	}
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	_ = resp.Body.Close()
	c.record(ctx, span, method, resp.StatusCode, start)
	if err != nil {
		return nil, clierr.NetworkError(fmt.Errorf("failed to read response: %w", err))
	}
	debug.Logf("%s %s -> %d (%d bytes, %s)\n", method, path, resp.StatusCode, len(respBody), time.Since(start).Round(time.Millisecond))

	if err := classifyStatus(method, path, resp.StatusCode, respBody); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(respBody)
	return &Response{
		Status: resp.StatusCode,
		Body:   respBody,
		JSON:   len(trimmed) > 0 && json.Valid(trimmed),
	}, nil
}

func classifyStatus(method, path string, status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	text := truncate(string(body), maxErrorBody)
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return clierr.AuthInvalid(status, text)
	case http.StatusNotFound:
		ce := clierr.NotFound("not found: %s %s", method, path)
		ce.Status = status
		ce.Body = text
		return ce
	case http.StatusTooManyRequests:
		return clierr.RateLimited(text)
	default:
		msg := upstreamMessage(body)
		if msg == "" {
			msg = http.StatusText(status)
		}
		return clierr.APIError(status, text, "Raindrop API error (HTTP %d): %s", status, msg)
	}
}

func (c *Client) record(ctx context.Context, span trace.Span, method string, status int, start time.Time) {
	class := "error"
	if status > 0 {
		class = fmt.Sprintf("%dxx", status/100)
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
	if status == 0 || status >= 400 {
		span.SetStatus(codes.Error, class)
	}
	attrs := metric.WithAttributes(attribute.String("http.method", method), attribute.String("status_class", class))
	if c.requests != nil {
		c.requests.Add(ctx, 1, attrs)
	}
	if c.latency != nil {
		c.latency.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
	}
}

// upstreamMessage extracts Raindrop's errorMessage field, if present.
func upstreamMessage(body []byte) string {
	var e struct {
		ErrorMessage string `json:"errorMessage"`
		Error        any    `json:"error"`
	}
	if json.Unmarshal(body, &e) != nil {
		return ""
	}
	if e.ErrorMessage != "" {
		return e.ErrorMessage
	}
	if s, ok := e.Error.(string); ok {
		return s
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
