package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"poiharvest/internal/modules/stores/application/port"
)

const defaultUserAgent = "poiharvest/1.0 (+https://github.com/poiharvest)"

// RESTClient wraps http.Client with base URL handling and a politeness limiter shared
// by every request a source makes.
type RESTClient struct {
	baseURL   string
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// ClientOptions tune a RESTClient. Zero values fall back to defaults.
type ClientOptions struct {
	Timeout   time.Duration
	RateLimit float64
	Burst     int
	UserAgent string
	Client    *http.Client
}

func NewRESTClient(baseURL string, opts ClientOptions) *RESTClient {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: timeoutOrDefault(opts.Timeout)}
	} else if opts.Timeout > 0 {
		client.Timeout = opts.Timeout
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &RESTClient{
		baseURL:   trimmed,
		client:    client,
		limiter:   rate.NewLimiter(limit, burst),
		userAgent: userAgent,
	}
}

func (c *RESTClient) NewRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	url := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *RESTClient) Do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return c.client.Do(req)
}

// GetJSON issues a GET and decodes the JSON body into a generic value.
func (c *RESTClient) GetJSON(ctx context.Context, endpoint string) (any, error) {
	req, err := c.NewRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return c.doJSON(req)
}

// PostJSON marshals payload (nil sends an empty body) and decodes the JSON response.
func (c *RESTClient) PostJSON(ctx context.Context, endpoint string, payload any) (any, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}
	req, err := c.NewRequest(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.doJSON(req)
}

func (c *RESTClient) doJSON(req *http.Request) (any, error) {
	slog.Debug("upstream request", slog.String("method", req.Method), slog.String("url", req.URL.String()))

	res, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrSourceUnavailable, err)
	}
	defer res.Body.Close()

	slog.Debug("upstream response", slog.Int("status", res.StatusCode), slog.String("url", req.URL.String()))

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		slog.Error("upstream unexpected status", slog.Int("status", res.StatusCode), slog.String("url", req.URL.String()), slog.String("body", strings.TrimSpace(string(body))))
		return nil, fmt.Errorf("%w: unexpected status %d from %s", port.ErrSourceUnavailable, res.StatusCode, req.URL.Path)
	}

	var payload any
	decoder := json.NewDecoder(res.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", port.ErrSourceUnavailable, req.URL.Path, err)
	}
	return payload, nil
}

func timeoutOrDefault(value time.Duration) time.Duration {
	if value <= 0 {
		return 30 * time.Second
	}
	return value
}
