package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Defaults sized for ranged pulls of up to a thousand rows. PostgREST can be
// slow to compute an exact count on the first page of a large table.
const (
	DefaultTimeout      = 60 * time.Second
	DefaultMaxRetries   = 5
	DefaultRetryBackoff = 2 * time.Second
)

// Client reads tables from a Supabase project through PostgREST. The
// project's anon or service key is sent both as the apikey header and as a
// bearer token.
type Client struct {
	baseURL    string
	apiKey     string
	schema     string
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries   int
	retryBackoff time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient returns a client for the project at baseURL
// (e.g. https://xyzcompany.supabase.co). A trailing slash is ignored.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		logger:       slog.Default(),
		maxRetries:   DefaultMaxRetries,
		retryBackoff: DefaultRetryBackoff,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout bounds each ranged request. Non-positive values are ignored.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRetries sets how often a 5xx or 429 response is retried and the base
// backoff between attempts. Negative counts disable retries.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		if max < 0 {
			max = 0
		}
		c.maxRetries = max
		if backoff > 0 {
			c.retryBackoff = backoff
		}
	}
}

// WithSchema reads from a schema other than public via Accept-Profile.
func WithSchema(schema string) ClientOption {
	return func(c *Client) {
		c.schema = schema
	}
}

func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}
