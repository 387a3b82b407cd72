package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("https://proj.supabase.co/", "anon-key")

		if c.baseURL != "https://proj.supabase.co" {
			t.Errorf("baseURL = %q, want trailing slash trimmed", c.baseURL)
		}
		if c.apiKey != "anon-key" {
			t.Errorf("apiKey = %q, want %q", c.apiKey, "anon-key")
		}
		if c.httpClient.Timeout != DefaultTimeout {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, DefaultTimeout)
		}
		if c.maxRetries != DefaultMaxRetries || c.retryBackoff != DefaultRetryBackoff {
			t.Errorf("retries = %d/%v, want %d/%v", c.maxRetries, c.retryBackoff, DefaultMaxRetries, DefaultRetryBackoff)
		}
		if c.schema != "" {
			t.Errorf("schema = %q, want public default", c.schema)
		}
	})

	t.Run("options apply in order", func(t *testing.T) {
		logger := quietLogger()
		c := NewClient("https://proj.supabase.co", "key",
			WithTimeout(15*time.Second),
			WithRetries(10, 500*time.Millisecond),
			WithLogger(logger),
		)
		if c.httpClient.Timeout != 15*time.Second {
			t.Errorf("Timeout = %v", c.httpClient.Timeout)
		}
		if c.maxRetries != 10 || c.retryBackoff != 500*time.Millisecond {
			t.Errorf("retries = %d/%v", c.maxRetries, c.retryBackoff)
		}
		if c.logger != logger {
			t.Error("logger not set")
		}
	})

	t.Run("out of range options keep defaults", func(t *testing.T) {
		c := NewClient("https://proj.supabase.co", "key",
			WithTimeout(0),
			WithRetries(-1, 0),
		)
		if c.httpClient.Timeout != DefaultTimeout {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, DefaultTimeout)
		}
		if c.maxRetries != 0 || c.retryBackoff != DefaultRetryBackoff {
			t.Errorf("retries = %d/%v, want 0/%v", c.maxRetries, c.retryBackoff, DefaultRetryBackoff)
		}
	})

	t.Run("custom HTTP client", func(t *testing.T) {
		hc := &http.Client{Timeout: 10 * time.Second}
		c := NewClient("https://proj.supabase.co", "", WithHTTPClient(hc))
		if c.httpClient != hc {
			t.Error("custom HTTP client not set")
		}
	})
}

func TestAPIError(t *testing.T) {
	err := &APIError{StatusCode: 404, Message: "Not Found"}
	if got, want := err.Error(), "supabase api error 404: Not Found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	tests := []struct {
		code int
		want bool
	}{
		{500, true},
		{503, true},
		{429, true},
		{400, false},
		{401, false},
		{416, false},
	}
	for _, tt := range tests {
		if got := (&APIError{StatusCode: tt.code}).IsRetryable(); got != tt.want {
			t.Errorf("IsRetryable() for %d = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestDoRequest(t *testing.T) {
	t.Run("sends supabase auth headers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("apikey"); got != "anon-key" {
				t.Errorf("apikey = %q", got)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer anon-key" {
				t.Errorf("Authorization = %q", got)
			}
			if got := r.Header.Get("Range"); got != "0-9" {
				t.Errorf("Range = %q", got)
			}
			w.Header().Set("Content-Range", "0-9/10")
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "anon-key")
		h := http.Header{}
		h.Set("Range", "0-9")
		resp, err := c.doRequest(context.Background(), http.MethodGet, "/rest/v1/t", nil, h)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(resp.body) != `[]` {
			t.Errorf("body = %q", resp.body)
		}
		if resp.header.Get("Content-Range") != "0-9/10" {
			t.Errorf("Content-Range = %q", resp.header.Get("Content-Range"))
		}
	})

	t.Run("no key means no auth headers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "" || r.Header.Get("apikey") != "" {
				t.Error("auth headers should be empty")
			}
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "")
		if _, err := c.doRequest(context.Background(), http.MethodGet, "/x", nil, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("schema selects the profile", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Accept-Profile"); got != "odds" {
				t.Errorf("Accept-Profile = %q, want odds", got)
			}
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "key", WithSchema("odds"))
		if _, err := c.doRequest(context.Background(), http.MethodGet, "/x", nil, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("query parameters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("order"); got != "created_at.desc" {
				t.Errorf("order = %q", got)
			}
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		q := url.Values{"order": {"created_at.desc"}}
		if _, err := c.doRequest(context.Background(), http.MethodGet, "/x", q, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("error status returns APIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"relation does not exist"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		_, err := c.doRequest(context.Background(), http.MethodGet, "/x", nil, nil)
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %T", err)
		}
		if apiErr.StatusCode != 404 {
			t.Errorf("StatusCode = %d", apiErr.StatusCode)
		}
		if !strings.Contains(string(apiErr.Body), "relation does not exist") {
			t.Errorf("Body = %q", apiErr.Body)
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.doRequest(ctx, http.MethodGet, "/x", nil, nil)
		if err == nil || !strings.Contains(err.Error(), "context canceled") {
			t.Errorf("error = %v, want context canceled", err)
		}
	})
}

func TestDoWithRetry(t *testing.T) {
	flaky := func(failures int32, status int) (*httptest.Server, *int32) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := atomic.AddInt32(&attempts, 1)
			if n <= failures {
				w.WriteHeader(status)
				return
			}
			w.Write([]byte(`[]`))
		}))
		return server, &attempts
	}

	tests := []struct {
		name         string
		failures     int32
		status       int
		retries      int
		wantErr      bool
		wantAttempts int32
	}{
		{"first try", 0, 0, 3, false, 1},
		{"5xx then success", 2, http.StatusInternalServerError, 3, false, 3},
		{"429 then success", 1, http.StatusTooManyRequests, 3, false, 2},
		{"4xx is not retried", 10, http.StatusBadRequest, 3, true, 1},
		{"max retries exceeded", 10, http.StatusBadGateway, 2, true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, attempts := flaky(tt.failures, tt.status)
			defer server.Close()

			c := NewClient(server.URL, "key",
				WithRetries(tt.retries, 5*time.Millisecond),
				WithLogger(quietLogger()),
			)
			_, err := c.doWithRetry(context.Background(), http.MethodGet, "/x", nil, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got := atomic.LoadInt32(attempts); got != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", got, tt.wantAttempts)
			}
		})
	}

	t.Run("context cancellation during backoff", func(t *testing.T) {
		server, _ := flaky(100, http.StatusInternalServerError)
		defer server.Close()

		c := NewClient(server.URL, "key", WithRetries(5, 50*time.Millisecond), WithLogger(quietLogger()))
		ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
		defer cancel()

		_, err := c.doWithRetry(ctx, http.MethodGet, "/x", nil, nil)
		if err == nil || !strings.Contains(err.Error(), "context") {
			t.Errorf("error = %v, want context error", err)
		}
	})
}
