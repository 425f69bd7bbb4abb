package fetcher

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/oguzhantopcu/tyasistan/internal/config"
	"github.com/oguzhantopcu/tyasistan/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestFetcher(t *testing.T) *HTTPFetcher {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Fetcher.RequestTimeout = 5 * time.Second
	f, err := NewHTTPFetcher(cfg, testLogger)
	if err != nil {
		t.Fatalf("create fetcher: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func mustRequest(t *testing.T, rawURL string) *types.Request {
	t.Helper()
	req, err := types.NewRequest(rawURL)
	if err != nil {
		t.Fatal(err)
	}
	return req
}

func TestFetchPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("user agent header not set")
		}
		if r.Header.Get("Origin") == "" {
			t.Error("origin header not set")
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	resp, err := f.Fetch(context.Background(), mustRequest(t, srv.URL))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if string(resp.Body) != `{"ok":true}` {
		t.Errorf("body = %q", resp.Body)
	}
}

func TestFetchDecompressesGzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gw := gzip.NewWriter(w)
		gw.Write([]byte("merhaba"))
		gw.Close()
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	resp, err := f.Fetch(context.Background(), mustRequest(t, srv.URL))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(resp.Body) != "merhaba" {
		t.Errorf("body = %q, want merhaba", resp.Body)
	}
}

func TestFetchDecompressesBrotli(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "br")
		bw := brotli.NewWriter(w)
		bw.Write([]byte("merhaba"))
		bw.Close()
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	resp, err := f.Fetch(context.Background(), mustRequest(t, srv.URL))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(resp.Body) != "merhaba" {
		t.Errorf("body = %q, want merhaba", resp.Body)
	}
}

func TestFetchServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	_, err := f.Fetch(context.Background(), mustRequest(t, srv.URL))
	var fetchErr *types.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want FetchError", err)
	}
	if !fetchErr.Retryable {
		t.Error("5xx should be retryable")
	}
	if fetchErr.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", fetchErr.StatusCode)
	}
}

func TestFetchRateLimitRetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	_, err := f.Fetch(context.Background(), mustRequest(t, srv.URL))
	var fetchErr *types.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want FetchError", err)
	}
	if !fetchErr.Retryable {
		t.Error("429 should be retryable")
	}
	if fetchErr.RetryAfter != 7*time.Second {
		t.Errorf("retry after = %s, want 7s", fetchErr.RetryAfter)
	}
}

func TestFetchNotFoundIsTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	resp, err := f.Fetch(context.Background(), mustRequest(t, srv.URL))
	// 404 is a normal response, not an error: pagination uses it as a stop signal.
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestFetchWithRetryEventuallySucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	resp, err := FetchWithRetry(context.Background(), f, mustRequest(t, srv.URL), 3, time.Millisecond, testLogger)
	if err != nil {
		t.Fatalf("fetch with retry: %v", err)
	}
	if string(resp.Body) != "ok" {
		t.Errorf("body = %q", resp.Body)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestFetchWithRetryExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := newTestFetcher(t)
	_, err := FetchWithRetry(context.Background(), f, mustRequest(t, srv.URL), 2, time.Millisecond, testLogger)
	if !errors.Is(err, types.ErrMaxRetries) {
		t.Errorf("error = %v, want ErrMaxRetries", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3 (initial + 2 retries)", calls.Load())
	}
}

func TestNewSelectsFetcherType(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Fetcher.Type = "http"
	f, err := New(cfg, testLogger)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer f.Close()
	if f.Type() != "http" {
		t.Errorf("type = %q, want http", f.Type())
	}

	cfg.Fetcher.Type = "smoke-signal"
	if _, err := New(cfg, testLogger); err == nil {
		t.Error("expected error for unknown fetcher type")
	}
}
