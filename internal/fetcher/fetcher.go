package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oguzhantopcu/tyasistan/internal/config"
	"github.com/oguzhantopcu/tyasistan/internal/types"
)

// Fetcher is the interface for all request fetcher implementations.
type Fetcher interface {
	// Fetch retrieves the content at the given request's URL.
	Fetch(ctx context.Context, req *types.Request) (*types.Response, error)

	// Close releases any resources held by the fetcher.
	Close() error

	// Type returns the fetcher type identifier.
	Type() string
}

// New creates a fetcher of the configured type.
func New(cfg *config.Config, logger *slog.Logger) (Fetcher, error) {
	switch cfg.Fetcher.Type {
	case "http":
		return NewHTTPFetcher(cfg, logger)
	case "browser":
		return NewBrowserFetcher(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown fetcher type %q", cfg.Fetcher.Type)
	}
}

// FetchWithRetry fetches a request, retrying retryable failures up to
// maxRetries times. A 429 response's Retry-After wait takes precedence
// over the fixed delay.
func FetchWithRetry(ctx context.Context, f Fetcher, req *types.Request, maxRetries int, delay time.Duration, logger *slog.Logger) (*types.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			wait := delay
			var fetchErr *types.FetchError
			if errors.As(lastErr, &fetchErr) && fetchErr.RetryAfter > 0 {
				wait = fetchErr.RetryAfter
			}
			logger.Debug("retrying fetch",
				"url", req.URLString(),
				"attempt", attempt,
				"wait", wait,
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		resp, err := f.Fetch(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var fetchErr *types.FetchError
		if errors.As(err, &fetchErr) && !fetchErr.Retryable {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", types.ErrMaxRetries, maxRetries+1, lastErr)
}
