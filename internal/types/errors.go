package types

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure modes.
var (
	ErrIntentUnknown     = errors.New("message does not match any operation")
	ErrMissingTarget     = errors.New("operation target is empty")
	ErrInvalidProductURL = errors.New("not a valid Trendyol product URL")
	ErrInvalidStoreURL   = errors.New("not a valid Trendyol store URL")
	ErrNoRecords         = errors.New("no records collected")
	ErrEmptyResponse     = errors.New("empty response body")
	ErrMaxRetries        = errors.New("max retries exceeded")
	ErrSessionNotFound   = errors.New("chat session not found")
)

// FetchError wraps errors that occur during fetching.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
	Retryable  bool
	RetryAfter time.Duration // populated from Retry-After header on HTTP 429
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) IsRetryable() bool { return e.Retryable }

// ParseError wraps errors that occur while extracting records from a page.
type ParseError struct {
	URL      string
	Selector string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s (selector=%q): %v", e.URL, e.Selector, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExportError wraps errors from a spreadsheet backend.
type ExportError struct {
	Backend string
	Err     error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error (%s): %v", e.Backend, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// PartialError reports an operation that gave up fetching before the last
// page but still collected records. Callers export what was collected and
// surface the partial outcome to the user.
type PartialError struct {
	Op        OpKind
	Collected int
	LastPage  int
	Err       error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%s stopped at page %d with %d records collected: %v",
		e.Op, e.LastPage, e.Collected, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

// ProviderError carries a chat-completion provider failure. The body is
// shown to the user verbatim so authentication errors stay recognizable.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}
