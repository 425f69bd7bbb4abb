package types

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Request represents one HTTP request against the target site.
type Request struct {
	// URL is the target URL including query parameters.
	URL *url.URL

	// Method is the HTTP method. Defaults to GET.
	Method string

	// Headers are custom headers sent with the request.
	Headers http.Header

	// Body is the request body for POST requests.
	Body []byte

	// Timeout overrides the client timeout for this request.
	Timeout time.Duration

	// FetcherType selects the fetcher: "http" or "browser".
	FetcherType string

	// CreatedAt is when this request was built.
	CreatedAt time.Time
}

// NewRequest creates a GET Request with sensible defaults.
func NewRequest(rawURL string) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	return &Request{
		URL:         u,
		Method:      http.MethodGet,
		Headers:     make(http.Header),
		FetcherType: "http",
		CreatedAt:   time.Now(),
	}, nil
}

// SetQuery replaces the request's query string with the given values.
func (r *Request) SetQuery(values url.Values) {
	r.URL.RawQuery = values.Encode()
}

// URLString returns the string representation of the request URL.
func (r *Request) URLString() string {
	if r.URL == nil {
		return ""
	}
	return r.URL.String()
}

// Domain returns the hostname of the request URL.
func (r *Request) Domain() string {
	if r.URL == nil {
		return ""
	}
	return r.URL.Hostname()
}
