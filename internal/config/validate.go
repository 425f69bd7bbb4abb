package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Fetcher.Type != "http" && cfg.Fetcher.Type != "browser" {
		return fmt.Errorf("fetcher.type must be 'http' or 'browser', got %q", cfg.Fetcher.Type)
	}
	if cfg.Fetcher.RequestTimeout <= 0 {
		return fmt.Errorf("fetcher.request_timeout must be > 0")
	}
	if cfg.Fetcher.MaxRetries < 0 {
		return fmt.Errorf("fetcher.max_retries must be >= 0, got %d", cfg.Fetcher.MaxRetries)
	}
	if cfg.Fetcher.RetryDelay < 0 {
		return fmt.Errorf("fetcher.retry_delay must be >= 0")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	for _, endpoint := range []struct {
		key string
		val string
	}{
		{"scraper.site_url", cfg.Scraper.SiteURL},
		{"scraper.search_endpoint", cfg.Scraper.SearchEndpoint},
		{"scraper.review_endpoint", cfg.Scraper.ReviewEndpoint},
		{"scraper.question_endpoint", cfg.Scraper.QuestionEndpoint},
	} {
		if err := ValidateURL(endpoint.val); err != nil {
			return fmt.Errorf("%s: %w", endpoint.key, err)
		}
	}
	if cfg.Scraper.PageSize < 1 || cfg.Scraper.PageSize > 100 {
		return fmt.Errorf("scraper.page_size must be 1-100, got %d", cfg.Scraper.PageSize)
	}
	if cfg.Scraper.MaxListingPages < 1 {
		return fmt.Errorf("scraper.max_listing_pages must be >= 1, got %d", cfg.Scraper.MaxListingPages)
	}
	if cfg.Scraper.MaxDetailPages < 1 {
		return fmt.Errorf("scraper.max_detail_pages must be >= 1, got %d", cfg.Scraper.MaxDetailPages)
	}
	if cfg.Scraper.MaxPageFailures < 1 {
		return fmt.Errorf("scraper.max_page_failures must be >= 1, got %d", cfg.Scraper.MaxPageFailures)
	}
	if cfg.Scraper.PolitenessDelay < 0 {
		return fmt.Errorf("scraper.politeness_delay must be >= 0")
	}

	if cfg.AI.Provider != "openai" && cfg.AI.Provider != "gemini" {
		return fmt.Errorf("ai.provider must be 'openai' or 'gemini', got %q", cfg.AI.Provider)
	}
	if cfg.AI.MaxTokens < 1 {
		return fmt.Errorf("ai.max_tokens must be >= 1, got %d", cfg.AI.MaxTokens)
	}

	if cfg.Export.Format != "xlsx" && cfg.Export.Format != "csv" {
		return fmt.Errorf("export.format must be 'xlsx' or 'csv', got %q", cfg.Export.Format)
	}
	if cfg.Export.FileTTL <= 0 {
		return fmt.Errorf("export.file_ttl must be > 0")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be 1-65535, got %d", cfg.Metrics.Port)
		}
	}

	return nil
}

// ValidateURL checks that a URL string is an absolute http(s) URL.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
