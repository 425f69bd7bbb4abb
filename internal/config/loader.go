package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	// Environment variable support: TYASISTAN_AI_API_KEY etc.
	v.SetEnvPrefix("TYASISTAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("tyasistan")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".tyasistan"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper so env overrides work for
// keys that never appear in a config file.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("fetcher.type", cfg.Fetcher.Type)
	v.SetDefault("fetcher.request_timeout", cfg.Fetcher.RequestTimeout)
	v.SetDefault("fetcher.max_retries", cfg.Fetcher.MaxRetries)
	v.SetDefault("fetcher.retry_delay", cfg.Fetcher.RetryDelay)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)
	v.SetDefault("fetcher.follow_redirects", cfg.Fetcher.FollowRedirects)
	v.SetDefault("fetcher.max_redirects", cfg.Fetcher.MaxRedirects)
	v.SetDefault("fetcher.idle_conn_timeout", cfg.Fetcher.IdleConnTimeout)
	v.SetDefault("fetcher.max_idle_conns", cfg.Fetcher.MaxIdleConns)
	v.SetDefault("fetcher.user_agents", cfg.Fetcher.UserAgents)

	v.SetDefault("scraper.site_url", cfg.Scraper.SiteURL)
	v.SetDefault("scraper.search_endpoint", cfg.Scraper.SearchEndpoint)
	v.SetDefault("scraper.review_endpoint", cfg.Scraper.ReviewEndpoint)
	v.SetDefault("scraper.question_endpoint", cfg.Scraper.QuestionEndpoint)
	v.SetDefault("scraper.page_size", cfg.Scraper.PageSize)
	v.SetDefault("scraper.max_listing_pages", cfg.Scraper.MaxListingPages)
	v.SetDefault("scraper.max_detail_pages", cfg.Scraper.MaxDetailPages)
	v.SetDefault("scraper.max_page_failures", cfg.Scraper.MaxPageFailures)
	v.SetDefault("scraper.politeness_delay", cfg.Scraper.PolitenessDelay)

	v.SetDefault("ai.provider", cfg.AI.Provider)
	v.SetDefault("ai.model", cfg.AI.Model)
	v.SetDefault("ai.endpoint", cfg.AI.Endpoint)
	v.SetDefault("ai.api_key", cfg.AI.APIKey)
	v.SetDefault("ai.max_tokens", cfg.AI.MaxTokens)
	v.SetDefault("ai.temperature", cfg.AI.Temperature)

	v.SetDefault("export.format", cfg.Export.Format)
	v.SetDefault("export.dir", cfg.Export.Dir)
	v.SetDefault("export.file_ttl", cfg.Export.FileTTL)

	v.SetDefault("archive.enabled", cfg.Archive.Enabled)
	v.SetDefault("archive.uri", cfg.Archive.URI)
	v.SetDefault("archive.database", cfg.Archive.Database)
	v.SetDefault("archive.collection", cfg.Archive.Collection)

	v.SetDefault("server.addr", cfg.Server.Addr)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.port", cfg.Metrics.Port)
	v.SetDefault("metrics.path", cfg.Metrics.Path)
}
