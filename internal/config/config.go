package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for tyasistan.
type Config struct {
	Fetcher Fetcher `mapstructure:"fetcher" yaml:"fetcher"`
	Scraper Scraper `mapstructure:"scraper" yaml:"scraper"`
	AI      AI      `mapstructure:"ai"      yaml:"ai"`
	Export  Export  `mapstructure:"export"  yaml:"export"`
	Archive Archive `mapstructure:"archive" yaml:"archive"`
	Server  Server  `mapstructure:"server"  yaml:"server"`
	Logging Logging `mapstructure:"logging" yaml:"logging"`
	Metrics Metrics `mapstructure:"metrics" yaml:"metrics"`
}

// Fetcher controls the HTTP client behavior.
type Fetcher struct {
	Type            string        `mapstructure:"type"              yaml:"type"` // http or browser
	RequestTimeout  time.Duration `mapstructure:"request_timeout"   yaml:"request_timeout"`
	MaxRetries      int           `mapstructure:"max_retries"       yaml:"max_retries"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"       yaml:"retry_delay"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
	UserAgents      []string      `mapstructure:"user_agents"       yaml:"user_agents"`
}

// Scraper controls the Trendyol scraping operations. The endpoints are the
// site's public discovery APIs; they are configuration because the site owns
// them and moves them without notice.
type Scraper struct {
	SiteURL          string        `mapstructure:"site_url"          yaml:"site_url"`
	SearchEndpoint   string        `mapstructure:"search_endpoint"   yaml:"search_endpoint"`
	ReviewEndpoint   string        `mapstructure:"review_endpoint"   yaml:"review_endpoint"`
	QuestionEndpoint string        `mapstructure:"question_endpoint" yaml:"question_endpoint"`
	PageSize         int           `mapstructure:"page_size"         yaml:"page_size"`
	MaxListingPages  int           `mapstructure:"max_listing_pages" yaml:"max_listing_pages"`
	MaxDetailPages   int           `mapstructure:"max_detail_pages"  yaml:"max_detail_pages"`
	MaxPageFailures  int           `mapstructure:"max_page_failures" yaml:"max_page_failures"`
	PolitenessDelay  time.Duration `mapstructure:"politeness_delay"  yaml:"politeness_delay"`
}

// AI controls the chat-completion provider.
type AI struct {
	Provider    string  `mapstructure:"provider"    yaml:"provider"` // openai or gemini
	Model       string  `mapstructure:"model"       yaml:"model"`
	Endpoint    string  `mapstructure:"endpoint"    yaml:"endpoint"`
	APIKey      string  `mapstructure:"api_key"     yaml:"api_key"`
	MaxTokens   int     `mapstructure:"max_tokens"  yaml:"max_tokens"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
}

// Export controls spreadsheet output.
type Export struct {
	Format  string        `mapstructure:"format"   yaml:"format"` // xlsx or csv
	Dir     string        `mapstructure:"dir"      yaml:"dir"`
	FileTTL time.Duration `mapstructure:"file_ttl" yaml:"file_ttl"`
}

// Archive controls the optional MongoDB run-history archive.
type Archive struct {
	Enabled    bool   `mapstructure:"enabled"    yaml:"enabled"`
	URI        string `mapstructure:"uri"        yaml:"uri"`
	Database   string `mapstructure:"database"   yaml:"database"`
	Collection string `mapstructure:"collection" yaml:"collection"`
}

// Server controls the web chat surface.
type Server struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// Logging controls logging behavior.
type Logging struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Metrics controls the metrics endpoint.
type Metrics struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Fetcher: Fetcher{
			Type:            "http",
			RequestTimeout:  30 * time.Second,
			MaxRetries:      3,
			RetryDelay:      2 * time.Second,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			FollowRedirects: true,
			MaxRedirects:    10,
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    100,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			},
		},
		Scraper: Scraper{
			SiteURL:          "https://www.trendyol.com",
			SearchEndpoint:   "https://apigw.trendyol.com/discovery-web-searchgw-service/v2/api/infinite-scroll/sr",
			ReviewEndpoint:   "https://apigw.trendyol.com/discovery-web-websfxsocialreviewrating-santral/product-reviews-detailed",
			QuestionEndpoint: "https://apigw.trendyol.com/discovery-web-websfxsocialqa-santral/content-questions",
			PageSize:         50,
			MaxListingPages:  50,
			MaxDetailPages:   200,
			MaxPageFailures:  3,
			PolitenessDelay:  300 * time.Millisecond,
		},
		AI: AI{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			MaxTokens:   1024,
			Temperature: 0.2,
		},
		Export: Export{
			Format:  "xlsx",
			Dir:     "", // empty means os.TempDir()/tyasistan
			FileTTL: 30 * time.Minute,
		},
		Archive: Archive{
			Enabled:    false,
			URI:        "mongodb://localhost:27017",
			Database:   "tyasistan",
			Collection: "runs",
		},
		Server: Server{
			Addr: ":8080",
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
		Metrics: Metrics{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
