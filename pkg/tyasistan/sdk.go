// Package tyasistan provides a public API for embedding the Trendyol
// scraper as a library, without the chat assistant around it.
//
// Example usage:
//
//	client, err := tyasistan.New(
//	    tyasistan.WithPoliteness(500*time.Millisecond),
//	    tyasistan.WithMaxListingPages(10),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	products, err := client.Search(ctx, "akıllı saat")
package tyasistan

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/oguzhantopcu/tyasistan/internal/config"
	"github.com/oguzhantopcu/tyasistan/internal/exporter"
	"github.com/oguzhantopcu/tyasistan/internal/fetcher"
	"github.com/oguzhantopcu/tyasistan/internal/scraper"
	"github.com/oguzhantopcu/tyasistan/internal/types"
)

// Record type aliases so embedders don't import internal packages.
type (
	Product     = types.ProductRecord
	Review      = types.ReviewRecord
	Question    = types.QARecord
	ProductInfo = types.ProductInfo
	ExportFile  = types.ExportFile
)

// Client is the high-level API for scraping Trendyol from Go code.
type Client struct {
	cfg      *config.Config
	scraper  *scraper.Client
	exporter *exporter.Exporter
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*config.Config)

// WithFetcherType selects "http" or "browser" fetching.
func WithFetcherType(t string) Option {
	return func(c *config.Config) { c.Fetcher.Type = t }
}

// WithPoliteness sets the delay between page requests.
func WithPoliteness(d time.Duration) Option {
	return func(c *config.Config) { c.Scraper.PolitenessDelay = d }
}

// WithMaxListingPages caps how many listing pages are walked.
func WithMaxListingPages(n int) Option {
	return func(c *config.Config) { c.Scraper.MaxListingPages = n }
}

// WithMaxDetailPages caps how many review or question pages are walked.
func WithMaxDetailPages(n int) Option {
	return func(c *config.Config) { c.Scraper.MaxDetailPages = n }
}

// WithUserAgent sets a single fixed User-Agent.
func WithUserAgent(ua string) Option {
	return func(c *config.Config) { c.Fetcher.UserAgents = []string{ua} }
}

// WithExportDir sets where Export writes files.
func WithExportDir(dir string) Option {
	return func(c *config.Config) { c.Export.Dir = dir }
}

// New creates a client with default configuration plus the given options.
func New(opts ...Option) (*Client, error) {
	cfg := config.DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	f, err := fetcher.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	ex, err := exporter.New(cfg, logger)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Client{
		cfg:      cfg,
		scraper:  scraper.NewClient(f, cfg, logger),
		exporter: ex,
		logger:   logger,
	}, nil
}

// Search collects all products matching a keyword.
func (c *Client) Search(ctx context.Context, keyword string) ([]Product, error) {
	return c.scraper.Search(ctx, keyword)
}

// StoreCatalog collects every product a store sells.
func (c *Client) StoreCatalog(ctx context.Context, storeURL string) ([]Product, error) {
	return c.scraper.StoreCatalog(ctx, storeURL)
}

// Reviews collects all customer reviews for a product URL.
func (c *Client) Reviews(ctx context.Context, productURL string) ([]Review, error) {
	return c.scraper.Reviews(ctx, productURL)
}

// Questions collects all Q&A pairs for a product URL.
func (c *Client) Questions(ctx context.Context, productURL string) ([]Question, error) {
	return c.scraper.Questions(ctx, productURL)
}

// Product scrapes a single product page.
func (c *Client) Product(ctx context.Context, productURL string) (*ProductInfo, error) {
	return c.scraper.Product(ctx, productURL)
}

// ExportProducts writes products to a spreadsheet and returns the file.
func (c *Client) ExportProducts(label string, products []Product) (*ExportFile, error) {
	return c.exporter.Export(types.OpSearch, label, types.ProductColumns, types.Rows(products), products)
}

// ExportReviews writes reviews to a spreadsheet and returns the file.
func (c *Client) ExportReviews(label string, reviews []Review) (*ExportFile, error) {
	return c.exporter.Export(types.OpReviews, label, types.ReviewColumns, types.Rows(reviews), reviews)
}

// ExportQuestions writes Q&A pairs to a spreadsheet and returns the file.
func (c *Client) ExportQuestions(label string, questions []Question) (*ExportFile, error) {
	return c.exporter.Export(types.OpQuestions, label, types.QAColumns, types.Rows(questions), questions)
}

// Close releases the fetcher and stops the export janitor.
func (c *Client) Close() error {
	err := c.scraper.Close()
	if cerr := c.exporter.Close(); err == nil {
		err = cerr
	}
	return err
}
