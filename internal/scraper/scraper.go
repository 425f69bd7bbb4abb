package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/oguzhantopcu/tyasistan/internal/config"
	"github.com/oguzhantopcu/tyasistan/internal/fetcher"
	"github.com/oguzhantopcu/tyasistan/internal/types"
)

// searchAbDecider mirrors the value the site's own frontend sends. The
// listing API returns degraded results without it.
const searchAbDecider = "CA_B,SuggestionTermActive_B,AZSmartlisting_62,BH2_B,MB_B,FRA_2,MRF_1,ARR_B,BrowsingHistoryCard_B,SP_B,PastSearches_B,SearchWEB_14,SuggestionJFYProducts_B,SDW_24,SuggestionQF_B,BSA_D,BadgeBoost_A,Relevancy_1,FilterRelevancy_1,Smartlisting_65,SuggestionBadges_B,ProductGroupTopPerformer_B,OpenFilterToggle_2,RF_1,CS_1,RR_2,BS_2,SuggestionPopularCTR_B"

// Client runs the scraping operations against the target site.
type Client struct {
	fetcher fetcher.Fetcher
	cfg     *config.Config
	logger  *slog.Logger
}

// NewClient creates a scraping client on top of the given fetcher.
func NewClient(f fetcher.Fetcher, cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		fetcher: f,
		cfg:     cfg,
		logger:  logger.With("component", "scraper"),
	}
}

// Close releases the underlying fetcher.
func (c *Client) Close() error {
	return c.fetcher.Close()
}

// fetchJSON fetches a request with the configured retry policy and decodes
// the body into v. A 404 response returns errNotFound so pagination loops
// can treat it as the end of data.
func (c *Client) fetchJSON(ctx context.Context, req *types.Request, v any) error {
	resp, err := fetcher.FetchWithRetry(ctx, c.fetcher, req,
		c.cfg.Fetcher.MaxRetries, c.cfg.Fetcher.RetryDelay, c.logger)
	if err != nil {
		return err
	}
	if resp.StatusCode == 404 {
		return errNotFound
	}
	if !resp.IsSuccess() {
		return &types.FetchError{
			URL:        req.URLString(),
			StatusCode: resp.StatusCode,
			Err:        errUnexpectedStatus,
		}
	}
	return resp.DecodeJSON(v)
}

// pause sleeps for the politeness delay between page fetches, bailing out
// early when the context is done.
func (c *Client) pause(ctx context.Context) error {
	if c.cfg.Scraper.PolitenessDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.cfg.Scraper.PolitenessDelay):
		return nil
	}
}
