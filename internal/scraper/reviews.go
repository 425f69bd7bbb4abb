package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/oguzhantopcu/tyasistan/internal/intent"
	"github.com/oguzhantopcu/tyasistan/internal/types"
)

// Reviews collects customer reviews for a product URL. The reviews API
// pages from 0 and signals the end with an empty content list. Consecutive
// page failures beyond the configured limit end the operation with a
// PartialError carrying what was collected.
func (c *Client) Reviews(ctx context.Context, productURL string) ([]types.ReviewRecord, error) {
	contentID, ok := intent.ContentID(productURL)
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrInvalidProductURL, productURL)
	}

	c.logger.Info("starting review scrape", "content_id", contentID)

	var records []types.ReviewRecord
	failures := 0

	for page := 0; page < c.cfg.Scraper.MaxDetailPages; page++ {
		req, err := types.NewRequest(c.cfg.Scraper.ReviewEndpoint)
		if err != nil {
			return records, err
		}
		req.SetQuery(url.Values{
			"contentId": {contentID},
			"pageSize":  {strconv.Itoa(c.cfg.Scraper.PageSize)},
			"page":      {strconv.Itoa(page)},
			"order":     {"DESC"},
			"orderBy":   {"LastModifiedDate"},
			"channelId": {"1"},
		})

		var payload reviewResponse
		if err := c.fetchJSON(ctx, req, &payload); err != nil {
			if errors.Is(err, errNotFound) {
				break
			}
			failures++
			c.logger.Warn("review page failed", "page", page, "failures", failures, "error", err)
			if failures >= c.cfg.Scraper.MaxPageFailures {
				if len(records) > 0 {
					return records, &types.PartialError{Op: types.OpReviews, Collected: len(records), LastPage: page, Err: err}
				}
				return nil, err
			}
			continue
		}
		failures = 0

		content := payload.Result.ProductReviews.Content
		if len(content) == 0 {
			c.logger.Debug("no more reviews", "page", page)
			break
		}

		for _, item := range content {
			records = append(records, item.toRecord())
		}
		c.logger.Debug("review page collected", "page", page, "reviews", len(content), "total", len(records))

		if err := c.pause(ctx); err != nil {
			return records, err
		}
	}

	if len(records) == 0 {
		return nil, types.ErrNoRecords
	}

	c.logger.Info("review scrape done", "content_id", contentID, "reviews", len(records))
	return records, nil
}
