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

// Questions collects the question/answer pairs for a product URL. Same
// paging contract as Reviews: page from 0, empty page ends the listing,
// too many consecutive failures produce a PartialError.
func (c *Client) Questions(ctx context.Context, productURL string) ([]types.QARecord, error) {
	contentID, ok := intent.ContentID(productURL)
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrInvalidProductURL, productURL)
	}

	c.logger.Info("starting question scrape", "content_id", contentID)

	var records []types.QARecord
	failures := 0

	for page := 0; page < c.cfg.Scraper.MaxDetailPages; page++ {
		req, err := types.NewRequest(c.cfg.Scraper.QuestionEndpoint)
		if err != nil {
			return records, err
		}
		req.SetQuery(url.Values{
			"tag":            {"tümü"},
			"size":           {strconv.Itoa(c.cfg.Scraper.PageSize)},
			"storefrontId":   {"1"},
			"culture":        {"tr-TR"},
			"contentId":      {contentID},
			"fulfilmentType": {"MP,ST,FT"},
			"orderBy":        {"CreatedDate"},
			"order":          {"DESC"},
			"channelId":      {"1"},
			"page":           {strconv.Itoa(page)},
		})

		var payload questionResponse
		if err := c.fetchJSON(ctx, req, &payload); err != nil {
			if errors.Is(err, errNotFound) {
				break
			}
			failures++
			c.logger.Warn("question page failed", "page", page, "failures", failures, "error", err)
			if failures >= c.cfg.Scraper.MaxPageFailures {
				if len(records) > 0 {
					return records, &types.PartialError{Op: types.OpQuestions, Collected: len(records), LastPage: page, Err: err}
				}
				return nil, err
			}
			continue
		}
		failures = 0

		items := payload.items()
		if len(items) == 0 {
			c.logger.Debug("no more questions", "page", page)
			break
		}

		for _, item := range items {
			records = append(records, item.toRecord())
		}
		c.logger.Debug("question page collected", "page", page, "questions", len(items), "total", len(records))

		if err := c.pause(ctx); err != nil {
			return records, err
		}
	}

	if len(records) == 0 {
		return nil, types.ErrNoRecords
	}

	c.logger.Info("question scrape done", "content_id", contentID, "questions", len(records))
	return records, nil
}
