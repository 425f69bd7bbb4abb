package scraper

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/oguzhantopcu/tyasistan/internal/types"
)

// Search collects all products matching a keyword from the listing API.
// Pages are fetched sequentially starting from 1; an empty page or a 404
// ends the listing. When a page fails after retries, the records collected
// so far are returned inside a PartialError.
func (c *Client) Search(ctx context.Context, keyword string) ([]types.ProductRecord, error) {
	if keyword == "" {
		return nil, types.ErrMissingTarget
	}

	c.logger.Info("starting keyword search", "keyword", keyword)

	params := func(page int) url.Values {
		return url.Values{
			"q":                            {keyword},
			"qt":                           {keyword},
			"st":                           {keyword},
			"os":                           {"1"},
			"sk":                           {"1"},
			"pi":                           {strconv.Itoa(page)},
			"culture":                      {"tr-TR"},
			"pId":                          {"0"},
			"isLegalRequirementConfirmed":  {"false"},
			"searchStrategyType":           {"DEFAULT"},
			"productStampType":             {"TypeA"},
			"scoringAlgorithmId":           {"2"},
			"fixSlotProductAdsIncluded":    {"true"},
			"searchAbDecider":              {searchAbDecider},
			"location":                     {"null"},
			"initialSearchText":            {keyword},
			"channelId":                    {"1"},
		}
	}

	records, err := c.collectListing(ctx, types.OpSearch, c.cfg.Scraper.SearchEndpoint, params)
	if err != nil {
		return records, err
	}

	c.logger.Info("keyword search done", "keyword", keyword, "products", len(records))
	return records, nil
}

// collectListing pages through a listing endpoint until it runs dry.
func (c *Client) collectListing(ctx context.Context, op types.OpKind, endpoint string, params func(page int) url.Values) ([]types.ProductRecord, error) {
	var records []types.ProductRecord

	for page := 1; page <= c.cfg.Scraper.MaxListingPages; page++ {
		req, err := types.NewRequest(endpoint)
		if err != nil {
			return records, err
		}
		req.SetQuery(params(page))

		var payload listingResponse
		if err := c.fetchJSON(ctx, req, &payload); err != nil {
			if errors.Is(err, errNotFound) {
				c.logger.Debug("listing ended with 404", "page", page)
				break
			}
			if len(records) > 0 {
				return records, &types.PartialError{Op: op, Collected: len(records), LastPage: page, Err: err}
			}
			return nil, err
		}

		if len(payload.Result.Products) == 0 {
			c.logger.Debug("listing page empty", "page", page)
			break
		}

		for _, p := range payload.Result.Products {
			records = append(records, p.toRecord(c.cfg.Scraper.SiteURL))
		}
		c.logger.Debug("listing page collected",
			"page", page,
			"products", len(payload.Result.Products),
			"total", len(records),
		)

		if err := c.pause(ctx); err != nil {
			return records, err
		}
	}

	if len(records) == 0 {
		return nil, types.ErrNoRecords
	}
	return records, nil
}
