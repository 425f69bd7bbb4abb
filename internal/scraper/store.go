package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/oguzhantopcu/tyasistan/internal/intent"
	"github.com/oguzhantopcu/tyasistan/internal/types"
)

// StoreCatalog collects every product a store sells. The store URL must
// carry a merchant id in either the "-m-" slug or "mid=" query form.
func (c *Client) StoreCatalog(ctx context.Context, storeURL string) ([]types.ProductRecord, error) {
	merchantID, ok := intent.MerchantID(storeURL)
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrInvalidStoreURL, storeURL)
	}

	c.logger.Info("starting store catalog scrape", "merchant_id", merchantID)

	params := func(page int) url.Values {
		return url.Values{
			"mid":                         {merchantID},
			"os":                          {"1"},
			"pi":                          {strconv.Itoa(page)},
			"culture":                     {"tr-TR"},
			"pId":                         {"0"},
			"isLegalRequirementConfirmed": {"false"},
			"searchStrategyType":          {"DEFAULT"},
			"productStampType":            {"TypeA"},
			"scoringAlgorithmId":          {"2"},
			"fixSlotProductAdsIncluded":   {"false"},
			"searchAbDecider":             {searchAbDecider},
			"location":                    {"null"},
			"channelId":                   {"1"},
		}
	}

	records, err := c.collectListing(ctx, types.OpStore, c.cfg.Scraper.SearchEndpoint, params)
	if err != nil {
		return records, err
	}

	c.logger.Info("store catalog done", "merchant_id", merchantID, "products", len(records))
	return records, nil
}
