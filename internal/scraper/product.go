package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"

	"github.com/oguzhantopcu/tyasistan/internal/fetcher"
	"github.com/oguzhantopcu/tyasistan/internal/intent"
	"github.com/oguzhantopcu/tyasistan/internal/types"
)

// Product scrapes the summary fields from a single product page. Product
// pages render differently from the JSON APIs: the markup is scraped with
// CSS selectors, with structured ld+json data as fallback for pages where
// the class names have shifted.
func (c *Client) Product(ctx context.Context, productURL string) (*types.ProductInfo, error) {
	if _, ok := intent.ContentID(productURL); !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrInvalidProductURL, productURL)
	}

	req, err := types.NewRequest(productURL)
	if err != nil {
		return nil, err
	}

	resp, err := fetcher.FetchWithRetry(ctx, c.fetcher, req,
		c.cfg.Fetcher.MaxRetries, c.cfg.Fetcher.RetryDelay, c.logger)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, &types.FetchError{URL: productURL, StatusCode: resp.StatusCode, Err: errUnexpectedStatus}
	}

	info := &types.ProductInfo{URL: productURL}

	doc, err := resp.Document()
	if err != nil {
		return nil, &types.ParseError{URL: productURL, Err: err}
	}

	if name := doc.Find("h1.pr-new-br").First().Text(); name != "" {
		info.Name = strings.TrimSpace(name)
	} else {
		info.Name = strings.TrimSpace(doc.Find("h1.product-name").First().Text())
	}
	info.Price = strings.TrimSpace(doc.Find("span.prc-dsc").First().Text())
	info.Seller = strings.TrimSpace(doc.Find("span.seller-name").First().Text())
	info.Rating = strings.TrimSpace(doc.Find("div.pr-rnr-cn").First().Text())

	if info.Name == "" || info.Price == "" {
		c.fillFromStructuredData(resp.Body, info)
	}

	if info.Name == "" {
		return nil, &types.ParseError{URL: productURL, Selector: "h1.pr-new-br", Err: types.ErrNoRecords}
	}

	c.logger.Info("product page scraped", "name", info.Name, "price", info.Price)
	return info, nil
}

// fillFromStructuredData pulls missing fields from the page's ld+json
// product blocks.
func (c *Client) fillFromStructuredData(body []byte, info *types.ProductInfo) {
	root, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return
	}

	for _, node := range htmlquery.Find(root, `//script[@type="application/ld+json"]`) {
		var data struct {
			Type   string `json:"@type"`
			Name   string `json:"name"`
			Offers struct {
				Price         json.Number `json:"price"`
				PriceCurrency string      `json:"priceCurrency"`
			} `json:"offers"`
			AggregateRating struct {
				RatingValue json.Number `json:"ratingValue"`
			} `json:"aggregateRating"`
		}
		if err := json.Unmarshal([]byte(htmlquery.InnerText(node)), &data); err != nil {
			continue
		}
		if !strings.EqualFold(data.Type, "Product") {
			continue
		}

		if info.Name == "" {
			info.Name = data.Name
		}
		if info.Price == "" && data.Offers.Price != "" {
			info.Price = data.Offers.Price.String() + " " + data.Offers.PriceCurrency
		}
		if info.Rating == "" && data.AggregateRating.RatingValue != "" {
			info.Rating = data.AggregateRating.RatingValue.String()
		}
		return
	}
}
