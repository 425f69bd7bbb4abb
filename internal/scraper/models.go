package scraper

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/oguzhantopcu/tyasistan/internal/types"
)

var (
	errNotFound         = errors.New("page not found")
	errUnexpectedStatus = errors.New("unexpected status code")
)

// listingResponse is the envelope of the search and store catalog APIs.
type listingResponse struct {
	Result struct {
		Products []listingProduct `json:"products"`
	} `json:"result"`
}

type listingProduct struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Brand struct {
		Name string `json:"name"`
	} `json:"brand"`
	CategoryName string `json:"categoryName"`
	// categoryHierarchy comes back as a string on some listings and an
	// object array on others.
	CategoryHierarchy json.RawMessage `json:"categoryHierarchy"`
	Price             struct {
		DiscountedPrice float64 `json:"discountedPrice"`
		OriginalPrice   float64 `json:"originalPrice"`
		DiscountRatio   float64 `json:"discountRatio"`
		Currency        string  `json:"currency"`
	} `json:"price"`
	RatingScore struct {
		AverageRating float64 `json:"averageRating"`
		TotalCount    int     `json:"totalCount"`
	} `json:"ratingScore"`
	MerchantID  int64    `json:"merchantId"`
	FreeCargo   bool     `json:"freeCargo"`
	URL         string   `json:"url"`
	Images      []string `json:"images"`
	SocialProof struct {
		OrderCount struct {
			Count string `json:"count"`
		} `json:"orderCount"`
		FavoriteCount struct {
			Count string `json:"count"`
		} `json:"favoriteCount"`
	} `json:"socialProof"`
}

// toRecord flattens an API product into a spreadsheet-ready record.
func (p listingProduct) toRecord(siteURL string) types.ProductRecord {
	rec := types.ProductRecord{
		ID:            p.ID,
		Name:          p.Name,
		Brand:         p.Brand.Name,
		Category:      p.category(),
		Price:         p.Price.DiscountedPrice,
		OriginalPrice: p.Price.OriginalPrice,
		DiscountRatio: p.Price.DiscountRatio,
		Currency:      p.Price.Currency,
		Rating:        p.RatingScore.AverageRating,
		RatingCount:   p.RatingScore.TotalCount,
		SellerID:      p.MerchantID,
		FreeCargo:     p.FreeCargo,
		OrderCount:    countValue(p.SocialProof.OrderCount.Count),
		FavoriteCount: countValue(p.SocialProof.FavoriteCount.Count),
	}
	if rec.Currency == "" {
		rec.Currency = "TL"
	}
	if p.URL != "" {
		rec.URL = siteURL + p.URL
	}
	if len(p.Images) > 0 {
		rec.ImageURL = "https://cdn.dsmcdn.com" + p.Images[0]
	}
	return rec
}

// category joins the hierarchy when present, falling back to the flat
// category name.
func (p listingProduct) category() string {
	if len(p.CategoryHierarchy) > 0 {
		var s string
		if err := json.Unmarshal(p.CategoryHierarchy, &s); err == nil && s != "" {
			return strings.ReplaceAll(s, "/", " > ")
		}
		var objs []struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(p.CategoryHierarchy, &objs); err == nil && len(objs) > 0 {
			names := make([]string, 0, len(objs))
			for _, o := range objs {
				if o.Name != "" {
					names = append(names, o.Name)
				}
			}
			if len(names) > 0 {
				return strings.Join(names, " > ")
			}
		}
	}
	return p.CategoryName
}

// countValue parses social-proof counts like "500" or "1000+".
func countValue(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	digits := strings.TrimRight(s, "+")
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// reviewResponse is the envelope of the product reviews API.
type reviewResponse struct {
	Result struct {
		ProductReviews struct {
			Content []reviewItem `json:"content"`
		} `json:"productReviews"`
	} `json:"result"`
}

type reviewItem struct {
	ID               int64  `json:"id"`
	CommentTitle     string `json:"commentTitle"`
	Comment          string `json:"comment"`
	Rate             int    `json:"rate"`
	LastModifiedDate string `json:"lastModifiedDate"`
	UserFullName     string `json:"userFullName"`
	SellerName       string `json:"sellerName"`
	Trusted          bool   `json:"trusted"`
	IsElite          bool   `json:"isElite"`
	IsInfluencer     bool   `json:"isInfluencer"`
	ReviewLikeCount  int    `json:"reviewLikeCount"`
}

func (r reviewItem) toRecord() types.ReviewRecord {
	return types.ReviewRecord{
		ID:         r.ID,
		Title:      r.CommentTitle,
		Text:       r.Comment,
		Rating:     r.Rate,
		Date:       ParseSiteDate(r.LastModifiedDate),
		Author:     r.UserFullName,
		Seller:     r.SellerName,
		Trusted:    r.Trusted,
		Elite:      r.IsElite,
		Influencer: r.IsInfluencer,
		LikeCount:  r.ReviewLikeCount,
	}
}

// questionResponse is the envelope of the product questions API. The
// result has shipped both as a bare array and as a paged object.
type questionResponse struct {
	Result json.RawMessage `json:"result"`
}

func (q questionResponse) items() []questionItem {
	if len(q.Result) == 0 {
		return nil
	}
	var direct []questionItem
	if err := json.Unmarshal(q.Result, &direct); err == nil {
		return direct
	}
	var paged struct {
		Content []questionItem `json:"content"`
	}
	if err := json.Unmarshal(q.Result, &paged); err == nil {
		return paged.Content
	}
	return nil
}

type questionItem struct {
	ID           int64  `json:"id"`
	Text         string `json:"text"`
	CreationDate string `json:"creationDate"`
	UserName     string `json:"userName"`
	MerchantName string `json:"merchantName"`
	Trusted      bool   `json:"trusted"`
	Answer       *struct {
		Text         string `json:"text"`
		CreationDate string `json:"creationDate"`
	} `json:"answer"`
}

func (q questionItem) toRecord() types.QARecord {
	rec := types.QARecord{
		ID:        q.ID,
		Question:  q.Text,
		AskedDate: ParseSiteDate(q.CreationDate),
		Asker:     q.UserName,
		Seller:    q.MerchantName,
		Trusted:   q.Trusted,
	}
	if q.Answer != nil {
		rec.Answer = q.Answer.Text
		rec.AnswerDate = ParseSiteDate(q.Answer.CreationDate)
	}
	return rec
}
