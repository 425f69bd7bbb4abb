package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oguzhantopcu/tyasistan/internal/config"
	"github.com/oguzhantopcu/tyasistan/internal/fetcher"
	"github.com/oguzhantopcu/tyasistan/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestClient(t *testing.T, mutate func(*config.Config)) *Client {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Fetcher.MaxRetries = 1
	cfg.Fetcher.RetryDelay = time.Millisecond
	cfg.Scraper.PolitenessDelay = 0
	if mutate != nil {
		mutate(cfg)
	}
	f, err := fetcher.NewHTTPFetcher(cfg, testLogger)
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient(f, cfg, testLogger)
	t.Cleanup(func() { c.Close() })
	return c
}

func listingPage(n int) string {
	products := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			products += ","
		}
		products += fmt.Sprintf(`{
			"id": %d,
			"name": "Ürün %d",
			"brand": {"name": "Marka"},
			"categoryName": "Kozmetik",
			"price": {"discountedPrice": 99.9, "originalPrice": 149.9, "discountRatio": 33, "currency": "TL"},
			"ratingScore": {"averageRating": 4.5, "totalCount": 120},
			"merchantId": 42,
			"freeCargo": true,
			"url": "/marka/urun-p-%d",
			"images": ["/img/%d.jpg"],
			"socialProof": {"orderCount": {"count": "500+"}, "favoriteCount": {"count": "1000"}}
		}`, i+1, i+1, i+1, i+1)
	}
	return fmt.Sprintf(`{"result": {"products": [%s]}}`, products)
}

func TestSearchPaginatesUntilEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "ruj" {
			t.Errorf("q = %q, want ruj", r.URL.Query().Get("q"))
		}
		switch r.URL.Query().Get("pi") {
		case "1":
			io.WriteString(w, listingPage(2))
		case "2":
			io.WriteString(w, listingPage(1))
		default:
			io.WriteString(w, listingPage(0))
		}
	}))
	defer srv.Close()

	c := newTestClient(t, func(cfg *config.Config) {
		cfg.Scraper.SearchEndpoint = srv.URL
	})

	records, err := c.Search(context.Background(), "ruj")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	first := records[0]
	if first.Brand != "Marka" || first.Price != 99.9 || first.SellerID != 42 {
		t.Errorf("unexpected record: %+v", first)
	}
	if first.URL != "https://www.trendyol.com/marka/urun-p-1" {
		t.Errorf("url = %q", first.URL)
	}
	if first.ImageURL != "https://cdn.dsmcdn.com/img/1.jpg" {
		t.Errorf("image url = %q", first.ImageURL)
	}
	if first.OrderCount != 500 || first.FavoriteCount != 1000 {
		t.Errorf("social proof = %d/%d", first.OrderCount, first.FavoriteCount)
	}
}

func TestSearchStopsOnNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pi") == "1" {
			io.WriteString(w, listingPage(1))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t, func(cfg *config.Config) {
		cfg.Scraper.SearchEndpoint = srv.URL
	})

	records, err := c.Search(context.Background(), "ruj")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("records = %d, want 1", len(records))
	}
}

func TestSearchPartialFailureKeepsRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pi") == "1" {
			io.WriteString(w, listingPage(2))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, func(cfg *config.Config) {
		cfg.Scraper.SearchEndpoint = srv.URL
	})

	records, err := c.Search(context.Background(), "ruj")
	var partial *types.PartialError
	if !errors.As(err, &partial) {
		t.Fatalf("error = %v, want PartialError", err)
	}
	if partial.Collected != 2 || len(records) != 2 {
		t.Errorf("collected = %d, records = %d, want 2", partial.Collected, len(records))
	}
	if partial.Op != types.OpSearch {
		t.Errorf("op = %s, want search", partial.Op)
	}
}

func TestSearchEmptyResultIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, listingPage(0))
	}))
	defer srv.Close()

	c := newTestClient(t, func(cfg *config.Config) {
		cfg.Scraper.SearchEndpoint = srv.URL
	})

	if _, err := c.Search(context.Background(), "yok-böyle-bir-şey"); !errors.Is(err, types.ErrNoRecords) {
		t.Errorf("error = %v, want ErrNoRecords", err)
	}
}

func TestStoreCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("mid") != "104961" {
			t.Errorf("mid = %q, want 104961", r.URL.Query().Get("mid"))
		}
		if r.URL.Query().Get("pi") == "1" {
			io.WriteString(w, listingPage(2))
			return
		}
		io.WriteString(w, listingPage(0))
	}))
	defer srv.Close()

	c := newTestClient(t, func(cfg *config.Config) {
		cfg.Scraper.SearchEndpoint = srv.URL
	})

	records, err := c.StoreCatalog(context.Background(), "https://www.trendyol.com/magaza/bershka-m-104961?sst=0")
	if err != nil {
		t.Fatalf("store catalog: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("records = %d, want 2", len(records))
	}
}

func TestStoreCatalogRejectsBadURL(t *testing.T) {
	c := newTestClient(t, nil)
	if _, err := c.StoreCatalog(context.Background(), "https://www.trendyol.com/magaza/bershka"); !errors.Is(err, types.ErrInvalidStoreURL) {
		t.Errorf("error = %v, want ErrInvalidStoreURL", err)
	}
}

func reviewPage(n int) string {
	content := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			content += ","
		}
		content += fmt.Sprintf(`{
			"id": %d,
			"commentTitle": "Harika",
			"comment": "Çok beğendim",
			"rate": 5,
			"lastModifiedDate": "12 Mart 2024",
			"userFullName": "A** B**",
			"sellerName": "Satıcı",
			"trusted": true,
			"isElite": false,
			"isInfluencer": false,
			"reviewLikeCount": 3
		}`, i+1)
	}
	return fmt.Sprintf(`{"result": {"productReviews": {"content": [%s]}}}`, content)
}

func TestReviewsPaginatesFromZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("contentId") != "32041644" {
			t.Errorf("contentId = %q", r.URL.Query().Get("contentId"))
		}
		switch r.URL.Query().Get("page") {
		case "0":
			io.WriteString(w, reviewPage(2))
		case "1":
			io.WriteString(w, reviewPage(1))
		default:
			io.WriteString(w, reviewPage(0))
		}
	}))
	defer srv.Close()

	c := newTestClient(t, func(cfg *config.Config) {
		cfg.Scraper.ReviewEndpoint = srv.URL
	})

	records, err := c.Reviews(context.Background(), "https://www.trendyol.com/x/x-p-32041644")
	if err != nil {
		t.Fatalf("reviews: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	if records[0].Rating != 5 || !records[0].Trusted {
		t.Errorf("unexpected record: %+v", records[0])
	}
	want := time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC)
	if !records[0].Date.Equal(want) {
		t.Errorf("date = %s, want %s", records[0].Date, want)
	}
}

func TestReviewsConsecutiveFailuresPartial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "0" {
			io.WriteString(w, reviewPage(2))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, func(cfg *config.Config) {
		cfg.Fetcher.MaxRetries = 0
		cfg.Scraper.ReviewEndpoint = srv.URL
		cfg.Scraper.MaxPageFailures = 3
	})

	records, err := c.Reviews(context.Background(), "https://www.trendyol.com/x/x-p-32041644")
	var partial *types.PartialError
	if !errors.As(err, &partial) {
		t.Fatalf("error = %v, want PartialError", err)
	}
	if len(records) != 2 || partial.Collected != 2 {
		t.Errorf("records = %d, collected = %d, want 2", len(records), partial.Collected)
	}
}

func TestReviewsRejectsBadURL(t *testing.T) {
	c := newTestClient(t, nil)
	if _, err := c.Reviews(context.Background(), "https://example.com/page"); !errors.Is(err, types.ErrInvalidProductURL) {
		t.Errorf("error = %v, want ErrInvalidProductURL", err)
	}
}

func TestQuestionsHandlesBothResultShapes(t *testing.T) {
	item := `{
		"id": 1,
		"text": "Kaç beden önerirsiniz?",
		"creationDate": "25 Şubat 2024",
		"userName": "C** D**",
		"merchantName": "Mağaza",
		"trusted": true,
		"answer": {"text": "M beden uygundur.", "creationDate": "26 Şubat 2024"}
	}`

	shapes := []struct {
		name string
		body string
	}{
		{"direct array", fmt.Sprintf(`{"result": [%s]}`, item)},
		{"paged object", fmt.Sprintf(`{"result": {"content": [%s]}}`, item)},
	}

	for _, shape := range shapes {
		t.Run(shape.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("page") == "0" {
					io.WriteString(w, shape.body)
					return
				}
				io.WriteString(w, `{"result": []}`)
			}))
			defer srv.Close()

			c := newTestClient(t, func(cfg *config.Config) {
				cfg.Scraper.QuestionEndpoint = srv.URL
			})

			records, err := c.Questions(context.Background(), "https://www.trendyol.com/x/x-p-32041644")
			if err != nil {
				t.Fatalf("questions: %v", err)
			}
			if len(records) != 1 {
				t.Fatalf("records = %d, want 1", len(records))
			}
			if !records[0].Answered() {
				t.Error("question should be answered")
			}
			if records[0].Answer != "M beden uygundur." {
				t.Errorf("answer = %q", records[0].Answer)
			}
		})
	}
}

func TestProductPageSelectors(t *testing.T) {
	page := `<html><body>
		<h1 class="pr-new-br">Marka Süper Ruj</h1>
		<span class="prc-dsc">149,90 TL</span>
		<span class="seller-name">Kozmetik Dünyası</span>
		<div class="pr-rnr-cn">4.6</div>
	</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, page)
	}))
	defer srv.Close()

	c := newTestClient(t, nil)
	info, err := c.Product(context.Background(), srv.URL+"/marka/ruj-p-32041644")
	if err != nil {
		t.Fatalf("product: %v", err)
	}
	if info.Name != "Marka Süper Ruj" {
		t.Errorf("name = %q", info.Name)
	}
	if info.Price != "149,90 TL" {
		t.Errorf("price = %q", info.Price)
	}
	if info.Seller != "Kozmetik Dünyası" {
		t.Errorf("seller = %q", info.Seller)
	}
}

func TestProductPageStructuredDataFallback(t *testing.T) {
	page := `<html><head>
		<script type="application/ld+json">
		{"@type": "Product", "name": "Yedek Ürün", "offers": {"price": "99.9", "priceCurrency": "TRY"},
		 "aggregateRating": {"ratingValue": "4.2"}}
		</script>
	</head><body><div>rebuilt markup</div></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, page)
	}))
	defer srv.Close()

	c := newTestClient(t, nil)
	info, err := c.Product(context.Background(), srv.URL+"/x/x-p-1")
	if err != nil {
		t.Fatalf("product: %v", err)
	}
	if info.Name != "Yedek Ürün" {
		t.Errorf("name = %q", info.Name)
	}
	if info.Price != "99.9 TRY" {
		t.Errorf("price = %q", info.Price)
	}
	if info.Rating != "4.2" {
		t.Errorf("rating = %q", info.Rating)
	}
}

func TestParseSiteDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"12 Mart 2024", time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC)},
		{"1 Ocak 2023", time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"30 Ağustos 2024", time.Date(2024, time.August, 30, 0, 0, 0, 0, time.UTC)},
		{"2024-03-12", time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC)},
		{"12.03.2024", time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC)},
		{"", time.Time{}},
		{"bilinmeyen", time.Time{}},
	}
	for _, tc := range cases {
		if got := ParseSiteDate(tc.in); !got.Equal(tc.want) {
			t.Errorf("ParseSiteDate(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	ms := time.Date(2024, time.March, 12, 10, 0, 0, 0, time.UTC).UnixMilli()
	got := ParseSiteDate(fmt.Sprintf("%d", ms))
	if !got.Equal(time.UnixMilli(ms)) {
		t.Errorf("epoch millis parse = %s", got)
	}
}
