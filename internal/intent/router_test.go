package intent

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/oguzhantopcu/tyasistan/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestContentID(t *testing.T) {
	cases := []struct {
		url  string
		want string
		ok   bool
	}{
		{"https://www.trendyol.com/marka/urun-adi-p-32041644", "32041644", true},
		{"https://www.trendyol.com/x/x-p-32041644?boutiqueId=1", "32041644", true},
		{"https://www.trendyol.com/magaza/bershka-m-104961", "", false},
		{"https://example.com/something", "", false},
	}
	for _, tc := range cases {
		got, ok := ContentID(tc.url)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ContentID(%q) = %q, %v; want %q, %v", tc.url, got, ok, tc.want, tc.ok)
		}
	}
}

func TestMerchantID(t *testing.T) {
	cases := []struct {
		url  string
		want string
		ok   bool
	}{
		{"https://www.trendyol.com/magaza/bershka-m-104961?sst=0", "104961", true},
		{"https://www.trendyol.com/sr?mid=104961", "104961", true},
		{"https://www.trendyol.com/marka/urun-p-32041644", "", false},
	}
	for _, tc := range cases {
		got, ok := MerchantID(tc.url)
		if ok != tc.ok || got != tc.want {
			t.Errorf("MerchantID(%q) = %q, %v; want %q, %v", tc.url, got, ok, tc.want, tc.ok)
		}
	}
}

func TestClassifyProductURLSelectsReviews(t *testing.T) {
	r := NewRouter(testLogger)

	req, err := r.Classify("https://www.trendyol.com/x/x-p-32041644 buradaki tüm yorumları çek")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if req.Op != types.OpReviews {
		t.Errorf("op = %s, want %s", req.Op, types.OpReviews)
	}
	if _, ok := ContentID(req.Target); !ok {
		t.Errorf("target %q missing content id", req.Target)
	}
}

func TestClassifyProductURLWithQuestionWords(t *testing.T) {
	r := NewRouter(testLogger)

	req, err := r.Classify("https://www.trendyol.com/x/x-p-32041644 buradaki tüm soru cevapları çek")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if req.Op != types.OpQuestions {
		t.Errorf("op = %s, want %s", req.Op, types.OpQuestions)
	}
}

func TestClassifyStoreURL(t *testing.T) {
	r := NewRouter(testLogger)

	req, err := r.Classify("https://www.trendyol.com/magaza/bershka-m-104961?sst=0 ürünleri çek")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if req.Op != types.OpStore {
		t.Errorf("op = %s, want %s", req.Op, types.OpStore)
	}
}

func TestClassifyKeywordSearch(t *testing.T) {
	r := NewRouter(testLogger)

	req, err := r.Classify("ruj araması yap")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if req.Op != types.OpSearch {
		t.Errorf("op = %s, want %s", req.Op, types.OpSearch)
	}
	if req.Target != "ruj" {
		t.Errorf("target = %q, want %q", req.Target, "ruj")
	}
}

func TestClassifyMultiWordKeyword(t *testing.T) {
	r := NewRouter(testLogger)

	req, err := r.Classify("Trendyolda akıllı saat araması yap")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if req.Op != types.OpSearch {
		t.Errorf("op = %s, want %s", req.Op, types.OpSearch)
	}
	if req.Target != "akıllı saat" {
		t.Errorf("target = %q, want %q", req.Target, "akıllı saat")
	}
}

func TestClassifyEmptyMessage(t *testing.T) {
	r := NewRouter(testLogger)

	for _, msg := range []string{"", "   ", "araması yap"} {
		if _, err := r.Classify(msg); !errors.Is(err, types.ErrIntentUnknown) {
			t.Errorf("Classify(%q) error = %v, want ErrIntentUnknown", msg, err)
		}
	}
}

func TestClassifyUnrecognizedURL(t *testing.T) {
	r := NewRouter(testLogger)

	if _, err := r.Classify("https://example.com/page yorumları çek"); err == nil {
		t.Error("expected error for URL without product or merchant id")
	}
}

func TestValidate(t *testing.T) {
	r := NewRouter(testLogger)

	cases := []struct {
		name    string
		req     types.ScrapeRequest
		wantErr error
	}{
		{
			"valid search",
			types.ScrapeRequest{Op: types.OpSearch, Target: "ruj"},
			nil,
		},
		{
			"valid reviews",
			types.ScrapeRequest{Op: types.OpReviews, Target: "https://www.trendyol.com/x/x-p-123"},
			nil,
		},
		{
			"valid store",
			types.ScrapeRequest{Op: types.OpStore, Target: "https://www.trendyol.com/magaza/x-m-99"},
			nil,
		},
		{
			"unknown op",
			types.ScrapeRequest{Op: "delete_everything", Target: "x"},
			types.ErrIntentUnknown,
		},
		{
			"empty target",
			types.ScrapeRequest{Op: types.OpSearch, Target: "  "},
			types.ErrMissingTarget,
		},
		{
			"reviews without product url",
			types.ScrapeRequest{Op: types.OpReviews, Target: "https://example.com/x"},
			types.ErrInvalidProductURL,
		},
		{
			"store without merchant id",
			types.ScrapeRequest{Op: types.OpStore, Target: "https://www.trendyol.com/magaza/x"},
			types.ErrInvalidStoreURL,
		},
		{
			"search with url target",
			types.ScrapeRequest{Op: types.OpSearch, Target: "https://example.com"},
			types.ErrMissingTarget,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := r.Validate(tc.req)
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}
