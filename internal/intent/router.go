package intent

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/oguzhantopcu/tyasistan/internal/types"
)

var (
	urlPattern        = regexp.MustCompile(`https?://[^\s"'<>]+`)
	contentIDPattern  = regexp.MustCompile(`p-(\d+)`)
	merchantIDPattern = regexp.MustCompile(`(?:mid=|m-)(\d+)`)
)

// ContentID extracts the numeric product content id from a product URL.
func ContentID(rawURL string) (string, bool) {
	m := contentIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MerchantID extracts the numeric merchant id from a store URL. Both the
// "mid=" query form and the "-m-" slug form appear in the wild.
func MerchantID(rawURL string) (string, bool) {
	m := merchantIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// questionWords mark a product-URL message as a Q&A request instead of a
// review request.
var questionWords = []string{"soru", "cevap", "q&a", "sss"}

// fillerWords are stripped from a message before the remainder is treated
// as a search keyword.
var fillerWords = map[string]bool{
	"trendyol":    true,
	"trendyol'da": true,
	"trendyolda":  true,
	"araması":     true,
	"aramasi":     true,
	"arama":       true,
	"ara":         true,
	"arat":        true,
	"yap":         true,
	"çek":         true,
	"cek":         true,
	"getir":       true,
	"bul":         true,
	"lütfen":      true,
	"lutfen":      true,
	"ürünleri":    true,
	"urunleri":    true,
	"ürünlerini":  true,
	"urunlerini":  true,
	"tüm":         true,
	"tum":         true,
	"bana":        true,
	"ve":          true,
	"için":        true,
	"icin":        true,
}

// Router classifies free-text messages into scrape requests and validates
// requests proposed by the language model.
type Router struct {
	logger *slog.Logger
}

func NewRouter(logger *slog.Logger) *Router {
	return &Router{logger: logger.With("component", "intent")}
}

// Classify maps a free-text message to a ScrapeRequest. A product URL in
// the message selects reviews or Q&A depending on question words, a store
// URL selects the store catalog, and anything else becomes a keyword
// search. Returns ErrIntentUnknown when nothing usable remains.
func (r *Router) Classify(message string) (types.ScrapeRequest, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return types.ScrapeRequest{}, types.ErrIntentUnknown
	}

	if rawURL := urlPattern.FindString(message); rawURL != "" {
		req, err := r.classifyURL(rawURL, message)
		if err != nil {
			return types.ScrapeRequest{}, err
		}
		r.logger.Debug("classified url message", "op", req.Op, "target", req.Target)
		return req, nil
	}

	keyword := extractKeyword(message)
	if keyword == "" {
		return types.ScrapeRequest{}, types.ErrIntentUnknown
	}
	r.logger.Debug("classified keyword message", "keyword", keyword)
	return types.ScrapeRequest{Op: types.OpSearch, Target: keyword}, nil
}

func (r *Router) classifyURL(rawURL, message string) (types.ScrapeRequest, error) {
	if _, ok := ContentID(rawURL); ok {
		op := types.OpReviews
		if containsAny(strings.ToLower(message), questionWords) {
			op = types.OpQuestions
		}
		return types.ScrapeRequest{Op: op, Target: rawURL}, nil
	}
	if _, ok := MerchantID(rawURL); ok {
		return types.ScrapeRequest{Op: types.OpStore, Target: rawURL}, nil
	}
	if strings.Contains(rawURL, "/magaza/") {
		return types.ScrapeRequest{}, types.ErrInvalidStoreURL
	}
	return types.ScrapeRequest{}, types.ErrInvalidProductURL
}

// Validate checks a request proposed by the language model. Model output
// is a suggestion, not a decision: the operation must be known and the
// target must actually fit it.
func (r *Router) Validate(req types.ScrapeRequest) error {
	if !req.Op.Valid() {
		return fmt.Errorf("%w: %q", types.ErrIntentUnknown, req.Op)
	}
	target := strings.TrimSpace(req.Target)
	if target == "" {
		return types.ErrMissingTarget
	}

	switch req.Op {
	case types.OpReviews, types.OpQuestions, types.OpProduct:
		if _, ok := ContentID(target); !ok {
			return fmt.Errorf("%w: %s", types.ErrInvalidProductURL, target)
		}
	case types.OpStore:
		if _, ok := MerchantID(target); !ok {
			return fmt.Errorf("%w: %s", types.ErrInvalidStoreURL, target)
		}
	case types.OpSearch:
		if urlPattern.MatchString(target) {
			return fmt.Errorf("%w: keyword expected, got URL", types.ErrMissingTarget)
		}
	}
	return nil
}

func extractKeyword(message string) string {
	var kept []string
	for _, word := range strings.Fields(message) {
		if fillerWords[strings.ToLower(word)] {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
