package types

import "fmt"

// OpKind identifies one of the supported scraping operations.
type OpKind string

const (
	OpSearch    OpKind = "search"    // keyword search over the listing API
	OpReviews   OpKind = "reviews"   // product reviews by product URL
	OpQuestions OpKind = "questions" // product Q&A by product URL
	OpStore     OpKind = "store"     // full store catalog by store URL
	OpProduct   OpKind = "product"   // single product info by product URL
)

// Valid reports whether k is a known operation kind.
func (k OpKind) Valid() bool {
	switch k {
	case OpSearch, OpReviews, OpQuestions, OpStore, OpProduct:
		return true
	}
	return false
}

// ScrapeRequest is one routed user intent: an operation plus its target
// (a search keyword or a Trendyol URL). It lives for a single chat turn.
type ScrapeRequest struct {
	Op     OpKind
	Target string
}

func (r ScrapeRequest) String() string {
	return fmt.Sprintf("%s(%q)", r.Op, r.Target)
}
