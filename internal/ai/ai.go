package ai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/oguzhantopcu/tyasistan/internal/config"
	"github.com/oguzhantopcu/tyasistan/internal/types"
)

// Message roles in a conversation.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn in the conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolCall is the model's request to run one of the scraping tools.
type ToolCall struct {
	Name      string
	Arguments map[string]string
}

// Reply is a model response: free text, a tool call, or both.
type Reply struct {
	Text     string
	ToolCall *ToolCall
}

// Completer produces a model reply for a conversation. Implemented by
// Client; the interface exists so orchestration can be tested with fakes.
type Completer interface {
	Chat(ctx context.Context, messages []Message) (*Reply, error)
}

// Tool names the model can call. One per scraping operation.
const (
	ToolSearch    = "search_products"
	ToolReviews   = "fetch_reviews"
	ToolQuestions = "fetch_questions"
	ToolStore     = "fetch_store_products"
	ToolProduct   = "fetch_product_info"
)

// toolOps maps tool names to operation kinds.
var toolOps = map[string]types.OpKind{
	ToolSearch:    types.OpSearch,
	ToolReviews:   types.OpReviews,
	ToolQuestions: types.OpQuestions,
	ToolStore:     types.OpStore,
	ToolProduct:   types.OpProduct,
}

// Request converts a tool call into a scrape request. The argument name
// depends on the tool: keyword for search, url for the rest.
func (tc *ToolCall) Request() (types.ScrapeRequest, error) {
	op, ok := toolOps[tc.Name]
	if !ok {
		return types.ScrapeRequest{}, fmt.Errorf("%w: tool %q", types.ErrIntentUnknown, tc.Name)
	}

	argName := "url"
	if op == types.OpSearch {
		argName = "keyword"
	}
	target := tc.Arguments[argName]
	if target == "" {
		return types.ScrapeRequest{}, fmt.Errorf("%w: tool %q missing %q argument", types.ErrMissingTarget, tc.Name, argName)
	}

	return types.ScrapeRequest{Op: op, Target: target}, nil
}

// toolSpec is a provider-neutral tool description, rendered into each
// provider's schema format.
type toolSpec struct {
	name        string
	description string
	argName     string
	argDesc     string
}

var toolSpecs = []toolSpec{
	{
		name:        ToolSearch,
		description: "Trendyol'da anahtar kelime ile ürün araması yapar ve sonuçları Excel dosyasına aktarır.",
		argName:     "keyword",
		argDesc:     "Aranacak anahtar kelime",
	},
	{
		name:        ToolReviews,
		description: "Bir Trendyol ürün linkindeki tüm müşteri yorumlarını toplar ve Excel dosyasına aktarır.",
		argName:     "url",
		argDesc:     "Trendyol ürün sayfası linki",
	},
	{
		name:        ToolQuestions,
		description: "Bir Trendyol ürün linkindeki tüm soru-cevap çiftlerini toplar ve Excel dosyasına aktarır.",
		argName:     "url",
		argDesc:     "Trendyol ürün sayfası linki",
	},
	{
		name:        ToolStore,
		description: "Bir Trendyol mağaza linkindeki tüm ürünleri toplar ve Excel dosyasına aktarır.",
		argName:     "url",
		argDesc:     "Trendyol mağaza linki",
	},
	{
		name:        ToolProduct,
		description: "Tek bir Trendyol ürün sayfasından ürün adı, fiyat ve satıcı bilgisini getirir.",
		argName:     "url",
		argDesc:     "Trendyol ürün sayfası linki",
	},
}

// Client talks to a chat-completion provider with the scraping tools
// attached.
type Client struct {
	cfg    config.AI
	client *http.Client
	logger *slog.Logger
}

// NewClient creates a chat-completion client.
func NewClient(cfg config.AI, logger *slog.Logger) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger.With("component", "ai_client", "provider", cfg.Provider),
	}
}

// WithAPIKey returns a client copy using the given key. Used for
// per-session keys entered through the web surface; the key lives only in
// the returned client.
func (c *Client) WithAPIKey(key string) *Client {
	clone := *c
	clone.cfg.APIKey = key
	return &clone
}

// WithModel returns a client copy using the given model name.
func (c *Client) WithModel(model string) *Client {
	clone := *c
	clone.cfg.Model = model
	return &clone
}

// Chat sends the conversation to the configured provider and returns its
// reply.
func (c *Client) Chat(ctx context.Context, messages []Message) (*Reply, error) {
	switch c.cfg.Provider {
	case "openai":
		return c.chatOpenAI(ctx, messages)
	case "gemini":
		return c.chatGemini(ctx, messages)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", c.cfg.Provider)
	}
}
