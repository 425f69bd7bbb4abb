package types

import (
	"strconv"
	"time"
)

// Tabular is implemented by record types that can be rendered as one
// spreadsheet row. Column order is fixed per type and matches the
// corresponding Columns slice.
type Tabular interface {
	Row() []string
}

// Rows flattens a record slice into spreadsheet rows.
func Rows[T Tabular](recs []T) [][]string {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = r.Row()
	}
	return rows
}

// ProductColumns is the header row for product listings (search and store
// catalog exports).
var ProductColumns = []string{
	"id", "name", "brand", "category", "price", "original_price",
	"discount_ratio", "currency", "rating", "rating_count",
	"seller_id", "url", "image_url", "free_cargo",
	"order_count", "favorite_count",
}

// ProductRecord is one product row from the listing API.
type ProductRecord struct {
	ID            int64
	Name          string
	Brand         string
	Category      string
	Price         float64
	OriginalPrice float64
	DiscountRatio float64
	Currency      string
	Rating        float64
	RatingCount   int
	SellerID      int64
	URL           string
	ImageURL      string
	FreeCargo     bool
	OrderCount    int
	FavoriteCount int
}

func (r ProductRecord) Row() []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Name,
		r.Brand,
		r.Category,
		formatFloat(r.Price),
		formatFloat(r.OriginalPrice),
		formatFloat(r.DiscountRatio),
		r.Currency,
		formatFloat(r.Rating),
		strconv.Itoa(r.RatingCount),
		strconv.FormatInt(r.SellerID, 10),
		r.URL,
		r.ImageURL,
		strconv.FormatBool(r.FreeCargo),
		strconv.Itoa(r.OrderCount),
		strconv.Itoa(r.FavoriteCount),
	}
}

// ReviewColumns is the header row for review exports.
var ReviewColumns = []string{
	"id", "title", "text", "rating", "date", "author", "seller",
	"trusted", "elite", "influencer", "like_count",
}

// ReviewRecord is one customer review.
type ReviewRecord struct {
	ID         int64
	Title      string
	Text       string
	Rating     int
	Date       time.Time
	Author     string
	Seller     string
	Trusted    bool
	Elite      bool
	Influencer bool
	LikeCount  int
}

func (r ReviewRecord) Row() []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Title,
		r.Text,
		strconv.Itoa(r.Rating),
		formatDate(r.Date),
		r.Author,
		r.Seller,
		strconv.FormatBool(r.Trusted),
		strconv.FormatBool(r.Elite),
		strconv.FormatBool(r.Influencer),
		strconv.Itoa(r.LikeCount),
	}
}

// QAColumns is the header row for question/answer exports.
var QAColumns = []string{
	"id", "question", "asked_date", "asker", "answer", "answer_date",
	"seller", "trusted",
}

// QARecord is one question/answer pair. Answer fields are empty for
// unanswered questions.
type QARecord struct {
	ID         int64
	Question   string
	AskedDate  time.Time
	Asker      string
	Answer     string
	AnswerDate time.Time
	Seller     string
	Trusted    bool
}

func (r QARecord) Row() []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Question,
		formatDate(r.AskedDate),
		r.Asker,
		r.Answer,
		formatDate(r.AnswerDate),
		r.Seller,
		strconv.FormatBool(r.Trusted),
	}
}

// Answered reports whether the question has a non-empty answer.
func (r QARecord) Answered() bool { return r.Answer != "" }

// ProductInfo holds the fields scraped from a single product page.
type ProductInfo struct {
	Name   string
	Price  string
	Seller string
	Rating string
	URL    string
}

// ExportFile references a finished spreadsheet artifact. The file is
// transient: a TTL janitor removes it after the configured lifetime.
type ExportFile struct {
	Name     string
	Path     string
	JSONPath string // JSON backup written next to the spreadsheet
	Format   string
	Rows     int
}

// RunRecord is the archived outcome of one completed operation.
type RunRecord struct {
	Op       OpKind        `bson:"op"`
	Target   string        `bson:"target"`
	Records  int           `bson:"records"`
	Partial  bool          `bson:"partial"`
	File     string        `bson:"file,omitempty"`
	Duration time.Duration `bson:"duration"`
	At       time.Time     `bson:"at"`
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
