package pipeline

import (
	"log/slog"
	"strings"

	"github.com/oguzhantopcu/tyasistan/internal/types"
)

// Dedup drops records whose key was already seen in the batch. One Dedup
// value tracks state for a single run; build a fresh pipeline per batch.
func Dedup[T any, K comparable](key func(T) K) Stage[T] {
	seen := make(map[K]bool)
	return StageFunc[T]{
		StageName: "dedup",
		Fn: func(rec T) (T, bool, error) {
			k := key(rec)
			if seen[k] {
				return rec, false, nil
			}
			seen[k] = true
			return rec, true, nil
		},
	}
}

// Products builds the standard cleanup pipeline for product listings:
// whitespace trim, required fields, dedup by product id.
func Products(logger *slog.Logger) *Pipeline[types.ProductRecord] {
	p := New[types.ProductRecord](logger)
	p.Use(StageFunc[types.ProductRecord]{
		StageName: "trim",
		Fn: func(rec types.ProductRecord) (types.ProductRecord, bool, error) {
			rec.Name = strings.TrimSpace(rec.Name)
			rec.Brand = strings.TrimSpace(rec.Brand)
			rec.Category = strings.TrimSpace(rec.Category)
			return rec, true, nil
		},
	})
	p.Use(StageFunc[types.ProductRecord]{
		StageName: "required_fields",
		Fn: func(rec types.ProductRecord) (types.ProductRecord, bool, error) {
			return rec, rec.ID != 0 && rec.Name != "", nil
		},
	})
	p.Use(Dedup(func(rec types.ProductRecord) int64 { return rec.ID }))
	return p
}

// Reviews builds the cleanup pipeline for review batches. Reviews with an
// empty comment body are kept: a bare star rating is still data.
func Reviews(logger *slog.Logger) *Pipeline[types.ReviewRecord] {
	p := New[types.ReviewRecord](logger)
	p.Use(StageFunc[types.ReviewRecord]{
		StageName: "trim",
		Fn: func(rec types.ReviewRecord) (types.ReviewRecord, bool, error) {
			rec.Title = strings.TrimSpace(rec.Title)
			rec.Text = strings.TrimSpace(rec.Text)
			rec.Author = strings.TrimSpace(rec.Author)
			return rec, true, nil
		},
	})
	p.Use(StageFunc[types.ReviewRecord]{
		StageName: "required_fields",
		Fn: func(rec types.ReviewRecord) (types.ReviewRecord, bool, error) {
			return rec, rec.ID != 0, nil
		},
	})
	p.Use(Dedup(func(rec types.ReviewRecord) int64 { return rec.ID }))
	return p
}

// Questions builds the cleanup pipeline for question/answer batches.
func Questions(logger *slog.Logger) *Pipeline[types.QARecord] {
	p := New[types.QARecord](logger)
	p.Use(StageFunc[types.QARecord]{
		StageName: "trim",
		Fn: func(rec types.QARecord) (types.QARecord, bool, error) {
			rec.Question = strings.TrimSpace(rec.Question)
			rec.Answer = strings.TrimSpace(rec.Answer)
			return rec, true, nil
		},
	})
	p.Use(StageFunc[types.QARecord]{
		StageName: "required_fields",
		Fn: func(rec types.QARecord) (types.QARecord, bool, error) {
			return rec, rec.ID != 0 && rec.Question != "", nil
		},
	})
	p.Use(Dedup(func(rec types.QARecord) int64 { return rec.ID }))
	return p
}
