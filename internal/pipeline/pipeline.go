package pipeline

import (
	"fmt"
	"log/slog"
)

// Stage processes one record before export. The second return value
// reports whether the record is kept; false drops it from the batch.
type Stage[T any] interface {
	// Name returns the stage's identifier.
	Name() string

	// Process transforms a record. Return false to drop it.
	Process(rec T) (T, bool, error)
}

// StageFunc adapts a function to the Stage interface.
type StageFunc[T any] struct {
	StageName string
	Fn        func(rec T) (T, bool, error)
}

func (s StageFunc[T]) Name() string { return s.StageName }

func (s StageFunc[T]) Process(rec T) (T, bool, error) { return s.Fn(rec) }

// Pipeline chains record stages together.
type Pipeline[T any] struct {
	stages []Stage[T]
	logger *slog.Logger
}

// New creates an empty pipeline.
func New[T any](logger *slog.Logger) *Pipeline[T] {
	return &Pipeline[T]{
		logger: logger.With("component", "pipeline"),
	}
}

// Use appends a stage to the chain.
func (p *Pipeline[T]) Use(s Stage[T]) {
	p.stages = append(p.stages, s)
	p.logger.Debug("stage added", "name", s.Name(), "position", len(p.stages))
}

// Len returns the number of stages in the chain.
func (p *Pipeline[T]) Len() int {
	return len(p.stages)
}

// Run processes every record through the full chain and returns the
// survivors in input order.
func (p *Pipeline[T]) Run(recs []T) ([]T, error) {
	if len(p.stages) == 0 {
		return recs, nil
	}

	out := make([]T, 0, len(recs))

recordLoop:
	for _, rec := range recs {
		current := rec
		for _, stage := range p.stages {
			next, keep, err := stage.Process(current)
			if err != nil {
				return nil, fmt.Errorf("pipeline stage %s: %w", stage.Name(), err)
			}
			if !keep {
				p.logger.Debug("record dropped", "stage", stage.Name())
				continue recordLoop
			}
			current = next
		}
		out = append(out, current)
	}

	dropped := len(recs) - len(out)
	if dropped > 0 {
		p.logger.Debug("pipeline run complete", "in", len(recs), "out", len(out), "dropped", dropped)
	}
	return out, nil
}
