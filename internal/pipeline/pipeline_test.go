package pipeline

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/oguzhantopcu/tyasistan/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestPipelineOrder(t *testing.T) {
	p := New[int](testLogger)
	p.Use(StageFunc[int]{StageName: "double", Fn: func(n int) (int, bool, error) {
		return n * 2, true, nil
	}})
	p.Use(StageFunc[int]{StageName: "inc", Fn: func(n int) (int, bool, error) {
		return n + 1, true, nil
	}})

	out, err := p.Run([]int{1, 2, 3})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []int{3, 5, 7}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %d, want %d", i, out[i], want[i])
		}
	}
}

func TestPipelineDrop(t *testing.T) {
	p := New[int](testLogger)
	p.Use(StageFunc[int]{StageName: "evens", Fn: func(n int) (int, bool, error) {
		return n, n%2 == 0, nil
	}})

	out, err := p.Run([]int{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out) != 2 || out[0] != 2 || out[1] != 4 {
		t.Errorf("out = %v, want [2 4]", out)
	}
}

func TestPipelineStageError(t *testing.T) {
	boom := errors.New("boom")
	p := New[int](testLogger)
	p.Use(StageFunc[int]{StageName: "fail", Fn: func(n int) (int, bool, error) {
		return 0, false, boom
	}})

	if _, err := p.Run([]int{1}); !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped boom", err)
	}
}

func TestProductsPipeline(t *testing.T) {
	recs := []types.ProductRecord{
		{ID: 1, Name: "  Ruj  ", Brand: " Marka "},
		{ID: 1, Name: "Ruj"}, // duplicate id
		{ID: 2, Name: ""},    // missing name
		{ID: 0, Name: "X"},   // missing id
		{ID: 3, Name: "Maskara"},
	}

	out, err := Products(testLogger).Run(recs)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("out = %d records, want 2", len(out))
	}
	if out[0].Name != "Ruj" || out[0].Brand != "Marka" {
		t.Errorf("trim failed: %+v", out[0])
	}
	if out[1].ID != 3 {
		t.Errorf("out[1].ID = %d, want 3", out[1].ID)
	}
}

func TestReviewsPipelineKeepsEmptyComments(t *testing.T) {
	recs := []types.ReviewRecord{
		{ID: 1, Text: "  güzel  ", Rating: 5},
		{ID: 2, Text: "", Rating: 4},
		{ID: 2, Text: "", Rating: 4}, // duplicate
		{ID: 0, Text: "kayıp"},       // missing id
	}

	out, err := Reviews(testLogger).Run(recs)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("out = %d records, want 2", len(out))
	}
	if out[0].Text != "güzel" {
		t.Errorf("trim failed: %q", out[0].Text)
	}
}

func TestQuestionsPipeline(t *testing.T) {
	recs := []types.QARecord{
		{ID: 1, Question: " Beden? ", Answer: " M "},
		{ID: 2, Question: ""}, // dropped
	}

	out, err := Questions(testLogger).Run(recs)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("out = %d records, want 1", len(out))
	}
	if out[0].Question != "Beden?" || out[0].Answer != "M" {
		t.Errorf("trim failed: %+v", out[0])
	}
}
