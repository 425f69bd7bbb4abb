package observability

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics(testLogger)
	m.AddChatTurn()
	m.AddLLMCall(false)
	m.AddLLMCall(true)
	m.AddToolCall()
	m.AddOperation(42, true, false)
	m.AddExport(42, false)
	m.AddExport(0, true)

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		"tyasistan_chat_turns_total 1",
		"tyasistan_llm_calls_total 2",
		"tyasistan_llm_errors_total 1",
		"tyasistan_operations_partial_total 1",
		"tyasistan_records_collected_total 42",
		"tyasistan_exports_total 2",
		"tyasistan_exports_failed_total 1",
		"tyasistan_rows_exported_total 42",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
	if !strings.Contains(body, "# TYPE tyasistan_chat_turns_total counter") {
		t.Error("missing TYPE line")
	}
}

func TestNilMetricsSafe(t *testing.T) {
	var m *Metrics
	m.AddChatTurn()
	m.AddLLMCall(true)
	m.AddToolCall()
	m.AddRejectedIntent()
	m.AddOperation(1, false, true)
	m.AddExport(1, false)
}

func TestSnapshot(t *testing.T) {
	m := NewMetrics(testLogger)
	m.AddRejectedIntent()
	snap := m.Snapshot()
	if snap["rejected_intents"] != 1 {
		t.Errorf("rejected_intents = %d, want 1", snap["rejected_intents"])
	}
}
