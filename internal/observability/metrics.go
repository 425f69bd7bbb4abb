package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Metrics tracks operational counters for the assistant. The increment
// helpers are nil-safe so call sites need no guards when metrics are
// disabled.
type Metrics struct {
	// Chat metrics
	ChatTurns       atomic.Int64
	LLMCalls        atomic.Int64
	LLMErrors       atomic.Int64
	ToolCalls       atomic.Int64
	RejectedIntents atomic.Int64

	// Scrape metrics
	OperationsTotal   atomic.Int64
	OperationsPartial atomic.Int64
	OperationsFailed  atomic.Int64
	RecordsCollected  atomic.Int64

	// Export metrics
	ExportsTotal  atomic.Int64
	ExportsFailed atomic.Int64
	RowsExported  atomic.Int64

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

func (m *Metrics) AddChatTurn() {
	if m != nil {
		m.ChatTurns.Add(1)
	}
}

func (m *Metrics) AddLLMCall(failed bool) {
	if m == nil {
		return
	}
	m.LLMCalls.Add(1)
	if failed {
		m.LLMErrors.Add(1)
	}
}

func (m *Metrics) AddToolCall() {
	if m != nil {
		m.ToolCalls.Add(1)
	}
}

func (m *Metrics) AddRejectedIntent() {
	if m != nil {
		m.RejectedIntents.Add(1)
	}
}

func (m *Metrics) AddOperation(records int, partial, failed bool) {
	if m == nil {
		return
	}
	m.OperationsTotal.Add(1)
	m.RecordsCollected.Add(int64(records))
	if partial {
		m.OperationsPartial.Add(1)
	}
	if failed {
		m.OperationsFailed.Add(1)
	}
}

func (m *Metrics) AddExport(rows int, failed bool) {
	if m == nil {
		return
	}
	m.ExportsTotal.Add(1)
	if failed {
		m.ExportsFailed.Add(1)
		return
	}
	m.RowsExported.Add(int64(rows))
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		value int64
	}{
		{"tyasistan_chat_turns_total", "Total chat turns handled", m.ChatTurns.Load()},
		{"tyasistan_llm_calls_total", "Total chat-completion API calls", m.LLMCalls.Load()},
		{"tyasistan_llm_errors_total", "Total failed chat-completion API calls", m.LLMErrors.Load()},
		{"tyasistan_tool_calls_total", "Total tool calls proposed by the model", m.ToolCalls.Load()},
		{"tyasistan_rejected_intents_total", "Total tool calls rejected by validation", m.RejectedIntents.Load()},
		{"tyasistan_operations_total", "Total scraping operations run", m.OperationsTotal.Load()},
		{"tyasistan_operations_partial_total", "Total operations that ended partially", m.OperationsPartial.Load()},
		{"tyasistan_operations_failed_total", "Total operations that failed outright", m.OperationsFailed.Load()},
		{"tyasistan_records_collected_total", "Total records collected", m.RecordsCollected.Load()},
		{"tyasistan_exports_total", "Total export files attempted", m.ExportsTotal.Load()},
		{"tyasistan_exports_failed_total", "Total failed exports", m.ExportsFailed.Load()},
		{"tyasistan_rows_exported_total", "Total data rows written to export files", m.RowsExported.Load()},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", metric.name)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// StartServer starts the metrics HTTP server.
func (m *Metrics) StartServer(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, m)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	m.logger.Info("metrics server starting", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			m.logger.Error("metrics server error", "error", err)
		}
	}()

	return nil
}

// Snapshot returns all counters as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"chat_turns":         m.ChatTurns.Load(),
		"llm_calls":          m.LLMCalls.Load(),
		"llm_errors":         m.LLMErrors.Load(),
		"tool_calls":         m.ToolCalls.Load(),
		"rejected_intents":   m.RejectedIntents.Load(),
		"operations_total":   m.OperationsTotal.Load(),
		"operations_partial": m.OperationsPartial.Load(),
		"operations_failed":  m.OperationsFailed.Load(),
		"records_collected":  m.RecordsCollected.Load(),
		"exports_total":      m.ExportsTotal.Load(),
		"exports_failed":     m.ExportsFailed.Load(),
		"rows_exported":      m.RowsExported.Load(),
	}
}
