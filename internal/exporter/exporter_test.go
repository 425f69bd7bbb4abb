package exporter

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/oguzhantopcu/tyasistan/internal/config"
	"github.com/oguzhantopcu/tyasistan/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestExporter(t *testing.T, format string) *Exporter {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Export.Format = format
	cfg.Export.Dir = t.TempDir()
	e, err := New(cfg, testLogger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func TestExportEmptyFails(t *testing.T) {
	e := newTestExporter(t, "xlsx")

	_, err := e.Export(types.OpSearch, "ruj", types.ProductColumns, nil, nil)
	if !errors.Is(err, types.ErrNoRecords) {
		t.Errorf("error = %v, want ErrNoRecords", err)
	}
	var exportErr *types.ExportError
	if !errors.As(err, &exportErr) {
		t.Errorf("error = %v, want ExportError", err)
	}
}

func TestExportXLSXRowCount(t *testing.T) {
	e := newTestExporter(t, "xlsx")

	recs := []types.ProductRecord{
		{ID: 1, Name: "Ruj", Brand: "Marka", Price: 99.9, Currency: "TL"},
		{ID: 2, Name: "Maskara", Brand: "Marka", Price: 59.9, Currency: "TL"},
	}

	file, err := e.Export(types.OpSearch, "ruj", types.ProductColumns, types.Rows(recs), recs)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if file.Rows != 2 {
		t.Errorf("rows = %d, want 2", file.Rows)
	}
	if !strings.HasPrefix(file.Name, "arama_ruj_") || !strings.HasSuffix(file.Name, ".xlsx") {
		t.Errorf("name = %q", file.Name)
	}

	wb, err := excelize.OpenFile(file.Path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer wb.Close()

	rows, err := wb.GetRows("Sheet1")
	if err != nil {
		t.Fatal(err)
	}
	// header + 2 data rows
	if len(rows) != 3 {
		t.Fatalf("sheet rows = %d, want 3", len(rows))
	}
	if rows[0][0] != "id" || rows[0][1] != "name" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "Ruj" {
		t.Errorf("first data row = %v", rows[1])
	}
}

func TestExportWritesJSONBackup(t *testing.T) {
	e := newTestExporter(t, "xlsx")

	recs := []types.QARecord{{ID: 1, Question: "Beden?", Answer: "M"}}
	file, err := e.Export(types.OpQuestions, "32041644", types.QAColumns, types.Rows(recs), recs)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if file.JSONPath == "" {
		t.Fatal("json backup path empty")
	}

	data, err := os.ReadFile(file.JSONPath)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	var back []types.QARecord
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal backup: %v", err)
	}
	if len(back) != 1 || back[0].Question != "Beden?" {
		t.Errorf("backup = %+v", back)
	}
}

func TestExportCSV(t *testing.T) {
	e := newTestExporter(t, "csv")

	recs := []types.ReviewRecord{{ID: 5, Text: "güzel", Rating: 5}}
	file, err := e.Export(types.OpReviews, "32041644", types.ReviewColumns, types.Rows(recs), recs)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(file.Path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,title,text") {
		t.Errorf("header = %q", lines[0])
	}
}

func TestSafeLabel(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ruj", "ruj"},
		{"akıllı saat", "ak_ll__saat"},
		{"", "veri"},
		{"a/b\\c", "a_b_c"},
	}
	for _, tc := range cases {
		if got := safeLabel(tc.in); got != tc.want {
			t.Errorf("safeLabel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	e := newTestExporter(t, "csv")

	for _, name := range []string{"../etc/passwd", "a/b.csv", ".hidden", ""} {
		if _, err := e.Resolve(name); err == nil {
			t.Errorf("Resolve(%q) should fail", name)
		}
	}
}

func TestJanitorSweep(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "old.xlsx")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	j := NewJanitor(time.Millisecond, testLogger)
	defer j.Stop()
	j.Register(path)

	// Sweep directly rather than waiting for the ticker.
	time.Sleep(5 * time.Millisecond)
	j.sweep(time.Now())

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expired file should be removed")
	}
}
