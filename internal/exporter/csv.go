package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSVBackend writes records as a comma-separated file with a header row.
type CSVBackend struct{}

func (b *CSVBackend) Name() string { return "csv" }

func (b *CSVBackend) Ext() string { return "csv" }

func (b *CSVBackend) Write(path string, columns []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	w.Flush()
	return w.Error()
}
