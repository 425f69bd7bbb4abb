package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oguzhantopcu/tyasistan/internal/config"
	"github.com/oguzhantopcu/tyasistan/internal/types"
)

// Backend writes a header row plus data rows to a spreadsheet file.
type Backend interface {
	// Write creates the file at path with the given columns and rows.
	Write(path string, columns []string, rows [][]string) error

	// Ext returns the file extension without the dot.
	Ext() string

	// Name returns the backend identifier.
	Name() string
}

// filePrefixes map operations to the Turkish filename prefixes users see.
var filePrefixes = map[types.OpKind]string{
	types.OpSearch:    "arama",
	types.OpReviews:   "yorumlar",
	types.OpQuestions: "sorular",
	types.OpStore:     "magaza",
}

// Exporter turns record batches into downloadable spreadsheet files with a
// JSON backup alongside. Files are transient and reaped by a TTL janitor.
type Exporter struct {
	dir     string
	backend Backend
	janitor *Janitor
	ttl     time.Duration
	logger  *slog.Logger
}

// New creates an exporter with the configured backend and starts the file
// janitor.
func New(cfg *config.Config, logger *slog.Logger) (*Exporter, error) {
	var backend Backend
	switch cfg.Export.Format {
	case "xlsx":
		backend = &XLSXBackend{}
	case "csv":
		backend = &CSVBackend{}
	default:
		return nil, fmt.Errorf("unknown export format %q", cfg.Export.Format)
	}

	dir := cfg.Export.Dir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "tyasistan")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	log := logger.With("component", "exporter")
	return &Exporter{
		dir:     dir,
		backend: backend,
		janitor: NewJanitor(cfg.Export.FileTTL, log),
		ttl:     cfg.Export.FileTTL,
		logger:  log,
	}, nil
}

// Dir returns the export directory.
func (e *Exporter) Dir() string { return e.dir }

// Export writes rows under the given columns to a new spreadsheet file and
// a JSON backup of the raw records next to it. Fails when rows is empty:
// an empty spreadsheet is never delivered.
func (e *Exporter) Export(op types.OpKind, label string, columns []string, rows [][]string, raw any) (*types.ExportFile, error) {
	if len(rows) == 0 {
		return nil, &types.ExportError{Backend: e.backend.Name(), Err: types.ErrNoRecords}
	}

	prefix, ok := filePrefixes[op]
	if !ok {
		return nil, &types.ExportError{Backend: e.backend.Name(), Err: fmt.Errorf("operation %q has no export prefix", op)}
	}

	timestamp := time.Now().Format("20060102_150405")
	base := fmt.Sprintf("%s_%s_%s", prefix, safeLabel(label), timestamp)

	name := base + "." + e.backend.Ext()
	path := filepath.Join(e.dir, name)
	if err := e.backend.Write(path, columns, rows); err != nil {
		return nil, &types.ExportError{Backend: e.backend.Name(), Err: err}
	}
	e.janitor.Register(path)

	jsonPath, err := writeJSONBackup(filepath.Join(e.dir, base+".json"), raw)
	if err != nil {
		e.logger.Warn("json backup failed", "error", err)
	} else {
		e.janitor.Register(jsonPath)
	}

	e.logger.Info("export written",
		"file", name,
		"backend", e.backend.Name(),
		"rows", len(rows),
	)

	return &types.ExportFile{
		Name:     name,
		Path:     path,
		JSONPath: jsonPath,
		Format:   e.backend.Ext(),
		Rows:     len(rows),
	}, nil
}

// Resolve maps a bare file name back to its path in the export directory.
// Rejects names that escape the directory.
func (e *Exporter) Resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	path := filepath.Join(e.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

// Close stops the janitor. Exported files are left for the TTL sweep of a
// future run.
func (e *Exporter) Close() error {
	e.janitor.Stop()
	return nil
}

// safeLabel reduces a target label to filesystem-safe characters, capped
// at 30 runes.
func safeLabel(label string) string {
	runes := []rune(label)
	if len(runes) > 30 {
		runes = runes[:30]
	}
	var b strings.Builder
	for _, r := range runes {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "veri"
	}
	return b.String()
}
