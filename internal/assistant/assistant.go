package assistant

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oguzhantopcu/tyasistan/internal/ai"
	"github.com/oguzhantopcu/tyasistan/internal/intent"
	"github.com/oguzhantopcu/tyasistan/internal/observability"
	"github.com/oguzhantopcu/tyasistan/internal/pipeline"
	"github.com/oguzhantopcu/tyasistan/internal/types"
)

// Scraper runs the scraping operations. Implemented by scraper.Client.
type Scraper interface {
	Search(ctx context.Context, keyword string) ([]types.ProductRecord, error)
	StoreCatalog(ctx context.Context, storeURL string) ([]types.ProductRecord, error)
	Reviews(ctx context.Context, productURL string) ([]types.ReviewRecord, error)
	Questions(ctx context.Context, productURL string) ([]types.QARecord, error)
	Product(ctx context.Context, productURL string) (*types.ProductInfo, error)
}

// Exporter writes record batches to files. Implemented by exporter.Exporter.
type Exporter interface {
	Export(op types.OpKind, label string, columns []string, rows [][]string, raw any) (*types.ExportFile, error)
}

// Archiver persists run outcomes. Implemented by archive.MongoArchive.
type Archiver interface {
	Record(ctx context.Context, rec types.RunRecord) error
}

// Turn is the assistant's answer for one user message.
type Turn struct {
	Reply string
	File  *types.ExportFile
}

// Assistant orchestrates one chat turn: model call, intent validation,
// scraping, cleanup, export, and the summary reply.
type Assistant struct {
	llm      ai.Completer
	scraper  Scraper
	exporter Exporter
	router   *intent.Router
	archive  Archiver
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithArchive enables run-history archiving.
func WithArchive(a Archiver) Option {
	return func(as *Assistant) { as.archive = a }
}

// WithMetrics attaches operational counters.
func WithMetrics(m *observability.Metrics) Option {
	return func(as *Assistant) { as.metrics = m }
}

// New creates an assistant.
func New(llm ai.Completer, sc Scraper, ex Exporter, logger *slog.Logger, opts ...Option) *Assistant {
	a := &Assistant{
		llm:      llm,
		scraper:  sc,
		exporter: ex,
		router:   intent.NewRouter(logger),
		logger:   logger.With("component", "assistant"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WithCompleter returns a copy of the assistant using a different model
// client. Used for per-session API keys.
func (a *Assistant) WithCompleter(llm ai.Completer) *Assistant {
	clone := *a
	clone.llm = llm
	return &clone
}

// HandleMessage processes one user message and returns the reply. Errors
// in scraping or exporting end only the current turn: they come back as a
// Turkish reply and the conversation continues. The returned error is
// reserved for failures the caller must surface itself.
func (a *Assistant) HandleMessage(ctx context.Context, sess *Session, text string) (*Turn, error) {
	a.metrics.AddChatTurn()
	sess.Append(ai.RoleUser, text)

	reply, err := a.llm.Chat(ctx, sess.Messages())
	a.metrics.AddLLMCall(err != nil)
	if err != nil {
		var provErr *types.ProviderError
		if errors.As(err, &provErr) {
			// Provider failures, auth errors included, reach the user
			// verbatim.
			return &Turn{Reply: provErr.Error()}, nil
		}
		return nil, err
	}

	if reply.ToolCall == nil {
		sess.Append(ai.RoleAssistant, reply.Text)
		return &Turn{Reply: reply.Text}, nil
	}

	a.metrics.AddToolCall()
	turn := a.runTool(ctx, reply.ToolCall)
	sess.Append(ai.RoleAssistant, turn.Reply)
	return turn, nil
}

// runTool validates and executes a model-proposed tool call. The model's
// choice is a suggestion; anything that fails validation becomes a
// clarification reply instead of an operation.
func (a *Assistant) runTool(ctx context.Context, tc *ai.ToolCall) *Turn {
	req, err := tc.Request()
	if err == nil {
		err = a.router.Validate(req)
	}
	if err != nil {
		a.metrics.AddRejectedIntent()
		a.logger.Warn("tool call rejected", "tool", tc.Name, "error", err)
		return &Turn{Reply: errorReply(err)}
	}

	a.logger.Info("running operation", "op", req.Op, "target", req.Target)
	summary, file, err := a.Execute(ctx, req)
	if err != nil {
		a.logger.Error("operation failed", "op", req.Op, "error", err)
		return &Turn{Reply: errorReply(err)}
	}
	return &Turn{Reply: summary, File: file}
}

// Execute runs a validated scrape request end to end and returns the
// summary text plus the export file, if the operation produces one.
func (a *Assistant) Execute(ctx context.Context, req types.ScrapeRequest) (string, *types.ExportFile, error) {
	start := time.Now()

	switch req.Op {
	case types.OpSearch:
		recs, partial, err := a.collectProducts(ctx, req)
		if err != nil {
			return "", nil, err
		}
		file, err := a.export(types.OpSearch, req.Target, types.ProductColumns, types.Rows(recs), recs)
		if err != nil {
			return "", nil, err
		}
		a.record(ctx, req, len(recs), partial, file, time.Since(start))
		return searchSummary(req.Target, recs, file, time.Since(start), partial), file, nil

	case types.OpStore:
		recs, partial, err := a.collectProducts(ctx, req)
		if err != nil {
			return "", nil, err
		}
		merchantID, _ := intent.MerchantID(req.Target)
		file, err := a.export(types.OpStore, merchantID, types.ProductColumns, types.Rows(recs), recs)
		if err != nil {
			return "", nil, err
		}
		a.record(ctx, req, len(recs), partial, file, time.Since(start))
		return storeSummary(merchantID, recs, file, time.Since(start), partial), file, nil

	case types.OpReviews:
		recs, err := a.scraper.Reviews(ctx, req.Target)
		partial, err := a.partialOK(err, len(recs))
		if err != nil {
			a.metrics.AddOperation(0, false, true)
			return "", nil, err
		}
		recs, err = pipeline.Reviews(a.logger).Run(recs)
		if err != nil {
			return "", nil, err
		}
		a.metrics.AddOperation(len(recs), partial, false)
		contentID, _ := intent.ContentID(req.Target)
		file, err := a.export(types.OpReviews, contentID, types.ReviewColumns, types.Rows(recs), recs)
		if err != nil {
			return "", nil, err
		}
		a.record(ctx, req, len(recs), partial, file, time.Since(start))
		return reviewSummary(recs, file, time.Since(start), partial), file, nil

	case types.OpQuestions:
		recs, err := a.scraper.Questions(ctx, req.Target)
		partial, err := a.partialOK(err, len(recs))
		if err != nil {
			a.metrics.AddOperation(0, false, true)
			return "", nil, err
		}
		recs, err = pipeline.Questions(a.logger).Run(recs)
		if err != nil {
			return "", nil, err
		}
		a.metrics.AddOperation(len(recs), partial, false)
		contentID, _ := intent.ContentID(req.Target)
		file, err := a.export(types.OpQuestions, contentID, types.QAColumns, types.Rows(recs), recs)
		if err != nil {
			return "", nil, err
		}
		a.record(ctx, req, len(recs), partial, file, time.Since(start))
		return qaSummary(recs, file, time.Since(start), partial), file, nil

	case types.OpProduct:
		info, err := a.scraper.Product(ctx, req.Target)
		if err != nil {
			a.metrics.AddOperation(0, false, true)
			return "", nil, err
		}
		a.metrics.AddOperation(1, false, false)
		a.record(ctx, req, 1, false, nil, time.Since(start))
		return productInfoSummary(info), nil, nil

	default:
		return "", nil, types.ErrIntentUnknown
	}
}

// collectProducts runs the listing scrape for search and store requests
// and pushes the result through the cleanup pipeline.
func (a *Assistant) collectProducts(ctx context.Context, req types.ScrapeRequest) ([]types.ProductRecord, bool, error) {
	var recs []types.ProductRecord
	var err error
	if req.Op == types.OpSearch {
		recs, err = a.scraper.Search(ctx, req.Target)
	} else {
		recs, err = a.scraper.StoreCatalog(ctx, req.Target)
	}

	partial, err := a.partialOK(err, len(recs))
	if err != nil {
		a.metrics.AddOperation(0, false, true)
		return nil, false, err
	}

	recs, err = pipeline.Products(a.logger).Run(recs)
	if err != nil {
		return nil, false, err
	}
	a.metrics.AddOperation(len(recs), partial, false)
	return recs, partial, nil
}

// partialOK downgrades a PartialError with collected records to a partial
// outcome. Everything else stays an error.
func (a *Assistant) partialOK(err error, collected int) (bool, error) {
	if err == nil {
		return false, nil
	}
	var pe *types.PartialError
	if errors.As(err, &pe) && collected > 0 {
		a.logger.Warn("operation ended partially", "op", pe.Op, "collected", pe.Collected, "error", pe.Err)
		return true, nil
	}
	return false, err
}

func (a *Assistant) export(op types.OpKind, label string, columns []string, rows [][]string, raw any) (*types.ExportFile, error) {
	file, err := a.exporter.Export(op, label, columns, rows, raw)
	a.metrics.AddExport(len(rows), err != nil)
	return file, err
}

// record archives the run outcome, best effort.
func (a *Assistant) record(ctx context.Context, req types.ScrapeRequest, records int, partial bool, file *types.ExportFile, dur time.Duration) {
	if a.archive == nil {
		return
	}
	rec := types.RunRecord{
		Op:       req.Op,
		Target:   req.Target,
		Records:  records,
		Partial:  partial,
		Duration: dur,
		At:       time.Now(),
	}
	if file != nil {
		rec.File = file.Name
	}
	if err := a.archive.Record(ctx, rec); err != nil {
		a.logger.Warn("run archive failed", "error", err)
	}
}

// errorReply maps an operation error to the Turkish message shown to the
// user.
func errorReply(err error) string {
	switch {
	case errors.Is(err, types.ErrNoRecords):
		return msgNoData
	case errors.Is(err, types.ErrInvalidProductURL):
		return msgBadProductURL
	case errors.Is(err, types.ErrInvalidStoreURL):
		return msgBadStoreURL
	case errors.Is(err, types.ErrMissingTarget):
		return msgMissingTarget
	case errors.Is(err, types.ErrIntentUnknown):
		return msgIntentUnknown
	}

	var exportErr *types.ExportError
	if errors.As(err, &exportErr) {
		if errors.Is(exportErr.Err, types.ErrNoRecords) {
			return msgNoData
		}
		return msgExportFailed
	}
	var provErr *types.ProviderError
	if errors.As(err, &provErr) {
		return provErr.Error()
	}
	return msgScrapeFailed
}
