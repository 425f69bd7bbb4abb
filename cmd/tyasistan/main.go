package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oguzhantopcu/tyasistan/internal/ai"
	"github.com/oguzhantopcu/tyasistan/internal/archive"
	"github.com/oguzhantopcu/tyasistan/internal/assistant"
	"github.com/oguzhantopcu/tyasistan/internal/config"
	"github.com/oguzhantopcu/tyasistan/internal/exporter"
	"github.com/oguzhantopcu/tyasistan/internal/fetcher"
	"github.com/oguzhantopcu/tyasistan/internal/intent"
	"github.com/oguzhantopcu/tyasistan/internal/observability"
	"github.com/oguzhantopcu/tyasistan/internal/repl"
	"github.com/oguzhantopcu/tyasistan/internal/scraper"
	"github.com/oguzhantopcu/tyasistan/internal/server"
	"github.com/oguzhantopcu/tyasistan/internal/types"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tyasistan",
		Short: "Trendyol veri asistanı — chat-driven scraping and Excel export",
		Long: `tyasistan is a conversational assistant for collecting Trendyol data.

It understands Turkish chat messages, routes them to scraping operations
(keyword search, product reviews, Q&A, store catalogs, product info) and
hands back the results as downloadable Excel files.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the wired components shared by the serve and chat commands.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	aiClient  *ai.Client
	assistant *assistant.Assistant
	exporter  *exporter.Exporter
	scraper   *scraper.Client
	archive   *archive.MongoArchive
	metrics   *observability.Metrics
}

func buildApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(cfg)

	f, err := fetcher.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create fetcher: %w", err)
	}
	sc := scraper.NewClient(f, cfg, logger)

	ex, err := exporter.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create exporter: %w", err)
	}

	metrics := observability.NewMetrics(logger)
	if cfg.Metrics.Enabled {
		if err := metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Warn("failed to start metrics server", "error", err)
		}
	}

	opts := []assistant.Option{assistant.WithMetrics(metrics)}
	var arch *archive.MongoArchive
	if cfg.Archive.Enabled {
		arch, err = archive.NewMongoArchive(cfg.Archive, logger)
		if err != nil {
			logger.Warn("run archive unavailable", "error", err)
		} else {
			opts = append(opts, assistant.WithArchive(arch))
		}
	}

	aiClient := ai.NewClient(cfg.AI, logger)
	as := assistant.New(aiClient, sc, ex, logger, opts...)

	return &app{
		cfg:       cfg,
		logger:    logger,
		aiClient:  aiClient,
		assistant: as,
		exporter:  ex,
		scraper:   sc,
		archive:   arch,
		metrics:   metrics,
	}, nil
}

func (a *app) close() {
	if err := a.scraper.Close(); err != nil {
		a.logger.Warn("scraper close failed", "error", err)
	}
	if err := a.exporter.Close(); err != nil {
		a.logger.Warn("exporter close failed", "error", err)
	}
	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			a.logger.Warn("archive close failed", "error", err)
		}
	}
}

// serveCmd creates the "serve" subcommand running the web chat surface.
func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web chat server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp()
			if err != nil {
				return err
			}
			defer app.close()

			if addr != "" {
				app.cfg.Server.Addr = addr
			}

			srv := server.New(app.cfg.Server.Addr, app.assistant, app.exporter, app.logger,
				server.WithKeyedCompleter(func(key, model string) ai.Completer {
					c := app.aiClient
					if key != "" {
						c = c.WithAPIKey(key)
					}
					if model != "" {
						c = c.WithModel(model)
					}
					return c
				}))

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides config)")
	return cmd
}

// chatCmd creates the "chat" subcommand running the terminal chat.
func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp()
			if err != nil {
				return err
			}
			defer app.close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return repl.New(app.assistant, app.logger).Run(ctx)
		},
	}
}

// scrapeCmd creates the "scrape" subcommand for one-shot runs without the
// chat loop. The target is classified the same way a chat message is.
func scrapeCmd() *cobra.Command {
	var opName string

	cmd := &cobra.Command{
		Use:   "scrape [keyword or Trendyol URL]",
		Short: "Run one scraping operation and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp()
			if err != nil {
				return err
			}
			defer app.close()

			router := intent.NewRouter(app.logger)
			var req types.ScrapeRequest
			if opName != "" {
				req = types.ScrapeRequest{Op: types.OpKind(opName), Target: args[0]}
			} else {
				req, err = router.Classify(args[0])
				if err != nil {
					return fmt.Errorf("classify %q: %w", args[0], err)
				}
			}
			if err := router.Validate(req); err != nil {
				return fmt.Errorf("invalid request: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			start := time.Now()
			summary, file, err := app.assistant.Execute(ctx, req)
			if err != nil {
				return err
			}

			fmt.Println(summary)
			if file != nil {
				fmt.Printf("\n✅ %s (%d satır) — %s\n", file.Name, file.Rows, file.Path)
			}
			fmt.Printf("⏱️  %s\n", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVar(&opName, "op", "", "operation: search, reviews, questions, store, product (default: auto-detect)")
	return cmd
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tyasistan %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Fetcher:\n")
			fmt.Printf("  Type:             %s\n", cfg.Fetcher.Type)
			fmt.Printf("  Request Timeout:  %s\n", cfg.Fetcher.RequestTimeout)
			fmt.Printf("  Max Retries:      %d\n", cfg.Fetcher.MaxRetries)
			fmt.Printf("  User Agents:      %d configured\n", len(cfg.Fetcher.UserAgents))
			fmt.Printf("\nScraper:\n")
			fmt.Printf("  Page Size:        %d\n", cfg.Scraper.PageSize)
			fmt.Printf("  Max Listing Pages: %d\n", cfg.Scraper.MaxListingPages)
			fmt.Printf("  Max Detail Pages:  %d\n", cfg.Scraper.MaxDetailPages)
			fmt.Printf("  Politeness Delay:  %s\n", cfg.Scraper.PolitenessDelay)
			fmt.Printf("\nAI:\n")
			fmt.Printf("  Provider:         %s\n", cfg.AI.Provider)
			fmt.Printf("  Model:            %s\n", cfg.AI.Model)
			fmt.Printf("  API Key Set:      %v\n", cfg.AI.APIKey != "")
			fmt.Printf("\nExport:\n")
			fmt.Printf("  Format:           %s\n", cfg.Export.Format)
			fmt.Printf("  Directory:        %s\n", cfg.Export.Dir)
			fmt.Printf("  File TTL:         %s\n", cfg.Export.FileTTL)
			fmt.Printf("\nServer:\n")
			fmt.Printf("  Addr:             %s\n", cfg.Server.Addr)
			fmt.Printf("\nArchive:\n")
			fmt.Printf("  Enabled:          %v\n", cfg.Archive.Enabled)
			fmt.Printf("\nMetrics:\n")
			fmt.Printf("  Enabled:          %v\n", cfg.Metrics.Enabled)
			fmt.Printf("  Port:             %d\n", cfg.Metrics.Port)
			return nil
		},
	}
}

// setupLogger creates a structured logger from the logging config.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
