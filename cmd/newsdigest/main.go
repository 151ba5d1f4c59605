package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/editorial-tools/newsdigest/internal/config"
	"github.com/editorial-tools/newsdigest/internal/digest"
	"github.com/editorial-tools/newsdigest/internal/llm"
	llmmock "github.com/editorial-tools/newsdigest/internal/llm/mock"
	"github.com/editorial-tools/newsdigest/internal/llm/openrouter"
	"github.com/editorial-tools/newsdigest/internal/mcpserver"
	"github.com/editorial-tools/newsdigest/internal/metrics"
	"github.com/editorial-tools/newsdigest/internal/report"
	"github.com/editorial-tools/newsdigest/internal/search/searchapi"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "newsdigest: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	m := metrics.New()

	searchClient := searchapi.New(searchapi.Config{
		APIKey:  cfg.Search.APIKey,
		BaseURL: cfg.Search.BaseURL,
		Timeout: cfg.Search.Timeout,
	}, logger)

	llmClient, err := newLLMClient(cfg.LLM, logger)
	if err != nil {
		return err
	}

	var reporter report.Reporter = report.NewLogReporter(logger)
	if cfg.Report.WebhookURL != "" {
		reporter = report.NewWebhookReporter(report.WebhookConfig{URL: cfg.Report.WebhookURL}, logger)
	}

	pipeline, err := digest.New(digest.Deps{
		Search:   searchClient,
		LLM:      llmClient,
		Reporter: reporter,
		Logger:   logger,
		Metrics:  m,
		Config: digest.Config{
			PageSize:    cfg.Search.PageSize,
			Summarize:   cfg.Digest.Summarize,
			MaxTokens:   cfg.Digest.MaxTokens,
			LLMProvider: cfg.LLM.Provider,
		},
	})
	if err != nil {
		return err
	}

	server := mcpserver.New(pipeline, logger, m, mcpserver.Config{})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	metricsServer := &http.Server{Addr: cfg.Metrics.Addr, Handler: metrics.Handler()}
	g.Go(func() error {
		logger.Info("metrics server listening", zap.String("addr", cfg.Metrics.Addr))
		if err := metricsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})

	switch cfg.Server.Transport {
	case "stdio":
		g.Go(func() error {
			defer stop()
			return server.ServeStdio(ctx)
		})

	case "http":
		mcpHTTP := &http.Server{Addr: cfg.Server.Addr, Handler: server.Handler()}
		g.Go(func() error {
			logger.Info("MCP server listening", zap.String("addr", cfg.Server.Addr))
			if err := mcpHTTP.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return mcpHTTP.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newLLMClient(cfg config.LLMConfig, logger *zap.Logger) (llm.Client, error) {
	switch cfg.Provider {
	case "openrouter":
		return openrouter.New(openrouter.Config{
			APIKey:  cfg.OpenRouter.APIKey,
			Model:   cfg.OpenRouter.Model,
			BaseURL: cfg.OpenRouter.BaseURL,
			Timeout: cfg.OpenRouter.Timeout,
		}, logger), nil
	case "mock":
		return llmmock.New(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}
