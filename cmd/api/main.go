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

	"github.com/sitesage/sitesage/backend/internal/analyzer"
	"github.com/sitesage/sitesage/backend/internal/platform/config"
	"github.com/sitesage/sitesage/backend/internal/platform/logger"
	"github.com/sitesage/sitesage/backend/internal/platform/middleware"
	"github.com/sitesage/sitesage/backend/internal/seo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	fetcher := seo.NewPageFetcher()
	checker := seo.NewLinkChecker(cfg.LinkCheckConcurrency, cfg.LinkCheckLimit)
	crawler := seo.NewCrawler(fetcher, checker, time.Duration(cfg.CrawlTimeout)*time.Second)
	scorer := seo.NewScorer()
	metrics := seo.NewPageSpeedClient(cfg.PageSpeedURL, cfg.GoogleAPIKey)

	var summarizer seo.Summarizer = seo.NewFallbackWriter()
	if cfg.GoogleAPIKey != "" {
		summarizer = seo.NewGenerativeWriter(seo.NewGeminiClient(cfg.GoogleAPIKey, cfg.LLMModel))
	}

	service := analyzer.NewService(crawler, scorer, metrics, summarizer, log)
	transport := analyzer.NewTransport(service, log, cfg.BatchMaxURLs)

	mux := http.NewServeMux()
	transport.RegisterRoutes(mux)

	handler := middleware.RequestID(middleware.Logging(log)(mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server started", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}
