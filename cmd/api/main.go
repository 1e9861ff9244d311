package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"om-traders/internal/config"
	"om-traders/internal/handler"
	"om-traders/internal/notify"
	"om-traders/internal/router"
	"om-traders/internal/service"
	"om-traders/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting om-traders API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage: local SQLite store, optionally fronted by the remote
	// document-store API with per-call fallback.
	store, closeStore, err := storage.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStore()

	notifier := notify.NewLogNotifier(logger)

	productService := service.NewProductService(store, notifier, logger)
	invoiceService := service.NewInvoiceService(store, productService, notifier, cfg.Billing, logger)
	categoryService := service.NewCategoryService(store, notifier, logger)
	statsService := service.NewStatsService(store, cfg.Billing.LowStockThreshold, logger)

	// Warm the catalogue cache. A failure here is not fatal; the first
	// request retries the load.
	if err := productService.Refresh(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial product load failed, will retry on first request")
	}

	productHandler := handler.NewProductHandler(productService, logger)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, productService, logger)
	categoryHandler := handler.NewCategoryHandler(categoryService, logger)
	statsHandler := handler.NewStatsHandler(statsService, logger)

	mux := router.New(productHandler, invoiceHandler, categoryHandler, statsHandler,
		store, cfg.Auth.APIKey, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Bool("using_fallback", store.UsingFallback()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
