package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gemkart/internal/cart"
	"gemkart/internal/catalog"
	"gemkart/internal/config"
	"gemkart/internal/database"
	"gemkart/internal/discount"
	"gemkart/internal/handler"
	"gemkart/internal/order"
	"gemkart/internal/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting gemkart pricing API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	catalogRepo := catalog.NewRepository(pool, logger)
	lineRepo := cart.NewLineRepository(pool, logger)
	addonRepo := cart.NewAddonRepository(pool, logger)
	discountRepo := discount.NewRepository(pool, logger)
	orderRepo := order.NewRepository(pool, logger)

	// Optionally bulk-import discount codes at startup
	if cfg.DiscountImport.Enabled {
		var source discount.Source
		if cfg.DiscountImport.S3Enabled {
			s3Source, err := discount.NewS3Source(ctx, cfg.DiscountImport.S3Bucket, cfg.DiscountImport.S3Region, logger)
			if err != nil {
				logger.Warn().
					Err(err).
					Msg("failed to initialise S3 source, falling back to local file system")
				source = discount.NewFileSource(logger)
			} else {
				source = s3Source
			}
		} else {
			source = discount.NewFileSource(logger)
		}

		importer := discount.NewImporter(discountRepo, source, logger)
		if _, err := importer.ImportAll(ctx, cfg.DiscountImport.Files); err != nil {
			return fmt.Errorf("failed to import discount codes: %w", err)
		}
	}

	// Initialize services
	cartService := cart.NewService(pool, lineRepo, addonRepo, catalogRepo, logger)
	discountService := discount.NewService(discountRepo, logger)
	orderService := order.NewService(pool, orderRepo, lineRepo, addonRepo, discountRepo, catalogRepo, logger)

	// Initialize HTTP handlers
	cartHandler := handler.NewCartHandler(cartService, logger)
	discountHandler := handler.NewDiscountHandler(discountService, cartService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	productHandler := handler.NewProductHandler(catalogRepo, logger)

	// Initialize router
	mux := router.New(cartHandler, discountHandler, orderHandler, productHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
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

		logger.Info().Msg("server shutdown complete")
	}

	return nil
}
