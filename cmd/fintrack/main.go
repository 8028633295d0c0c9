package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"

	"fintrack/internal/backend"
	"fintrack/internal/cache"
	"fintrack/internal/cli"
	"fintrack/internal/core"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig(backend.ValidateAppConfig)
	logger = logger.WithComponent(log.ComponentApp)
	logger.Info("Starting fintrack", "backend", cfg.DataBackend, "port", cfg.Port)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	be, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err)
		os.Exit(1)
	}

	categoryCache := cache.NewLRUCache[[]core.Category](cfg.CacheMaxEntries, cfg.CacheTTL)
	cacheManager := cache.NewManager()
	cacheManager.Register(categoryCache)
	cacheManager.StartCleanup(cfg.CacheTTL)

	wallets := services.NewWalletService(be.Repository)
	transactions := services.NewTransactionService(be.Repository, be.Publisher)
	budgets := services.NewBudgetService(be.Repository)
	savings := services.NewSavingsService(be.Repository)
	dues := services.NewDueService(be.Repository)

	srv := apphttp.NewServer(apphttp.Services{
		Categories:   services.NewCategoryService(be.Repository, categoryCache),
		Wallets:      wallets,
		Transactions: transactions,
		Budgets:      budgets,
		Savings:      savings,
		Dues:         dues,
		Dashboard:    services.NewDashboardService(wallets, transactions, budgets, savings, dues),
	}, apphttp.Options{
		Addr:               net.JoinHostPort("", cfg.Port),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
		BlockSuspicious:    cfg.BlockSuspicious,
		Checks:             be.Checks,
		CacheStats:         categoryCache.Stats,
		Logger:             logger,
	})

	_, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("HTTP server shutdown failed", log.FieldError, err)
		}
		cacheManager.Stop()
		if err := be.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	})

	logger.Info("HTTP server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("HTTP server failed", log.FieldError, err)
		os.Exit(1)
	}
	<-done
	logger.Info("Server stopped")
}
