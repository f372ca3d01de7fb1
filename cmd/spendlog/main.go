package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"spendlog/internal/cache"
	"spendlog/internal/cli"
	apphttp "spendlog/internal/http"
	"spendlog/internal/log"
	"spendlog/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), os.Stdout)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	res, err := cli.OpenBackend(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	ledger := services.NewLedger(res.Repository)
	records, err := ledger.Refresh(ctx)
	if err != nil {
		logger.Error("Failed to load expenses", log.FieldError, err)
		os.Exit(1)
	}

	chartCache := cache.NewLRUCache[[]byte](cfg.ChartCacheSize, cfg.ChartCacheTTL)
	cacheManager := cache.NewManager(logger)
	cacheManager.Register(chartCache)

	srv := apphttp.NewServer(":"+cfg.Port, ledger,
		apphttp.WithChartCache(chartCache),
		apphttp.WithLogger(logger))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting spendlog server",
			"port", cfg.Port,
			log.FieldBackend, cfg.DataBackend,
			log.FieldCount, len(records))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return cacheManager.Run(gctx, cfg.ChartCacheTTL)
	})
	g.Go(func() error {
		return srv.Limiter().Run(gctx, 5*time.Minute)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
