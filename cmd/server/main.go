// @title       Bill Splitter API
// @version     1.0
// @description Split restaurant bills between friends and settle up with the fewest payments.
// @BasePath    /api/v1
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/ksdfg/bill-splitter/internal/api"
	"github.com/ksdfg/bill-splitter/internal/config"
	"github.com/ksdfg/bill-splitter/internal/metrics"
	"github.com/ksdfg/bill-splitter/internal/ocr"
	"github.com/ksdfg/bill-splitter/internal/service"
	"github.com/ksdfg/bill-splitter/internal/storage"
	"github.com/ksdfg/bill-splitter/internal/storage/rediscache"
	"github.com/ksdfg/bill-splitter/internal/storage/sqlite"
	"github.com/ksdfg/bill-splitter/pkg/logging"
)

const purgeInterval = time.Hour

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	m := metrics.New()

	extractor, err := ocr.New(ctx, cfg.OCR)
	if err != nil {
		return fmt.Errorf("failed to initialize OCR provider: %w", err)
	}
	extractor = ocr.NewObserved(extractor, cfg.OCR.Timeout, m)

	cache, err := openCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	if cache != nil {
		defer cache.Close()
		extractor = ocr.NewCached(extractor, cache, m)
	}
	slog.Info("OCR initialized", "provider", extractor.Name(), "cache", cfg.Cache.Driver)

	handler := api.NewRouter(api.RouterConfig{
		Outings:        service.NewOutingService(m),
		Bills:          service.NewBillService(extractor),
		Metrics:        m,
		CORSAllowHosts: cfg.Server.CORSAllowHosts,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      h2c.NewHandler(handler, &http2.Server{}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openCache returns the configured OCR cache, or nil when caching is off.
func openCache(ctx context.Context, cfg config.CacheConfig) (storage.Cache, error) {
	switch cfg.Driver {
	case config.CacheSQLite:
		c, err := sqlite.New(cfg.SQLitePath, cfg.TTL)
		if err != nil {
			return nil, err
		}
		go purgeLoop(ctx, c)
		slog.Info("Storage initialized", "database", cfg.SQLitePath)
		return c, nil
	case config.CacheRedis:
		c, err := rediscache.New(ctx, cfg.RedisAddr, cfg.TTL)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "redis", cfg.RedisAddr)
		return c, nil
	default:
		return nil, nil
	}
}

// purgeLoop removes expired SQLite cache entries until ctx is cancelled.
// Redis expires keys on its own.
func purgeLoop(ctx context.Context, c *sqlite.Cache) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := c.PurgeExpired(ctx)
			if err != nil {
				slog.Warn("Failed to purge OCR cache", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("Purged expired OCR cache entries", "count", n)
			}
		}
	}
}
