package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/seo-optimizer/contentlens/analyzer"
	"github.com/seo-optimizer/contentlens/api"
	"github.com/seo-optimizer/contentlens/definitions"
	"github.com/seo-optimizer/contentlens/fetch"
	"github.com/seo-optimizer/contentlens/linkcheck"
	"github.com/seo-optimizer/contentlens/logging"
	"github.com/seo-optimizer/contentlens/middleware"
	"github.com/seo-optimizer/contentlens/stats"
)

const (
	cleanupInterval = 5 * time.Minute
	retainMonths    = 12
	shutdownTimeout = 10 * time.Second
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return a.serve(ctx)
		},
	}
}

// newRouter wires middleware and routes.
func (a *app) newRouter(handler *api.Handler, limiter *middleware.RateLimiter, statistics *logging.Statistics) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(a.logger))
	r.Use(middleware.ErrorHandler(a.logger))
	r.Use(middleware.CORS())
	r.Use(limiter.RateLimit())
	r.Use(middleware.Stats(statistics, "/api/analyze", a.logger))

	handler.Register(r.Group("/api"))
	return r
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	gin.SetMode(cfg.GinMode)

	usage, err := stats.NewStorage(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize stats storage: %w", err)
	}
	defer func() {
		if err := usage.Shutdown(); err != nil {
			a.logger.Error().Err(err).Msg("failed to flush usage stats")
		}
	}()

	statistics, err := logging.NewStatistics(filepath.Join(cfg.DataDir, "statistics.json"), cfg.DevMode)
	if err != nil {
		a.logger.Warn().Err(err).Msg("starting with empty request statistics")
	}
	defer func() {
		if err := statistics.Save(); err != nil {
			a.logger.Error().Err(err).Msg("failed to save request statistics")
		}
	}()

	browser := &fetch.LazyBrowser{}
	defer browser.Close()

	opts := []analyzer.Option{
		analyzer.WithLogger(a.logger),
		analyzer.WithStats(usage),
		analyzer.WithFetcher(fetch.NewHTTP(
			fetch.WithTimeout(cfg.FetchTimeout),
			fetch.WithUserAgent(cfg.UserAgent),
		)),
		analyzer.WithBrowserFetcher(browser),
	}
	if cfg.CheckLinks {
		opts = append(opts, analyzer.WithLinkChecker(a.newLinkChecker(linkcheck.WithRecorder(usage))))
	}

	defs := definitions.NewClient(
		definitions.WithBaseURL(cfg.DictionaryURL),
		definitions.WithRecorder(usage),
		definitions.WithLogger(a.logger),
	)

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	handler := api.NewHandler(analyzer.New(opts...), defs, statistics, usage, a.logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.newRouter(handler, limiter, statistics),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go a.periodicCleanup(ctx, limiter, usage)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", "http://localhost:"+cfg.Port).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// periodicCleanup drops idle rate limiter entries and old usage months.
func (a *app) periodicCleanup(ctx context.Context, limiter *middleware.RateLimiter, usage *stats.Storage) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Cleanup()
			usage.Cleanup(retainMonths)
		}
	}
}
