package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ZaguanLabs/livetl/backend"
	"github.com/ZaguanLabs/livetl/cache"
	"github.com/ZaguanLabs/livetl/config"
	"github.com/ZaguanLabs/livetl/server"
)

// shutdownTimeout bounds how long in-flight requests may take on exit.
const shutdownTimeout = 5 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr, engineName string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the translation server",
		Long:  `Serves POST /api/translate, GET /api/languages, /healthz and /metrics.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := root.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if engineName != "" {
				cfg.Server.Engine = engineName
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}
			if path != "" {
				logger.Info("config loaded", "path", path)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			stack, err := buildEngine(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer stack.Close()

			metrics := server.NewMetrics()
			if stack.stats != nil {
				metrics.RegisterCache(stack.stats)
			}

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           server.NewHandler(stack.engine, server.WithMetrics(metrics), server.WithLogger(logger)),
				ReadHeaderTimeout: 10 * time.Second,
			}

			return serve(ctx, srv, logger)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config, :8080)")
	cmd.Flags().StringVarP(&engineName, "engine", "e", "", "Translation engine: mock, openai or lambda")

	return cmd
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			return srv.Close()
		}
		logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}

// engineStack is the engine chain built from config and what it owns.
type engineStack struct {
	engine  backend.Engine
	stats   server.CacheStats
	closers []io.Closer
}

func (s *engineStack) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// buildEngine wraps the configured engine as cache(ratelimit(retry(engine))).
// Cache hits skip the rate limiter.
func buildEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*engineStack, error) {
	stack := &engineStack{}

	var engine backend.Engine
	switch cfg.Server.Engine {
	case "mock":
		engine = backend.NewMockEngine()
	case "openai":
		engine = backend.NewOpenAIEngine(backend.OpenAIConfig{
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			BaseURL: cfg.OpenAI.BaseURL,
		})
	case "lambda":
		e, err := backend.NewLambdaEngine(ctx, backend.LambdaConfig{
			FunctionName: cfg.Lambda.FunctionName,
			Region:       cfg.Lambda.Region,
		})
		if err != nil {
			return nil, err
		}
		engine = e
	default:
		return nil, fmt.Errorf("unknown engine %q", cfg.Server.Engine)
	}

	if cfg.Server.RetryMax > 0 {
		retry := backend.DefaultRetryConfig()
		retry.MaxRetries = cfg.Server.RetryMax
		engine = backend.NewRetryableEngine(engine, retry)
	}

	if cfg.Server.RateLimitRPM > 0 {
		engine = backend.NewRateLimitedEngine(engine, backend.RateLimitConfig{
			RequestsPerMinute: cfg.Server.RateLimitRPM,
			BurstSize:         cfg.Server.Burst,
		})
	}

	c, closer, err := newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		stack.closers = append(stack.closers, closer)
	}

	if c != nil {
		cached := backend.NewCachedEngine(engine, c, logger)
		stack.stats = cached
		engine = cached
	}

	stack.engine = engine
	logger.Info("engine ready", "engine", engine.Name(), "cache", cfg.Server.Cache)
	return stack, nil
}

// newCache builds the configured translation cache. The closer is non-nil
// when the cache holds a connection.
func newCache(ctx context.Context, cfg *config.Config) (cache.TranslationCache, io.Closer, error) {
	switch cfg.Server.Cache {
	case "none":
		return nil, nil, nil
	case "memory":
		return cache.NewInMemoryCache(cfg.Server.TTL()).WithMaxEntries(cfg.Server.CacheMaxEntries), nil, nil
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			URL:       cfg.Redis.URL,
			TTL:       cfg.Server.TTL(),
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return rc, rc, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache %q", cfg.Server.Cache)
	}
}
