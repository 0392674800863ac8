package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/vilaca/profile-card/internal/api"
	"github.com/vilaca/profile-card/internal/api/github"
	"github.com/vilaca/profile-card/internal/api/platform"
	"github.com/vilaca/profile-card/internal/config"
	"github.com/vilaca/profile-card/internal/logger"
	"github.com/vilaca/profile-card/internal/service"
	"github.com/vilaca/profile-card/internal/telemetry"
	"github.com/vilaca/profile-card/internal/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(os.Getenv(config.EnvPrefix + "CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTel.Endpoint, cfg.OTel.ServiceName)
	if err != nil {
		log.Warn("tracing disabled", zap.Error(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("flush traces", zap.Error(err))
		}
	}()

	// Wire up dependencies (Dependency Injection / IoC)
	handler, closer := buildServer(cfg, log)
	defer func() {
		if err := closer.Close(); err != nil {
			log.Warn("close cache", zap.Error(err))
		}
	}()

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	log.Info("starting profile card server",
		zap.String("addr", cfg.HTTP.Addr),
		zap.String("site", cfg.Site.Name),
		zap.String("cache", cfg.Cache.Backend),
		zap.Bool("github_token", cfg.HasGitHubToken()),
		zap.Bool("platform", cfg.HasPlatformConfig()),
	)
	if !cfg.HasPlatformConfig() {
		log.Warn("platform service not configured, every profile is rendered without membership data")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown server", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", zap.Error(err))
		}
	}
}

// buildServer wires up all dependencies and returns the configured HTTP handler
// together with the cache to close on shutdown.
// This is the composition root where all dependencies are created and injected.
func buildServer(cfg *config.Config, log *zap.Logger) (http.Handler, io.Closer) {
	httpClient := &http.Client{
		Timeout: 30 * time.Second, // Upper bound; per-source deadlines are shorter
	}

	var limiter *rate.Limiter
	if cfg.GitHub.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.GitHub.RequestsPerSecond), max(cfg.GitHub.Burst, 1))
	}

	githubClient := github.NewClient(api.ClientConfig{
		BaseURL: cfg.GitHub.URL,
		Token:   cfg.GitHub.Token,
	}, httpClient, limiter)

	var platformClient api.InternalProfileClient
	if cfg.HasPlatformConfig() {
		platformClient = platform.NewClient(api.ClientConfig{
			BaseURL: cfg.Platform.URL,
			Token:   cfg.Platform.Token,
		}, httpClient)
	}

	// Wrap with caching layer
	cache, closer := buildCache(cfg.Cache, log)
	caching := api.NewCachingClient(githubClient, platformClient, cache, cfg.Cache.TTL, log).
		WithFetchTimeout(max(cfg.GitHub.Timeout, cfg.Platform.Timeout))

	var internal api.InternalProfileClient
	if platformClient != nil {
		internal = caching
	}

	sources := service.NewSources(caching, internal, service.SourcesConfig{
		ExternalTimeout: cfg.GitHub.Timeout,
		InternalTimeout: cfg.Platform.Timeout,
	}, log)
	profiles := service.NewProfileService(sources, log)

	handler := web.NewHandler(web.HandlerConfig{
		Renderer:       web.NewHTMLRenderer(),
		Logger:         log,
		Profiles:       profiles,
		SiteName:       cfg.Site.Name,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	})

	return handler.Routes(), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func buildCache(cfg config.CacheConfig, log *zap.Logger) (api.Cache, io.Closer) {
	switch cfg.Backend {
	case config.CacheBackendRedis:
		client := api.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		// Unreachable Redis degrades to uncached lookups
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable at startup", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		cache := api.NewRedisCache(client)
		return cache, cache
	case config.CacheBackendNone:
		return nil, nopCloser{}
	default:
		cache := api.NewMemoryCache(cfg.TTL)
		return cache, cache
	}
}
