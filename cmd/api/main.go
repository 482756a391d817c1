// Package main is the entry point for the portfolio API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/gustafedn/atelier/internal/analytics"
	"github.com/gustafedn/atelier/internal/api"
	"github.com/gustafedn/atelier/internal/collection"
	"github.com/gustafedn/atelier/internal/config"
	"github.com/gustafedn/atelier/internal/content"
	"github.com/gustafedn/atelier/internal/db"
	"github.com/gustafedn/atelier/internal/gallery"
	"github.com/gustafedn/atelier/internal/health"
	"github.com/gustafedn/atelier/internal/jobs"
	"github.com/gustafedn/atelier/internal/middleware"
	"github.com/gustafedn/atelier/internal/nav"
	"github.com/gustafedn/atelier/internal/slideshow"
	"github.com/gustafedn/atelier/internal/stats"
)

func main() {
	help := flag.Bool("help", false, "display help message")
	configFile := flag.String("config", "", "config file path")
	flag.Parse()

	if *help {
		fmt.Println("Atelier API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configFile)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "config", cfg.LogSummary())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fallback, err := collection.LoadFallback()
	if err != nil {
		logger.Error("failed to load fallback collections", "error", err)
		os.Exit(1)
	}

	// Storage. Without a database the site serves the embedded fallback
	// data and keeps counters in process memory.
	var (
		collRepo     collection.Repository
		statsRepo    stats.Repository
		dbChecker    api.HealthChecker
		redisChecker api.HealthChecker
	)
	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("database unavailable, serving fallback data", "error", err)
		} else {
			defer conn.Close()
			collRepo = collection.NewPostgresRepository(conn, logger)
			statsRepo = stats.NewPostgresRepository(conn, logger)
			dbChecker = health.NewDBChecker(conn)
		}
	}
	if collRepo == nil {
		collRepo = collection.NewInMemoryRepository(nil)
		statsRepo = stats.NewInMemoryRepository()
	}

	metrics := middleware.NewMetrics()
	jobMetrics := jobs.NewMetrics()
	registry := prometheus.NewRegistry()
	if err := metrics.Register(registry); err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}
	if err := jobMetrics.Register(registry); err != nil {
		logger.Error("failed to register job metrics", "error", err)
		os.Exit(1)
	}

	// Redis backs session accounting and rate limiting when configured.
	var sessions analytics.SessionStore = analytics.NewInMemorySessionStore()
	var rateLimitStore middleware.RateLimitStore
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		client := redis.NewClient(opts)
		defer client.Close()
		sessions = analytics.NewRedisSessionStore(client)
		rateLimitStore = middleware.NewRedisRateLimitStore(client, logger, metrics)
		redisChecker = health.NewRedisChecker(client)
	} else {
		store := middleware.NewInMemoryRateLimitStore()
		rateLimitStore = store
		go func() {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					store.Cleanup()
				}
			}
		}()
	}

	// Analytics
	var notifier *analytics.Notifier
	if cfg.AnalyticsURL != "" {
		notifier = analytics.NewNotifier(cfg.AnalyticsURL, cfg.AnalyticsAPIKey, nil, logger)
	}
	geo := analytics.NewGeoLocator(cfg.GeoEndpoint, nil, logger)
	tracker := analytics.NewTracker(statsRepo, notifier, sessions, geo, cfg.SiteHost, logger)

	// Content
	loader := content.NewLoader(cfg.ContentDir, content.NewRenderer(), logger)
	if cfg.WatchContent {
		watcher, err := content.NewWatcher(loader, logger)
		if err != nil {
			logger.Warn("content watching disabled", "error", err)
		} else {
			watcher.SetMetrics(jobMetrics)
			go watcher.Run(ctx)
		}
	}

	// Hash router, used to prerender section views
	router := nav.NewRouter(logger)
	router.Register(nav.Section{ID: "front", Title: "Front", Render: nav.StaticSource(loader, "front")})
	router.Register(nav.Section{ID: "about", Title: "About", Render: nav.MarkdownSource(loader, "about")})
	router.Register(nav.Section{ID: "stuff", Title: "Stuff", Render: nav.ProjectSource(loader, "stuff", "projects")})
	router.Register(nav.Section{ID: "photos", Title: "Photos", Render: nav.StaticSource(loader, "photos")})
	router.Register(nav.Section{ID: "contact", Title: "Contact", Render: nav.MarkdownSource(loader, "contact")})

	// Gallery and slideshow
	controller := gallery.NewController(collRepo, fallback, logger)
	slideshowHandlers := api.NewSlideshowHandlers()
	playlist := slideshow.NewPlaylistBuilder(collRepo, fallback, logger).Build(ctx)
	show := slideshow.New(
		playlist,
		time.Duration(cfg.SlideshowIntervalSeconds)*time.Second,
		preloadPhoto,
		slideshowHandlers.OnFrame,
		logger,
	)
	show.SetMetrics(jobMetrics)
	show.Start(ctx)
	defer show.Stop()

	contentHandlers := api.NewContentHandlers(loader, logger)
	navHandlers := api.NewNavHandlers(router, logger)
	galleryHandlers := api.NewGalleryHandlers(controller, collRepo, logger)
	trackHandlers := api.NewTrackHandlers(tracker, logger)
	statsHandlers := api.NewStatsHandlers(statsRepo, logger)
	statsHandlers.SetSparklineColor(cfg.SparklineColor)
	healthHandlers := api.NewHealthHandlers(api.HealthHandlersConfig{
		DBChecker:    dbChecker,
		RedisChecker: redisChecker,
	})

	trackLimit := middleware.DefaultTrackLimit()
	if cfg.TrackRateLimit > 0 {
		trackLimit = middleware.RateLimitConfig{
			RequestsPerWindow: cfg.TrackRateLimit,
			WindowDuration:    time.Minute,
		}
	}
	limit := middleware.RateLimiter(rateLimitStore, middleware.DefaultGlobalLimit(), middleware.IPKeyFunc())
	limitTrack := middleware.RateLimiter(rateLimitStore, trackLimit, middleware.IPKeyFunc())

	mux := http.NewServeMux()
	mux.Handle("GET /content/markdown/{path...}", limit(http.HandlerFunc(contentHandlers.RawMarkdown)))
	mux.Handle("GET /content/{section...}", limit(http.HandlerFunc(contentHandlers.Section)))
	mux.Handle("GET /view", limit(http.HandlerFunc(navHandlers.View)))
	mux.Handle("GET /collections", limit(http.HandlerFunc(galleryHandlers.List)))
	mux.Handle("GET /collections/{id}", limit(http.HandlerFunc(galleryHandlers.Get)))
	mux.Handle("GET /featured", limit(http.HandlerFunc(galleryHandlers.Featured)))
	mux.Handle("GET /slideshow", limit(http.HandlerFunc(slideshowHandlers.Current)))
	mux.Handle("GET /stats/{source}", limit(http.HandlerFunc(statsHandlers.Document)))
	mux.Handle("GET /stats/{source}/history", limit(http.HandlerFunc(statsHandlers.History)))
	mux.Handle("POST /track/page", limitTrack(http.HandlerFunc(trackHandlers.PageView)))
	mux.Handle("POST /track/photo", limitTrack(http.HandlerFunc(trackHandlers.PhotoView)))
	mux.Handle("POST /track/visit", limitTrack(http.HandlerFunc(trackHandlers.Visit)))
	mux.HandleFunc("GET /healthz", healthHandlers.Health)
	mux.HandleFunc("GET /readyz", healthHandlers.Ready)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Middleware: RequestID -> Logging -> CORS -> HTTP metrics
	handler := middleware.RequestID(
		middleware.Logging(logger)(
			middleware.CORS(middleware.SiteCORSConfig(cfg.SiteHost))(
				middleware.HTTPMetrics(metrics)(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if notifier != nil {
		notifier.Flush()
	}

	logger.Info("server stopped")
}

// preloadPhoto warms a photo URL in the CDN cache ahead of display.
func preloadPhoto(ctx context.Context, src string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, src, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
