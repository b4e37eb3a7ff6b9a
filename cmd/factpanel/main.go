package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/factpanel/factpanel/internal/adapter/chucknorris"
	fphttp "github.com/factpanel/factpanel/internal/adapter/http"
	"github.com/factpanel/factpanel/internal/adapter/otel"
	"github.com/factpanel/factpanel/internal/adapter/ristretto"
	"github.com/factpanel/factpanel/internal/adapter/trmnl"
	"github.com/factpanel/factpanel/internal/config"
	"github.com/factpanel/factpanel/internal/logger"
	"github.com/factpanel/factpanel/internal/middleware"
	"github.com/factpanel/factpanel/internal/render"
	"github.com/factpanel/factpanel/internal/resilience"
	"github.com/factpanel/factpanel/internal/service"
)

func main() {
	// Bootstrap logger until the configured one takes over.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(os.Args[1:]); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags, err := config.ParseFlags(args)
	if err != nil {
		return fmt.Errorf("flags: %w", err)
	}

	cfg, cfgPath, err := config.LoadWithCLI(flags)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	slog.SetDefault(logger.New(cfg.Logging))
	slog.Info("config loaded",
		"file", cfgPath,
		"addr", cfg.Server.Addr(),
		"cache_timeout", cfg.Cache.TTL(),
		"refresh_interval", cfg.Display.RefreshRate(),
		"display", fmt.Sprintf("%dx%d", cfg.Display.Width, cfg.Display.Height),
	)

	shutdownTracer := otel.InitTracer(cfg.Logging.Service)
	defer func() { _ = shutdownTracer(context.Background()) }()

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Outbound clients ---

	source := chucknorris.NewClient(cfg.FactAPI.URL, cfg.FactAPI.Timeout)
	factBreaker := resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)
	source.SetBreaker(factBreaker)

	publisher, err := trmnl.NewClient(cfg.TRMNL.APIKey, cfg.TRMNL.PluginUUID,
		trmnl.WithBaseURL(cfg.TRMNL.BaseURL), trmnl.WithTimeout(cfg.TRMNL.Timeout))
	if err != nil {
		return fmt.Errorf("trmnl client: %w", err)
	}
	trmnlBreaker := resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)
	publisher.SetBreaker(trmnlBreaker)

	// --- Rendering ---

	gen, err := render.New(cfg.Display.Width, cfg.Display.Height)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if cfg.Display.PortraitURL != "" {
		fetchPortrait(gen, cfg.Display.PortraitURL)
	}

	store, err := ristretto.New(int64(cfg.Cache.MaxSizeMB) << 20)
	if err != nil {
		return fmt.Errorf("render cache: %w", err)
	}
	defer store.Close()

	// --- Services ---

	facts := service.NewFactService(source, cfg.Cache.TTL(), metrics)
	displaySvc := service.NewDisplayService(facts, gen, store, cfg, metrics)
	pushSvc := service.NewPushService(displaySvc, publisher, metrics)

	// --- HTTP ---

	handlers := &fphttp.Handlers{
		Facts:     facts,
		Display:   displaySvc,
		Push:      pushSvc,
		PushToken: cfg.TRMNL.APIKey,
		Breakers: map[string]*resilience.Breaker{
			"fact_api": factBreaker,
			"trmnl":    trmnlBreaker,
		},
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(fphttp.CORS(cfg.Server.CORSOrigin))
	r.Use(middleware.RequestID)
	r.Use(fphttp.Logger)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(otel.HTTPMiddleware(cfg.Logging.Service))

	// Health endpoint with fact and breaker status
	r.Get("/health", handlers.Health)

	// API routes
	fphttp.MountRoutes(r, handlers, cfg.Server.AccessToken)

	addr := cfg.Server.Addr()

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// fetchPortrait downloads the header portrait once at startup. Failure is
// not fatal; the display falls back to the text-only header.
func fetchPortrait(gen *render.Generator, url string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	img, err := render.FetchPortrait(ctx, &http.Client{Timeout: 15 * time.Second}, url)
	if err != nil {
		slog.Warn("portrait fetch failed, using text-only header", "url", url, "error", err)
		return
	}
	gen.SetPortrait(img)
	slog.Info("portrait loaded", "url", url)
}
