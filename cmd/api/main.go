// Package main implements the HTTP API server for the font catalog.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	apihttp "github.com/dsjohal14/fontstack/internal/http"
	"github.com/dsjohal14/fontstack/internal/libs/config"
	"github.com/dsjohal14/fontstack/internal/libs/jobs"
	"github.com/dsjohal14/fontstack/internal/libs/obs"
	"github.com/dsjohal14/fontstack/internal/loader"
	"github.com/dsjohal14/fontstack/internal/refresh"
	"github.com/dsjohal14/fontstack/internal/scope/catalog"
	"github.com/dsjohal14/fontstack/internal/scope/db"
	"github.com/dsjohal14/fontstack/internal/source"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Init logger
	obs.InitLogger(cfg.LogLevel, cfg.LogFormat)
	logger := obs.Logger("api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Pick the catalog source
	src, closeSource, err := openSource(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open catalog source")
	}
	defer closeSource()

	index := catalog.NewIndex(catalog.WithLocale(cfg.Locale))
	ld := loader.New(src, index, jobs.NewQueue(jobs.DefaultHistory), obs.Logger("loader"))

	// An unreachable catalog at startup is not fatal; /reload or the refresh
	// connectors can populate the index later.
	if _, err := ld.Load(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial catalog load failed, serving empty index")
	}

	for _, c := range connectors(cfg, ld) {
		if err := c.Start(); err != nil {
			logger.Fatal().Err(err).Str("connector", c.Name()).Msg("failed to start refresh connector")
		}
		logger.Info().Str("connector", c.Name()).Msg("refresh connector started")
		defer func(c refresh.Connector) { _ = c.Stop() }(c)
	}

	// Create HTTP handler
	handler := apihttp.NewHandler(index, ld, cfg.IncludeURL, logger)

	// Setup router
	r := setupRouter(handler)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", addr).Str("source", src.Name()).Msg("starting API server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server failed")
	}
	logger.Info().Msg("server stopped")
}

func setupRouter(h *apihttp.Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// Routes
	r.Get("/health", h.HandleHealth)
	r.Post("/search", h.HandleSearch)
	r.Get("/classifications", h.HandleClassifications)
	r.Get("/classifications/{tag}", h.HandleClassification)
	r.Get("/families/{slug}", h.HandleFamily)
	r.Post("/include", h.HandleInclude)
	r.Post("/reload", h.HandleReload)
	r.Get("/jobs/{id}", h.HandleJob)

	return r
}

// openSource builds the configured catalog source and a func releasing it
func openSource(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (loader.Source, func(), error) {
	switch cfg.CatalogSource {
	case config.SourceFile:
		logger.Info().Str("path", cfg.CatalogFile).Msg("using file catalog source")
		return source.NewFile(cfg.CatalogFile), func() {}, nil

	case config.SourcePostgres:
		connCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		database, err := db.New(connCtx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Msg("using Postgres catalog mirror")
		return database, database.Close, nil

	default:
		src := source.NewHTTP(cfg.CatalogURL,
			source.WithTimeout(cfg.FetchTimeout),
			source.WithMinInterval(cfg.FetchMinInterval),
			source.WithLogger(obs.Logger("source")),
		)
		logger.Info().Str("url", src.URL()).Msg("using HTTP catalog source")
		return src, func() {}, nil
	}
}

func connectors(cfg *config.Config, ld *loader.Loader) []refresh.Connector {
	var out []refresh.Connector
	if cfg.RefreshInterval > 0 {
		out = append(out, refresh.NewTicker(ld, cfg.RefreshInterval, obs.Logger("refresh")))
	}
	if cfg.WatchCatalogFile {
		out = append(out, refresh.NewFileWatcher(ld, cfg.CatalogFile, refresh.DefaultDebounce, obs.Logger("refresh")))
	}
	return out
}
