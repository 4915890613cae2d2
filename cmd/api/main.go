// Package main is the entry point for the Truck Logbook API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for goose
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/dkowalski/truck-logbook/internal/config"
	"github.com/dkowalski/truck-logbook/internal/geocode"
	"github.com/dkowalski/truck-logbook/internal/handler"
	"github.com/dkowalski/truck-logbook/internal/middleware"
	"github.com/dkowalski/truck-logbook/internal/receipts"
	"github.com/dkowalski/truck-logbook/internal/repo"
	"github.com/dkowalski/truck-logbook/internal/service"
	"github.com/dkowalski/truck-logbook/migrations"
)

// maxRequestBody caps JSON request bodies. Receipt uploads carry their own
// multipart limit, so this just needs headroom above it.
const maxRequestBody = 12 << 20

// geocodeCacheTTL keeps resolved addresses warm for a day. Yards and truck
// stops do not move; a stale hit is harmless.
const geocodeCacheTTL = 24 * time.Hour

func main() {
	// --- Config -----------------------------------------------------------
	// .env is a developer convenience; production sets real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Migrations -------------------------------------------------------
	// goose drives database/sql, so migrations run on a separate short-lived
	// connection rather than the pgx pool.
	if err := runMigrations(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations applied")

	// --- Geocoding --------------------------------------------------------
	var geo service.Geocoder
	if cfg.GeocoderURL != "" {
		var cache *geocode.Cache
		if cfg.RedisURL != "" {
			opts, err := redis.ParseURL(cfg.RedisURL)
			if err != nil {
				slog.Error("invalid REDIS_URL", "error", err)
				os.Exit(1)
			}
			rdb := redis.NewClient(opts)
			defer rdb.Close()
			cache = geocode.NewCache(rdb, geocodeCacheTTL)
		}
		geo = geocode.NewClient(cfg.GeocoderURL, cfg.GeocoderAPIKey, cache)
		slog.Info("geocoder configured", "cached", cfg.RedisURL != "")
	}

	// --- Receipt storage --------------------------------------------------
	var receiptStore service.ReceiptStore
	if cfg.StorageURL != "" {
		receiptStore = receipts.NewStore(cfg.StorageURL, cfg.StorageSecret)
		slog.Info("receipt storage configured")
	}

	// --- Repositories and services ----------------------------------------
	trips := repo.NewTripRepo(pool)
	stops := repo.NewStopRepo(pool)
	counter := repo.NewCounterRepo(pool)
	locations := repo.NewLocationRepo(pool)
	vendors := repo.NewVendorRepo(pool)
	expenseTypes := repo.NewExpenseTypeRepo(pool)
	expenses := repo.NewExpenseRepo(pool)
	settings := repo.NewSettingsRepo(pool)

	tripService := service.NewTripService(trips, stops, counter)
	stopService := service.NewStopService(trips, stops, locations)
	locationService := service.NewLocationService(locations, geo, cfg.GeocodeDebounce, logger)
	defer locationService.Close()
	expenseService := service.NewExpenseService(expenses, vendors, expenseTypes, trips, settings, receiptStore)
	settingsService := service.NewSettingsService(settings)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer.
	// The tenant middleware is mounted inside Routes so the health check
	// stays open.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxRequestBody))

	handler.NewServer(tripService, stopService, locationService, expenseService, settingsService).Routes(r)

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// runMigrations applies any pending embedded migrations.
func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}
