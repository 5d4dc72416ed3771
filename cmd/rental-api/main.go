// main is the entry point of the car rental API.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open the record storage (JSON files or SQLite)
//  4. Build the rental service
//  5. Register all HTTP routes and start the server in a goroutine
//  6. Block until an OS signal arrives, then shut down gracefully
//
// RUNNING THE SERVER:
//
//	go run ./cmd/rental-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/rental-api
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/car-rental/internal/config"
	"github.com/aanand-mishra/car-rental/internal/http/handlers/catalog"
	"github.com/aanand-mishra/car-rental/internal/http/handlers/rentals"
	"github.com/aanand-mishra/car-rental/internal/locale"
	"github.com/aanand-mishra/car-rental/internal/rental"
	"github.com/aanand-mishra/car-rental/internal/storage"
	"github.com/aanand-mishra/car-rental/internal/storage/jsonfile"
	"github.com/aanand-mishra/car-rental/internal/storage/sqlite"
	"github.com/aanand-mishra/car-rental/internal/types"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting rental-api",
		slog.String("env", cfg.Env),
		slog.String("locale", cfg.Locale),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// The rest of the program only sees the storage.Storage interface.
	store, closeStore, err := openStorage(cfg.Storage)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	log.Info("storage initialised", slog.String("driver", cfg.Storage.Driver))

	// ── 4. Rental Service ─────────────────────────────────────────────────
	svc := rental.NewService(store.Cars(), cfg.TaxTable(), locale.New(cfg.Locale),
		rental.WithLogger(log),
	)

	// ── 5. Routes + Server ────────────────────────────────────────────────
	//   POST /api/rentals            → rent a car, returns the receipt
	//   POST /api/quotes             → price a rental without picking a car
	//   GET  /api/cars[/{id}]        → list / get cars
	//   GET  /api/customers[/{id}]   → list / get customers
	//   GET  /api/categories[/{id}]  → list / get car categories
	router := http.NewServeMux()

	router.HandleFunc("POST /api/rentals", rentals.New(store, svc))
	router.HandleFunc("POST /api/quotes", rentals.Quote(store, svc))
	router.HandleFunc("GET /api/cars", catalog.List[types.Car](store.Cars(), "cars"))
	router.HandleFunc("GET /api/cars/{id}", catalog.GetByID[types.Car](store.Cars(), "car"))
	router.HandleFunc("GET /api/customers", catalog.List[types.Customer](store.Customers(), "customers"))
	router.HandleFunc("GET /api/customers/{id}", catalog.GetByID[types.Customer](store.Customers(), "customer"))
	router.HandleFunc("GET /api/categories", catalog.List[types.CarCategory](store.Categories(), "car categories"))
	router.HandleFunc("GET /api/categories/{id}", catalog.GetByID[types.CarCategory](store.Categories(), "car category"))

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ErrServerClosed is the expected result of Shutdown.
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 6. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
		return
	}

	log.Info("server stopped gracefully")
}

// openStorage returns the configured backend and a function releasing it.
func openStorage(cfg config.Storage) (storage.Storage, func(), error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	default:
		store := jsonfile.Open(jsonfile.Paths{
			Cars:       cfg.CarsPath,
			Categories: cfg.CategoriesPath,
			Customers:  cfg.CustomersPath,
		})
		return store, func() {}, nil
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
