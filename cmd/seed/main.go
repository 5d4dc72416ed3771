// seed writes synthetic fixture files for the rental API.
//
//	go run ./cmd/seed --out database --count 3
//	go run ./cmd/seed --out database --sqlite database/rental.db
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/aanand-mishra/car-rental/internal/seed"
	"github.com/aanand-mishra/car-rental/internal/storage/sqlite"
)

func main() {
	out := flag.String("out", "database", "directory the JSON files are written to")
	count := flag.Int("count", seed.DefaultCount, "number of cars and customers to generate")
	sqlitePath := flag.String("sqlite", "", "also import the dataset into this SQLite file")
	fakerSeed := flag.Uint64("seed", 0, "faker seed; 0 picks a random one")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ds := seed.Generate(gofakeit.New(*fakerSeed), *count, time.Now())

	if err := ds.WriteJSON(*out); err != nil {
		log.Error("failed to write seed files", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("seed files written",
		slog.String("dir", *out),
		slog.Int("cars", len(ds.Cars)),
		slog.Int("customers", len(ds.Customers)),
	)

	if *sqlitePath == "" {
		return
	}

	db, err := sqlite.New(*sqlitePath)
	if err != nil {
		log.Error("failed to open sqlite", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Import(context.Background(), ds.Cars, ds.Categories, ds.Customers); err != nil {
		log.Error("failed to import seed", slog.String("error", err.Error()))
		db.Close()
		os.Exit(1)
	}
	log.Info("seed imported", slog.String("path", *sqlitePath))
}
