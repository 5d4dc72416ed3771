// Package jsonfile implements the storage contracts on top of flat JSON
// array files, one file per entity type.
//
// The backing file is read on first access and the parsed list is kept
// for the life of the Repository: the dataset is static for a run, so
// there is no invalidation.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/aanand-mishra/car-rental/internal/storage"
	"github.com/aanand-mishra/car-rental/internal/types"
)

// Repository is a read-only accessor over one JSON array file.
type Repository[T storage.Record] struct {
	path   string
	entity string

	once    sync.Once
	records []T
	loadErr error
}

// NewRepository returns an accessor for the file at path. entity names the
// record type in NotFound errors ("car", "customer", ...).
// Nothing is read until the first Find or List.
func NewRepository[T storage.Record](path, entity string) *Repository[T] {
	return &Repository[T]{path: path, entity: entity}
}

// Find returns the first record whose identifier equals id.
func (r *Repository[T]) Find(ctx context.Context, id string) (T, error) {
	var zero T

	records, err := r.List(ctx)
	if err != nil {
		return zero, err
	}

	for _, rec := range records {
		if rec.RecordID() == id {
			return rec, nil
		}
	}

	return zero, storage.NotFoundError{Entity: r.entity, ID: id}
}

// List returns every record in file order.
func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.once.Do(func() {
		r.records, r.loadErr = readAll[T](r.path)
	})
	if r.loadErr != nil {
		return nil, r.loadErr
	}

	return r.records, nil
}

func readAll[T any](path string) ([]T, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jsonfile.readAll: read %s: %w", path, err)
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("jsonfile.readAll: decode %s: %w", path, err)
	}

	for i, rec := range records {
		if err := types.Validate(rec); err != nil {
			return nil, fmt.Errorf("jsonfile.readAll: record %d of %s: %w", i, path, err)
		}
	}

	return records, nil
}

// WriteAll stores records at path as a single-line JSON array, replacing
// any existing file.
func WriteAll[T any](path string, records []T) error {
	if records == nil {
		records = []T{}
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("jsonfile.WriteAll: encode: %w", err)
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("jsonfile.WriteAll: write %s: %w", path, err)
	}

	return nil
}

// Paths locates the three entity files.
type Paths struct {
	Cars       string
	Categories string
	Customers  string
}

// Store is the JSON-file implementation of storage.Storage.
type Store struct {
	cars       *Repository[types.Car]
	customers  *Repository[types.Customer]
	categories *Repository[types.CarCategory]
}

// Open wires one Repository per entity file.
func Open(paths Paths) *Store {
	return &Store{
		cars:       NewRepository[types.Car](paths.Cars, "car"),
		customers:  NewRepository[types.Customer](paths.Customers, "customer"),
		categories: NewRepository[types.CarCategory](paths.Categories, "car category"),
	}
}

func (s *Store) Cars() storage.Lister[types.Car] { return s.cars }
func (s *Store) Customers() storage.Lister[types.Customer] { return s.customers }
func (s *Store) Categories() storage.Lister[types.CarCategory] { return s.categories }

var _ storage.Storage = (*Store)(nil)
