// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// It serves the same read-only lookups as the JSON files; the seed
// generator fills it through Import.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/car-rental/internal/storage"
	"github.com/aanand-mishra/car-rental/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// schema is idempotent, safe to run on every startup.
//
// car_category_cars keeps the membership order of CarCategory.CarIDs in
// the position column.
const schema = `
	CREATE TABLE IF NOT EXISTS cars (
		id            TEXT    PRIMARY KEY,
		name          TEXT    NOT NULL,
		available     INTEGER NOT NULL,
		gas_available INTEGER NOT NULL,
		release_year  INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS customers (
		id   TEXT    PRIMARY KEY,
		name TEXT    NOT NULL,
		age  INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS car_categories (
		id    TEXT PRIMARY KEY,
		name  TEXT NOT NULL,
		price TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS car_category_cars (
		category_id TEXT    NOT NULL,
		car_id      TEXT    NOT NULL,
		position    INTEGER NOT NULL,
		PRIMARY KEY (category_id, position)
	);
`

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at path, creates the tables if they do
// not already exist, and returns a ready-to-use *SQLite.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create tables: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

func (s *SQLite) Cars() storage.Lister[types.Car] { return carTable{db: s.Db} }
func (s *SQLite) Customers() storage.Lister[types.Customer] { return customerTable{db: s.Db} }
func (s *SQLite) Categories() storage.Lister[types.CarCategory] { return categoryTable{db: s.Db} }

// ─────────────────────────────────────────────────────────────────────────────
// Import replaces-or-inserts every record of a dataset inside a single
// transaction. Either the whole dataset lands or nothing does.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Import(ctx context.Context, cars []types.Car, categories []types.CarCategory, customers []types.Customer) error {
	if err := validateDataset(cars, categories, customers); err != nil {
		return fmt.Errorf("Import: %w", err)
	}

	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Import: begin: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer tx.Rollback()

	for _, c := range cars {
		_, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO cars (id, name, available, gas_available, release_year) VALUES (?, ?, ?, ?, ?)",
			c.ID, c.Name, c.Available, c.GasAvailable, c.ReleaseYear,
		)
		if err != nil {
			return fmt.Errorf("Import: car %s: %w", c.ID, err)
		}
	}

	for _, c := range customers {
		_, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO customers (id, name, age) VALUES (?, ?, ?)",
			c.ID, c.Name, c.Age,
		)
		if err != nil {
			return fmt.Errorf("Import: customer %s: %w", c.ID, err)
		}
	}

	for _, c := range categories {
		_, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO car_categories (id, name, price) VALUES (?, ?, ?)",
			c.ID, c.Name, c.Price.String(),
		)
		if err != nil {
			return fmt.Errorf("Import: category %s: %w", c.ID, err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM car_category_cars WHERE category_id = ?", c.ID); err != nil {
			return fmt.Errorf("Import: category %s members: %w", c.ID, err)
		}
		for pos, carID := range c.CarIDs {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO car_category_cars (category_id, car_id, position) VALUES (?, ?, ?)",
				c.ID, carID, pos,
			)
			if err != nil {
				return fmt.Errorf("Import: category %s member %s: %w", c.ID, carID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Import: commit: %w", err)
	}

	return nil
}

type carTable struct{ db *sql.DB }

func (t carTable) Find(ctx context.Context, id string) (types.Car, error) {
	var car types.Car

	// QueryRow surfaces "no match" only when Scan is called.
	err := t.db.QueryRowContext(ctx,
		"SELECT id, name, available, gas_available, release_year FROM cars WHERE id = ? LIMIT 1", id,
	).Scan(&car.ID, &car.Name, &car.Available, &car.GasAvailable, &car.ReleaseYear)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Car{}, storage.NotFoundError{Entity: "car", ID: id}
		}
		return types.Car{}, fmt.Errorf("FindCar: scan: %w", err)
	}

	return car, nil
}

func (t carTable) List(ctx context.Context) ([]types.Car, error) {
	rows, err := t.db.QueryContext(ctx,
		"SELECT id, name, available, gas_available, release_year FROM cars ORDER BY rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("ListCars: query: %w", err)
	}
	defer rows.Close()

	cars := make([]types.Car, 0)
	for rows.Next() {
		var car types.Car
		if err := rows.Scan(&car.ID, &car.Name, &car.Available, &car.GasAvailable, &car.ReleaseYear); err != nil {
			return nil, fmt.Errorf("ListCars: scan row: %w", err)
		}
		cars = append(cars, car)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListCars: rows iteration: %w", err)
	}

	return cars, nil
}

type customerTable struct{ db *sql.DB }

func (t customerTable) Find(ctx context.Context, id string) (types.Customer, error) {
	var customer types.Customer

	err := t.db.QueryRowContext(ctx,
		"SELECT id, name, age FROM customers WHERE id = ? LIMIT 1", id,
	).Scan(&customer.ID, &customer.Name, &customer.Age)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Customer{}, storage.NotFoundError{Entity: "customer", ID: id}
		}
		return types.Customer{}, fmt.Errorf("FindCustomer: scan: %w", err)
	}

	return customer, nil
}

func (t customerTable) List(ctx context.Context) ([]types.Customer, error) {
	rows, err := t.db.QueryContext(ctx, "SELECT id, name, age FROM customers ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("ListCustomers: query: %w", err)
	}
	defer rows.Close()

	customers := make([]types.Customer, 0)
	for rows.Next() {
		var customer types.Customer
		if err := rows.Scan(&customer.ID, &customer.Name, &customer.Age); err != nil {
			return nil, fmt.Errorf("ListCustomers: scan row: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListCustomers: rows iteration: %w", err)
	}

	return customers, nil
}

type categoryTable struct{ db *sql.DB }

func (t categoryTable) Find(ctx context.Context, id string) (types.CarCategory, error) {
	var category types.CarCategory

	err := t.db.QueryRowContext(ctx,
		"SELECT id, name, price FROM car_categories WHERE id = ? LIMIT 1", id,
	).Scan(&category.ID, &category.Name, &category.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.CarCategory{}, storage.NotFoundError{Entity: "car category", ID: id}
		}
		return types.CarCategory{}, fmt.Errorf("FindCategory: scan: %w", err)
	}

	if category.CarIDs, err = t.members(ctx, id); err != nil {
		return types.CarCategory{}, err
	}

	return category, nil
}

func (t categoryTable) List(ctx context.Context) ([]types.CarCategory, error) {
	rows, err := t.db.QueryContext(ctx, "SELECT id, name, price FROM car_categories ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("ListCategories: query: %w", err)
	}

	categories := make([]types.CarCategory, 0)
	for rows.Next() {
		var category types.CarCategory
		if err := rows.Scan(&category.ID, &category.Name, &category.Price); err != nil {
			rows.Close()
			return nil, fmt.Errorf("ListCategories: scan row: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("ListCategories: rows iteration: %w", err)
	}
	// members runs its own query; release this cursor first.
	rows.Close()

	for i := range categories {
		if categories[i].CarIDs, err = t.members(ctx, categories[i].ID); err != nil {
			return nil, err
		}
	}

	return categories, nil
}

func (t categoryTable) members(ctx context.Context, categoryID string) ([]string, error) {
	rows, err := t.db.QueryContext(ctx,
		"SELECT car_id FROM car_category_cars WHERE category_id = ? ORDER BY position", categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("categoryMembers: query: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("categoryMembers: scan row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("categoryMembers: rows iteration: %w", err)
	}

	return ids, nil
}

var _ storage.Storage = (*SQLite)(nil)

// validateDataset reports the first record that fails its validate tags.
func validateDataset(cars []types.Car, categories []types.CarCategory, customers []types.Customer) error {
	for _, c := range cars {
		if err := types.Validate(c); err != nil {
			return fmt.Errorf("car %q: %w", c.ID, err)
		}
	}
	for _, c := range categories {
		if err := types.Validate(c); err != nil {
			return fmt.Errorf("car category %q: %w", c.ID, err)
		}
	}
	for _, c := range customers {
		if err := types.Validate(c); err != nil {
			return fmt.Errorf("customer %q: %w", c.ID, err)
		}
	}
	return nil
}
