// Package seed generates synthetic fixture data: one car category, its
// cars and a handful of customers.
package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aanand-mishra/car-rental/internal/storage/jsonfile"
	"github.com/aanand-mishra/car-rental/internal/types"
)

// File names written by WriteJSON, matching the paths in config/local.yaml.
const (
	CarsFile       = "cars.json"
	CategoriesFile = "carCategory.json"
	CustomersFile  = "customer.json"
)

// DefaultCount is the number of cars and customers generated when the
// caller does not ask for a specific amount.
const DefaultCount = 3

// Bounds of the generated values.
const (
	MinPrice = 20
	MaxPrice = 100
	MinAge   = 18
	MaxAge   = 50
)

// Faker is the subset of *gofakeit.Faker the generator draws from.
type Faker interface {
	CarModel() string
	CarType() string
	Name() string
	Number(min, max int) int
	Price(min, max float64) float64
}

// Dataset is one generated fixture set.
type Dataset struct {
	Cars       []types.Car
	Categories []types.CarCategory
	Customers  []types.Customer
}

// Generate builds count cars and count customers plus a single category
// listing every generated car. now anchors the release years in the past.
func Generate(f Faker, count int, now time.Time) Dataset {
	if count <= 0 {
		count = DefaultCount
	}

	category := types.CarCategory{
		ID:     uuid.NewString(),
		Name:   f.CarType(),
		CarIDs: make([]string, 0, count),
		Price:  decimal.NewFromFloat(f.Price(MinPrice, MaxPrice)).Round(2),
	}

	ds := Dataset{
		Cars:      make([]types.Car, 0, count),
		Customers: make([]types.Customer, 0, count),
	}

	for i := 0; i < count; i++ {
		car := types.Car{
			ID:           uuid.NewString(),
			Name:         f.CarModel(),
			Available:    true,
			GasAvailable: true,
			ReleaseYear:  f.Number(now.Year()-10, now.Year()-1),
		}
		customer := types.Customer{
			ID:   uuid.NewString(),
			Name: f.Name(),
			Age:  f.Number(MinAge, MaxAge),
		}

		category.CarIDs = append(category.CarIDs, car.ID)
		ds.Cars = append(ds.Cars, car)
		ds.Customers = append(ds.Customers, customer)
	}

	ds.Categories = []types.CarCategory{category}
	return ds
}

// WriteJSON writes the dataset into dir, creating it when needed.
func (ds Dataset) WriteJSON(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("seed.WriteJSON: mkdir %s: %w", dir, err)
	}

	if err := jsonfile.WriteAll(filepath.Join(dir, CarsFile), ds.Cars); err != nil {
		return err
	}
	if err := jsonfile.WriteAll(filepath.Join(dir, CategoriesFile), ds.Categories); err != nil {
		return err
	}
	return jsonfile.WriteAll(filepath.Join(dir, CustomersFile), ds.Customers)
}
