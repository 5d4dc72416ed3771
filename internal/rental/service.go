// Package rental rents a car from a category to a customer and prices the
// rental with the age-tiered tax table.
package rental

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aanand-mishra/car-rental/internal/locale"
	"github.com/aanand-mishra/car-rental/internal/storage"
	"github.com/aanand-mishra/car-rental/internal/tax"
	"github.com/aanand-mishra/car-rental/internal/types"
)

// ErrInvalidInput reports a non-positive rental duration, an empty car
// category or a negative category price.
var ErrInvalidInput = errors.New("invalid rental input")

// Service orchestrates car selection, pricing and the due date.
// It holds no mutable state; one Service may serve concurrent callers as
// long as its IndexSource does.
type Service struct {
	cars   storage.Finder[types.Car]
	taxes  tax.Table
	format locale.Formatter

	index IndexSource
	now   func() time.Time
	log   *slog.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithIndexSource replaces the random car picker.
func WithIndexSource(src IndexSource) Option {
	return func(s *Service) { s.index = src }
}

// WithClock replaces time.Now as the rental start date.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger routes the service's debug logs to log instead of slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// NewService builds the rental service.
func NewService(cars storage.Finder[types.Car], taxes tax.Table, format locale.Formatter, opts ...Option) *Service {
	s := &Service{
		cars:   cars,
		taxes:  taxes,
		format: format,
		index:  NewTimeSeededSource(),
		now:    time.Now,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rent picks an available car from the category, prices the rental and
// returns the receipt. No receipt is returned on any error.
func (s *Service) Rent(ctx context.Context, customer types.Customer, category types.CarCategory, numberOfDays int) (types.Transaction, error) {
	if err := checkInput(category, numberOfDays); err != nil {
		return types.Transaction{}, err
	}

	car, err := s.GetAvailableCar(ctx, category)
	if err != nil {
		return types.Transaction{}, err
	}

	amount, err := s.CalculateFinalPrice(customer, category, numberOfDays)
	if err != nil {
		return types.Transaction{}, err
	}

	due := s.now().AddDate(0, 0, numberOfDays)

	s.log.Debug("car rented",
		slog.String("customer", customer.ID),
		slog.String("category", category.ID),
		slog.String("car", car.ID),
		slog.Int("days", numberOfDays),
		slog.String("amount", amount),
	)

	return types.Transaction{
		Customer: customer,
		Car:      car,
		DueDate:  s.format.FormatLongDate(due),
		Amount:   amount,
	}, nil
}

// CalculateFinalPrice returns the formatted rental price:
// multiplier × daily price × days.
func (s *Service) CalculateFinalPrice(customer types.Customer, category types.CarCategory, numberOfDays int) (string, error) {
	amount, err := s.FinalAmount(customer, category, numberOfDays)
	if err != nil {
		return "", err
	}
	return s.format.FormatCurrency(amount), nil
}

// FinalAmount is CalculateFinalPrice before formatting.
func (s *Service) FinalAmount(customer types.Customer, category types.CarCategory, numberOfDays int) (decimal.Decimal, error) {
	if err := checkTerms(category, numberOfDays); err != nil {
		return decimal.Zero, err
	}

	rule, err := s.taxes.Lookup(customer.Age)
	if err != nil {
		return decimal.Zero, err
	}

	return rule.Then.Mul(category.Price).Mul(decimal.NewFromInt(int64(numberOfDays))), nil
}

// GetAvailableCar picks a random car id from the category and resolves it
// through the car repository.
func (s *Service) GetAvailableCar(ctx context.Context, category types.CarCategory) (types.Car, error) {
	carID, err := s.ChooseRandomCar(category)
	if err != nil {
		return types.Car{}, err
	}

	car, err := s.cars.Find(ctx, carID)
	if err != nil {
		return types.Car{}, err
	}
	return car, nil
}

// ChooseRandomCar returns the car id at the position drawn from the
// index source.
func (s *Service) ChooseRandomCar(category types.CarCategory) (string, error) {
	if len(category.CarIDs) == 0 {
		return "", fmt.Errorf("%w: car category %s has no cars", ErrInvalidInput, category.ID)
	}

	idx := s.RandomPosition(len(category.CarIDs))
	if idx < 0 || idx >= len(category.CarIDs) {
		return "", fmt.Errorf("rental: index source returned %d for %d cars", idx, len(category.CarIDs))
	}

	return category.CarIDs[idx], nil
}

// RandomPosition returns a uniform index in [0, length). length must be
// positive; zero is returned otherwise.
func (s *Service) RandomPosition(length int) int {
	if length <= 0 {
		return 0
	}
	return s.index.Intn(length)
}

// checkInput validates a rental before any repository read.
func checkInput(category types.CarCategory, numberOfDays int) error {
	if len(category.CarIDs) == 0 {
		return fmt.Errorf("%w: car category %s has no cars", ErrInvalidInput, category.ID)
	}
	return checkTerms(category, numberOfDays)
}

// checkTerms validates what pricing depends on: the duration and the daily
// price.
func checkTerms(category types.CarCategory, numberOfDays int) error {
	if numberOfDays <= 0 {
		return fmt.Errorf("%w: number of days must be positive, got %d", ErrInvalidInput, numberOfDays)
	}
	if category.Price.IsNegative() {
		return fmt.Errorf("%w: category %s has negative price %s", ErrInvalidInput, category.ID, category.Price)
	}
	return nil
}
