package rental

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/car-rental/internal/locale"
	"github.com/aanand-mishra/car-rental/internal/storage"
	"github.com/aanand-mishra/car-rental/internal/tax"
	"github.com/aanand-mishra/car-rental/internal/types"
)

// --- fakes ---

type carFinderMock struct {
	mock.Mock
}

func (m *carFinderMock) Find(ctx context.Context, id string) (types.Car, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(types.Car), args.Error(1)
}

// fixedIndex returns its value unclamped and counts calls.
type fixedIndex struct {
	value int
	calls int
}

func (f *fixedIndex) Intn(int) int {
	f.calls++
	return f.value
}

// --- fixtures ---

var (
	validCar = types.Car{
		ID:           "0f4b2b5c-7a1f-4c0e-9d6a-2c1d3e4f5a6b",
		Name:         "Civic",
		Available:    true,
		GasAvailable: true,
		ReleaseYear:  2020,
	}
	validCustomer = types.Customer{
		ID:   "c7f3a1d2-55e4-4b8a-9e21-0d9c8b7a6f5e",
		Name: "Maria Souza",
		Age:  20,
	}
)

func validCategory() types.CarCategory {
	return types.CarCategory{
		ID:     "a1b2c3d4-e5f6-4a5b-8c7d-9e0f1a2b3c4d",
		Name:   "Sedan",
		CarIDs: []string{validCar.ID, "second-car", "third-car"},
		Price:  decimal.RequireFromString("37.6"),
	}
}

func newService(cars storage.Finder[types.Car], opts ...Option) *Service {
	return NewService(cars, tax.DefaultTable(), locale.BrazilianPortuguese(), opts...)
}

// --- tests ---

func TestRandomPositionStaysInBounds(t *testing.T) {
	svc := newService(nil, WithIndexSource(NewUniformSource(42)))

	for _, length := range []int{1, 2, 5, 17} {
		seen := make(map[int]bool)
		for i := 0; i < 2000; i++ {
			pos := svc.RandomPosition(length)
			require.GreaterOrEqual(t, pos, 0)
			require.Less(t, pos, length)
			seen[pos] = true
		}
		assert.Len(t, seen, length, "every position should eventually be drawn for length %d", length)
	}
}

func TestChooseRandomCarUsesIndexSource(t *testing.T) {
	category := validCategory()

	for idx := range category.CarIDs {
		src := &fixedIndex{value: idx}
		svc := newService(nil, WithIndexSource(src))

		got, err := svc.ChooseRandomCar(category)
		require.NoError(t, err)
		assert.Equal(t, category.CarIDs[idx], got)
		assert.Equal(t, 1, src.calls)
	}
}

func TestChooseRandomCarRejectsOutOfRangeIndex(t *testing.T) {
	category := validCategory()

	testCases := []struct {
		name  string
		index int
	}{
		{"one past the end", len(category.CarIDs)},
		{"far past the end", 100},
		{"negative", -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newService(nil, WithIndexSource(&fixedIndex{value: tc.index}))

			id, err := svc.ChooseRandomCar(category)
			require.Error(t, err)
			assert.Empty(t, id)
			// A broken index source is an internal fault, not bad caller input.
			assert.NotErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestChooseRandomCarEmptyCategory(t *testing.T) {
	category := validCategory()
	category.CarIDs = nil

	_, err := newService(nil).ChooseRandomCar(category)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetAvailableCarResolvesChosenID(t *testing.T) {
	ctx := context.Background()
	category := validCategory()
	category.CarIDs = []string{validCar.ID}

	cars := &carFinderMock{}
	cars.On("Find", ctx, validCar.ID).Return(validCar, nil).Once()

	src := &fixedIndex{value: 0}
	svc := newService(cars, WithIndexSource(src))

	got, err := svc.GetAvailableCar(ctx, category)
	require.NoError(t, err)
	assert.Equal(t, validCar, got)
	assert.Equal(t, 1, src.calls)
	cars.AssertExpectations(t)
}

func TestGetAvailableCarPropagatesNotFound(t *testing.T) {
	ctx := context.Background()
	category := validCategory()

	cars := &carFinderMock{}
	cars.On("Find", ctx, "second-car").
		Return(types.Car{}, storage.NotFoundError{Entity: "car", ID: "second-car"})

	svc := newService(cars, WithIndexSource(&fixedIndex{value: 1}))

	_, err := svc.GetAvailableCar(ctx, category)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCalculateFinalPriceFiftyYearsOld(t *testing.T) {
	// age 50 → 1.3; 37.6 × 1.3 = 48.88 × 5 days = 244.40
	taxes := tax.Table{{From: 40, To: 50, Then: decimal.RequireFromString("1.3")}}
	svc := NewService(nil, taxes, locale.BrazilianPortuguese())

	customer := validCustomer
	customer.Age = 50

	amount, err := svc.FinalAmount(customer, validCategory(), 5)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("244.4").Equal(amount), "got %s", amount)

	formatted, err := svc.CalculateFinalPrice(customer, validCategory(), 5)
	require.NoError(t, err)
	assert.Equal(t, locale.BrazilianPortuguese().FormatCurrency(decimal.RequireFromString("244.4")), formatted)
	assert.Equal(t, "R$ 244,40", formatted)
}

func TestCalculateFinalPriceIsIdempotent(t *testing.T) {
	svc := newService(nil)

	first, err := svc.CalculateFinalPrice(validCustomer, validCategory(), 3)
	require.NoError(t, err)
	second, err := svc.CalculateFinalPrice(validCustomer, validCategory(), 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCalculateFinalPriceErrors(t *testing.T) {
	svc := newService(nil)

	testCases := []struct {
		name     string
		customer types.Customer
		category types.CarCategory
		days     int
		want     error
	}{
		{"zero days", validCustomer, validCategory(), 0, ErrInvalidInput},
		{"negative days", validCustomer, validCategory(), -2, ErrInvalidInput},
		{"negative price", validCustomer, types.CarCategory{ID: "x", Price: decimal.NewFromInt(-1)}, 1, ErrInvalidInput},
		{"uncovered age", types.Customer{ID: "kid", Age: 12}, validCategory(), 1, tax.ErrRuleNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CalculateFinalPrice(tc.customer, tc.category, tc.days)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRentReturnsReceipt(t *testing.T) {
	ctx := context.Background()
	category := validCategory()
	category.CarIDs = []string{validCar.ID}

	cars := &carFinderMock{}
	cars.On("Find", ctx, validCar.ID).Return(validCar, nil)

	start := time.Date(2020, time.November, 5, 0, 0, 0, 0, time.Local)
	svc := newService(cars,
		WithIndexSource(&fixedIndex{value: 0}),
		WithClock(func() time.Time { return start }),
	)

	// age 20 → 1.1; 37.6 × 1.1 = 41.36 × 5 days = 206.80
	receipt, err := svc.Rent(ctx, validCustomer, category, 5)
	require.NoError(t, err)

	assert.Equal(t, types.Transaction{
		Customer: validCustomer,
		Car:      validCar,
		DueDate:  "10 de novembro de 2020",
		Amount:   "R$ 206,80",
	}, receipt)
	cars.AssertExpectations(t)
}

func TestRentLogsToInjectedLogger(t *testing.T) {
	ctx := context.Background()
	cars := &carFinderMock{}
	cars.On("Find", ctx, validCar.ID).Return(validCar, nil)

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	svc := newService(cars, WithIndexSource(&fixedIndex{value: 0}), WithLogger(log))
	_, err := svc.Rent(ctx, validCustomer, validCategory(), 2)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "car rented")
	assert.Contains(t, buf.String(), "car="+validCar.ID)
}

func TestRentFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid input never touches the repository", func(t *testing.T) {
		negative := validCategory()
		negative.Price = decimal.NewFromInt(-1)
		empty := validCategory()
		empty.CarIDs = nil

		for _, tc := range []struct {
			category types.CarCategory
			days     int
		}{
			{validCategory(), 0},
			{validCategory(), -3},
			{negative, 2},
			{empty, 2},
		} {
			cars := &carFinderMock{}
			receipt, err := newService(cars).Rent(ctx, validCustomer, tc.category, tc.days)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, types.Transaction{}, receipt)
			cars.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
		}
	})

	t.Run("missing car", func(t *testing.T) {
		cars := &carFinderMock{}
		cars.On("Find", ctx, validCar.ID).
			Return(types.Car{}, storage.NotFoundError{Entity: "car", ID: validCar.ID})

		receipt, err := newService(cars, WithIndexSource(&fixedIndex{value: 0})).
			Rent(ctx, validCustomer, validCategory(), 2)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.Equal(t, types.Transaction{}, receipt)
	})

	t.Run("no tax rule", func(t *testing.T) {
		cars := &carFinderMock{}
		cars.On("Find", ctx, validCar.ID).Return(validCar, nil)

		customer := validCustomer
		customer.Age = 101

		receipt, err := newService(cars, WithIndexSource(&fixedIndex{value: 0})).
			Rent(ctx, customer, validCategory(), 2)
		require.Error(t, err)
		assert.True(t, errors.Is(err, tax.ErrRuleNotFound))
		assert.Equal(t, types.Transaction{}, receipt)
	})
}
