package rentals

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/car-rental/internal/locale"
	"github.com/aanand-mishra/car-rental/internal/rental"
	"github.com/aanand-mishra/car-rental/internal/storage/jsonfile"
	"github.com/aanand-mishra/car-rental/internal/tax"
	"github.com/aanand-mishra/car-rental/internal/types"
	"github.com/aanand-mishra/car-rental/internal/utils/response"
)

type firstIndex struct{}

func (firstIndex) Intn(int) int { return 0 }

var (
	civic    = types.Car{ID: "car-1", Name: "Civic", Available: true, GasAvailable: true, ReleaseYear: 2020}
	maria    = types.Customer{ID: "maria", Name: "Maria Souza", Age: 20}
	teenager = types.Customer{ID: "teen", Name: "Pedro", Age: 16}
	sedan    = types.CarCategory{ID: "sedan", Name: "Sedan", CarIDs: []string{"car-1"}, Price: decimal.RequireFromString("37.6")}
	orphaned = types.CarCategory{ID: "orphaned", Name: "Ghost", CarIDs: []string{"missing-car"}, Price: decimal.NewFromInt(10)}
)

func newRouter(t *testing.T) *http.ServeMux {
	t.Helper()

	dir := t.TempDir()
	paths := jsonfile.Paths{
		Cars:       filepath.Join(dir, "cars.json"),
		Categories: filepath.Join(dir, "carCategory.json"),
		Customers:  filepath.Join(dir, "customer.json"),
	}
	require.NoError(t, jsonfile.WriteAll(paths.Cars, []types.Car{civic}))
	require.NoError(t, jsonfile.WriteAll(paths.Categories, []types.CarCategory{sedan, orphaned}))
	require.NoError(t, jsonfile.WriteAll(paths.Customers, []types.Customer{maria, teenager}))

	store := jsonfile.Open(paths)
	svc := rental.NewService(store.Cars(), tax.DefaultTable(), locale.BrazilianPortuguese(),
		rental.WithIndexSource(firstIndex{}),
		rental.WithClock(func() time.Time { return time.Date(2020, time.November, 5, 12, 0, 0, 0, time.Local) }),
	)

	router := http.NewServeMux()
	router.HandleFunc("POST /api/rentals", New(store, svc))
	router.HandleFunc("POST /api/quotes", Quote(store, svc))
	return router
}

func post(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRentCreatesReceipt(t *testing.T) {
	rec := post(newRouter(t), "/api/rentals", `{"customerId":"maria","carCategoryId":"sedan","numberOfDays":5}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var receipt types.Transaction
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&receipt))
	assert.Equal(t, types.Transaction{
		Customer: maria,
		Car:      civic,
		DueDate:  "10 de novembro de 2020",
		Amount:   "R$ 206,80",
	}, receipt)
}

func TestQuote(t *testing.T) {
	rec := post(newRouter(t), "/api/quotes", `{"customerId":"maria","carCategoryId":"sedan","numberOfDays":5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var quote types.Quote
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&quote))
	assert.Equal(t, "R$ 206,80", quote.Amount)
	assert.Equal(t, 5, quote.NumberOfDays)
}

func TestRentErrors(t *testing.T) {
	testCases := []struct {
		name   string
		body   string
		status int
	}{
		{"empty body", ``, http.StatusBadRequest},
		{"malformed json", `{"customerId":`, http.StatusBadRequest},
		{"zero days", `{"customerId":"maria","carCategoryId":"sedan","numberOfDays":0}`, http.StatusBadRequest},
		{"missing customer id", `{"carCategoryId":"sedan","numberOfDays":1}`, http.StatusBadRequest},
		{"unknown customer", `{"customerId":"nobody","carCategoryId":"sedan","numberOfDays":1}`, http.StatusNotFound},
		{"unknown category", `{"customerId":"maria","carCategoryId":"nope","numberOfDays":1}`, http.StatusNotFound},
		{"car missing from repository", `{"customerId":"maria","carCategoryId":"orphaned","numberOfDays":1}`, http.StatusNotFound},
		{"age without tax rule", `{"customerId":"teen","carCategoryId":"sedan","numberOfDays":1}`, http.StatusUnprocessableEntity},
	}

	router := newRouter(t)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(router, "/api/rentals", tc.body)
			assert.Equal(t, tc.status, rec.Code)

			var resp response.Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, response.StatusError, resp.Status)
			assert.NotEmpty(t, resp.Error)
		})
	}
}
