// Package rentals contains the HTTP handlers that rent and price cars.
//
// Handlers are factories: they receive their dependencies once at route
// registration and return the http.HandlerFunc the router calls on every
// request.
//
//	router.HandleFunc("POST /api/rentals", rentals.New(store, svc))
package rentals

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/car-rental/internal/storage"
	"github.com/aanand-mishra/car-rental/internal/types"
	"github.com/aanand-mishra/car-rental/internal/utils/response"
)

// Renter is the part of rental.Service the handlers use.
type Renter interface {
	Rent(ctx context.Context, customer types.Customer, category types.CarCategory, numberOfDays int) (types.Transaction, error)
	CalculateFinalPrice(customer types.Customer, category types.CarCategory, numberOfDays int) (string, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/rentals
//
// Request body (JSON):
//
//	{ "customerId": "c7f3…", "carCategoryId": "a1b2…", "numberOfDays": 5 }
//
// Success response (201 Created): the receipt
//
//	{ "customer": {…}, "car": {…}, "dueDate": "10 de novembro de 2020", "amount": "R$ 206,80" }
//
// Error responses:
//
//	400 Bad Request         : empty body, malformed JSON, failed validation
//	404 Not Found           : unknown customer, category or car
//	422 Unprocessable Entity: no tax rule covers the customer's age
//
// ─────────────────────────────────────────────────────────────────────────────
func New(store storage.Storage, renter Renter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decode(w, r)
		if !ok {
			return
		}

		slog.Info("renting a car",
			slog.String("customer", req.CustomerID),
			slog.String("category", req.CarCategoryID),
			slog.Int("days", req.NumberOfDays))

		customer, category, err := resolve(r.Context(), store, req)
		if err != nil {
			response.Error(w, err)
			return
		}

		receipt, err := renter.Rent(r.Context(), customer, category, req.NumberOfDays)
		if err != nil {
			slog.Error("error renting car",
				slog.String("customer", req.CustomerID),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("car rented", slog.String("car", receipt.Car.ID), slog.String("amount", receipt.Amount))
		response.WriteJSON(w, http.StatusCreated, receipt)
	}
}

// Quote handles POST /api/quotes with the same body as New. It prices the
// rental without choosing a car.
func Quote(store storage.Storage, renter Renter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decode(w, r)
		if !ok {
			return
		}

		customer, category, err := resolve(r.Context(), store, req)
		if err != nil {
			response.Error(w, err)
			return
		}

		amount, err := renter.CalculateFinalPrice(customer, category, req.NumberOfDays)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, types.Quote{
			CustomerID:    customer.ID,
			CarCategoryID: category.ID,
			NumberOfDays:  req.NumberOfDays,
			Amount:        amount,
		})
	}
}

// decode reads and validates the request body. On failure it has already
// written the 400 response.
func decode(w http.ResponseWriter, r *http.Request) (types.RentalRequest, bool) {
	var req types.RentalRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return req, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return req, false
	}

	if err := types.Validate(req); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(validateErrs))
		} else {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		}
		return req, false
	}

	return req, true
}

func resolve(ctx context.Context, store storage.Storage, req types.RentalRequest) (types.Customer, types.CarCategory, error) {
	customer, err := store.Customers().Find(ctx, req.CustomerID)
	if err != nil {
		return types.Customer{}, types.CarCategory{}, err
	}

	category, err := store.Categories().Find(ctx, req.CarCategoryID)
	if err != nil {
		return types.Customer{}, types.CarCategory{}, err
	}

	return customer, category, nil
}
