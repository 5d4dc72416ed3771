// Package types holds the records shared across the application.
// Keeping them in one place prevents import cycles: storage, the rental
// service and the HTTP handlers all import types without depending on
// each other.
//
// JSON field names match the seed files on disk (carIds, gasAvailable,
// releaseYear) so fixtures produced by the seed generator load unchanged.
package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Customer is the person renting a car. Immutable once created.
type Customer struct {
	ID   string `json:"id"   validate:"required"`
	Name string `json:"name" validate:"required"`
	Age  int    `json:"age"  validate:"gte=0"`
}

// Car is a single vehicle. The rental service selects cars but never
// mutates them.
type Car struct {
	ID           string `json:"id"   validate:"required"`
	Name         string `json:"name" validate:"required"`
	Available    bool   `json:"available"`
	GasAvailable bool   `json:"gasAvailable"`
	ReleaseYear  int    `json:"releaseYear" validate:"gte=0"`
}

// CarCategory is a pricing tier: a set of cars sharing one daily price.
//
// Every id in CarIDs must resolve to an existing Car for a rental in this
// category to succeed.
type CarCategory struct {
	ID     string          `json:"id"     validate:"required"`
	Name   string          `json:"name"   validate:"required"`
	CarIDs []string        `json:"carIds" validate:"required,min=1,dive,required"`
	Price  decimal.Decimal `json:"price"  validate:"gte=0"`
}

// MarshalJSON writes Price as a JSON number, the form seed files and
// hand-written fixtures use. Decoding accepts both numbers and strings.
func (c CarCategory) MarshalJSON() ([]byte, error) {
	type plain CarCategory
	return json.Marshal(struct {
		plain
		Price json.Number `json:"price"`
	}{plain(c), json.Number(c.Price.String())})
}

// Transaction is the receipt of a successful rental. It references the
// customer and car, it does not own them, and it is never persisted.
type Transaction struct {
	Customer Customer `json:"customer"`
	Car      Car      `json:"car"`
	DueDate  string   `json:"dueDate"`
	Amount   string   `json:"amount"`
}

// RecordID satisfies storage.Record.
func (c Customer) RecordID() string { return c.ID }

// RecordID satisfies storage.Record.
func (c Car) RecordID() string { return c.ID }

// RecordID satisfies storage.Record.
func (c CarCategory) RecordID() string { return c.ID }

// RentalRequest is the body of POST /api/rentals and POST /api/quotes.
type RentalRequest struct {
	CustomerID    string `json:"customerId"    validate:"required"`
	CarCategoryID string `json:"carCategoryId" validate:"required"`
	NumberOfDays  int    `json:"numberOfDays"  validate:"gt=0"`
}

// Quote is a priced rental that has not picked a car.
type Quote struct {
	CustomerID    string `json:"customerId"`
	CarCategoryID string `json:"carCategoryId"`
	NumberOfDays  int    `json:"numberOfDays"`
	Amount        string `json:"amount"`
}
