// Package storage defines the read-only lookup contract every backend
// must satisfy to serve the rental service.
//
// The service and the HTTP handlers depend only on these interfaces, so
// switching from the JSON files to SQLite is a one-line change in main.go
// and tests can pass a fake that satisfies Finder.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aanand-mishra/car-rental/internal/types"
)

// ErrNotFound is matched by every NotFoundError through errors.Is.
var ErrNotFound = errors.New("record not found")

// Record is anything addressable by a string identifier.
type Record interface {
	RecordID() string
}

// Finder resolves a single record by identifier.
// Implementations return a NotFoundError when nothing matches.
type Finder[T Record] interface {
	Find(ctx context.Context, id string) (T, error)
}

// Lister is a Finder that can also return its whole record list.
type Lister[T Record] interface {
	Finder[T]
	List(ctx context.Context) ([]T, error)
}

// Storage groups one accessor per entity type.
type Storage interface {
	Cars() Lister[types.Car]
	Customers() Lister[types.Customer]
	Categories() Lister[types.CarCategory]
}

// NotFoundError reports a missing identifier for a given entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// Is lets callers write errors.Is(err, storage.ErrNotFound).
func (e NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
