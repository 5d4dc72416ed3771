// Package catalog serves read-only lookups of cars, customers and car
// categories.
package catalog

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/car-rental/internal/storage"
	"github.com/aanand-mishra/car-rental/internal/utils/response"
)

// GetByID handles GET /api/<entity>/{id} for any record type.
//
//	router.HandleFunc("GET /api/cars/{id}", catalog.GetByID(store.Cars(), "car"))
//
// Success response (200 OK): the record. Unknown ids answer 404.
func GetByID[T storage.Record](finder storage.Finder[T], entity string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("getting a "+entity, slog.String("id", id))

		record, err := finder.Find(r.Context(), id)
		if err != nil {
			slog.Error("error getting "+entity,
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, record)
	}
}

// List handles GET /api/<entity> and returns every record.
func List[T storage.Record](lister storage.Lister[T], entity string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("listing " + entity)

		records, err := lister.List(r.Context())
		if err != nil {
			slog.Error("error listing "+entity, slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}
		if records == nil {
			records = []T{}
		}

		response.WriteJSON(w, http.StatusOK, records)
	}
}
