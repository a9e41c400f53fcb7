package handler

import (
	"context"
	"net/http"

	"github.com/propcodes/platform/internal/domain"
)

// BookLister lists the book catalogue.
type BookLister interface {
	List(ctx context.Context) ([]domain.Book, error)
}

// ListBooks handles GET /books.
func ListBooks(books BookLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := books.List(r.Context())
		if err != nil {
			RespondError(w, err)
			return
		}
		RespondJSON(w, http.StatusOK, list)
	}
}
