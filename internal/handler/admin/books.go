package admin

import (
	"context"
	"net/http"

	"github.com/propcodes/platform/internal/domain"
	"github.com/propcodes/platform/internal/handler"
)

// BookService is the subset of service.BookService used by BookAdminHandler.
type BookService interface {
	List(ctx context.Context) ([]domain.Book, error)
	Create(ctx context.Context, b domain.Book) (*domain.Book, error)
	Delete(ctx context.Context, rawID string) error
}

// BookAdminHandler handles book catalogue management.
type BookAdminHandler struct {
	books BookService
}

// NewBookAdminHandler creates a new BookAdminHandler.
func NewBookAdminHandler(books BookService) *BookAdminHandler {
	return &BookAdminHandler{books: books}
}

// List handles GET /admin/books.
func (h *BookAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.List(r.Context())
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, books)
}

// Create handles POST /admin/books.
func (h *BookAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var b domain.Book
	if err := handler.DecodeJSON(r, &b); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	book, err := h.books.Create(r.Context(), b)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, book)
}

// Delete handles DELETE /admin/books?id=.
func (h *BookAdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.books.Delete(r.Context(), r.URL.Query().Get("id")); err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
