package service

import (
	"context"
	"log/slog"

	"github.com/propcodes/platform/internal/domain"
	"github.com/propcodes/platform/internal/repository"
)

// BookService manages the affiliate book listings.
type BookService struct {
	db     repository.DBTX
	books  repository.BookRepository
	logger *slog.Logger
}

// NewBookService creates a new BookService.
func NewBookService(db repository.DBTX, books repository.BookRepository, logger *slog.Logger) *BookService {
	return &BookService{db: db, books: books, logger: logger}
}

// List returns all books, newest first.
func (s *BookService) List(ctx context.Context) ([]domain.Book, error) {
	books, err := s.books.List(ctx, s.db)
	if err != nil {
		return nil, domain.ErrInternal("list books", err)
	}
	return books, nil
}

// Create validates and stores a book. A repeated ASIN is a conflict.
func (s *BookService) Create(ctx context.Context, b domain.Book) (*domain.Book, error) {
	if err := domain.NormalizeBook(&b); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	stored, err := s.books.Insert(ctx, s.db, &b)
	if err != nil {
		if repository.IsUniqueViolation(err, repository.ConstraintBookASIN) {
			return nil, domain.ErrConflict("A book with this ASIN already exists")
		}
		return nil, domain.ErrInternal("create book", err)
	}
	s.logger.Info("book created", "book_id", stored.ID)
	return stored, nil
}

// Delete removes a book by id.
func (s *BookService) Delete(ctx context.Context, rawID string) error {
	id, err := parseID("book", rawID)
	if err != nil {
		return err
	}
	ok, err := s.books.Delete(ctx, s.db, id)
	if err != nil {
		return domain.ErrInternal("delete book", err)
	}
	if !ok {
		return domain.ErrNotFound("book", rawID)
	}
	return nil
}
