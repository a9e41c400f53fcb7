package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/propcodes/platform/internal/domain"
)

const bookColumns = `id, title, subtitle, author, description, cover_image, amazon_link, price,
	pages, publish_date, rating, reviews, category, asin, created_at`

type bookRepo struct{}

// NewBookRepository returns a pgx-backed BookRepository.
func NewBookRepository() BookRepository {
	return &bookRepo{}
}

func scanBook(row pgx.Row) (*domain.Book, error) {
	b := &domain.Book{}
	err := row.Scan(&b.ID, &b.Title, &b.Subtitle, &b.Author, &b.Description, &b.CoverImage,
		&b.AmazonLink, &b.Price, &b.Pages, &b.PublishDate, &b.Rating, &b.Reviews,
		&b.Category, &b.ASIN, &b.CreatedAt)
	return b, err
}

func (r *bookRepo) List(ctx context.Context, db DBTX) ([]domain.Book, error) {
	rows, err := db.Query(ctx, `SELECT `+bookColumns+` FROM books ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := []domain.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

func (r *bookRepo) Insert(ctx context.Context, db DBTX, b *domain.Book) (*domain.Book, error) {
	row := db.QueryRow(ctx, `
		INSERT INTO books
		  (id, title, subtitle, author, description, cover_image, amazon_link, price,
		   pages, publish_date, rating, reviews, category, asin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+bookColumns,
		uuid.New(), b.Title, b.Subtitle, b.Author, b.Description, b.CoverImage, b.AmazonLink,
		b.Price, b.Pages, b.PublishDate, b.Rating, b.Reviews, b.Category, b.ASIN,
	)
	stored, err := scanBook(row)
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}
	return stored, nil
}

func (r *bookRepo) Delete(ctx context.Context, db DBTX, id uuid.UUID) (bool, error) {
	tag, err := db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete book: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
