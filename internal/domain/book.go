package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultBookCategory is applied when a book is saved without a category.
const DefaultBookCategory = "Trading Education"

// Book represents an affiliate book listing.
type Book struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Subtitle    *string   `json:"subtitle,omitempty"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	CoverImage  string    `json:"coverImage"`
	AmazonLink  string    `json:"amazonLink"`
	Price       string    `json:"price"`
	Pages       int       `json:"pages"`
	PublishDate string    `json:"publishDate"`
	Rating      *float64  `json:"rating,omitempty"`
	Reviews     *int      `json:"reviews,omitempty"`
	Category    string    `json:"category"`
	ASIN        *string   `json:"asin,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
