package model

import "time"

// Book represents a catalog entry. Prices are stored in cents.
type Book struct {
	ID          int64
	Title       string
	Description string
	PriceCents  int64
	CoverImage  string
	AuthorID    int64
	Author      *Author // Populated only by single-book lookups.
	Genres      []Genre
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BookUpdate carries the optional fields of a partial book update. A non-nil
// GenreIDs replaces the whole genre set.
type BookUpdate struct {
	Title       *string
	Description *string
	PriceCents  *int64
	CoverImage  *string
	AuthorID    *int64
	GenreIDs    []int64
}
