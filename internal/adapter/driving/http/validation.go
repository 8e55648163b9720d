package httphandler

import (
	"fmt"
	"unicode/utf8"

	"github.com/ericfisherdev/bookstore/internal/application"
)

// Catalog field limits.
const (
	minAuthorNameLength  = 5
	minGenreNameLength   = 3
	minTitleLength       = 3
	minDescriptionLength = 15
	minCoverImageLength  = 5
	minPriceCents        = 1000
	maxPriceCents        = 20000
)

func minLength(field, value string, n int) error {
	if utf8.RuneCountInString(value) < n {
		return &application.ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d characters", n)}
	}
	return nil
}

func validatePrice(cents int64) error {
	if cents < minPriceCents || cents > maxPriceCents {
		return &application.ValidationError{
			Field:   "price_cents",
			Message: fmt.Sprintf("must be between %d and %d", minPriceCents, maxPriceCents),
		}
	}
	return nil
}

func validateCoverImage(cover string) error {
	if cover == "" {
		return nil
	}
	return minLength("cover_image", cover, minCoverImageLength)
}

func validateAuthorID(id int64) error {
	if id <= 0 {
		return &application.ValidationError{Field: "author_id", Message: "is required"}
	}
	return nil
}

func validateCreateBook(req CreateBookRequest) error {
	checks := []error{
		minLength("title", req.Title, minTitleLength),
		minLength("description", req.Description, minDescriptionLength),
		validatePrice(req.PriceCents),
		validateCoverImage(req.CoverImage),
		validateAuthorID(req.AuthorID),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

func validateUpdateBook(req UpdateBookRequest) error {
	if req.Title != nil {
		if err := minLength("title", *req.Title, minTitleLength); err != nil {
			return err
		}
	}
	if req.Description != nil {
		if err := minLength("description", *req.Description, minDescriptionLength); err != nil {
			return err
		}
	}
	if req.PriceCents != nil {
		if err := validatePrice(*req.PriceCents); err != nil {
			return err
		}
	}
	if req.CoverImage != nil {
		if err := validateCoverImage(*req.CoverImage); err != nil {
			return err
		}
	}
	if req.AuthorID != nil {
		if err := validateAuthorID(*req.AuthorID); err != nil {
			return err
		}
	}
	return nil
}
