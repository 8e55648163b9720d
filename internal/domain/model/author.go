package model

import "time"

// Author represents a book author in the catalog.
type Author struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
