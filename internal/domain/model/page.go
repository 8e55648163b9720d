package model

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page selects a window of a listing.
type Page struct {
	Skip int
	Take int
}

// NewPage normalizes skip/take: negative skip becomes 0, non-positive take
// becomes DefaultPageSize, and take is capped at MaxPageSize.
func NewPage(skip, take int) Page {
	if skip < 0 {
		skip = 0
	}
	if take <= 0 {
		take = DefaultPageSize
	}
	if take > MaxPageSize {
		take = MaxPageSize
	}
	return Page{Skip: skip, Take: take}
}
