package model

import "time"

// OrderItem is one line of an order. UnitPriceCents is the book price captured
// when the order was placed.
type OrderItem struct {
	BookID         int64
	Quantity       int
	UnitPriceCents int64
}

// Order is a purchase placed by a user.
type Order struct {
	ID         int64
	UserID     int64
	Status     OrderStatus
	Items      []OrderItem
	TotalCents int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ComputeTotal returns the sum of quantity * unit price over all items.
func (o Order) ComputeTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += int64(item.Quantity) * item.UnitPriceCents
	}
	return total
}
