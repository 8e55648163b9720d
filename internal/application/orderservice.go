package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/bookstore/internal/domain/model"
	"github.com/ericfisherdev/bookstore/internal/domain/port/driven"
)

// MaxLineQuantity bounds the quantity of one book in an order, after lines
// naming the same book are merged.
const MaxLineQuantity = 1000

// OrderLine is one requested book and quantity when placing an order.
type OrderLine struct {
	BookID   int64
	Quantity int
}

// OrderService places orders and enforces order ownership. Orders of other
// users are reported as not found to non-admin principals.
type OrderService struct {
	orders driven.OrderStore
	books  driven.BookStore
	logger *slog.Logger
}

// NewOrderService creates a new OrderService with the required dependencies.
func NewOrderService(orders driven.OrderStore, books driven.BookStore, logger *slog.Logger) *OrderService {
	return &OrderService{
		orders: orders,
		books:  books,
		logger: logger,
	}
}

// Create places an order for actor. Lines naming the same book are merged and
// each unit price is taken from the book at this moment.
func (s *OrderService) Create(ctx context.Context, actor model.Principal, lines []OrderLine) (model.Order, error) {
	if len(lines) == 0 {
		return model.Order{}, fmt.Errorf("%w: at least one item is required", ErrInvalidOrder)
	}

	merged := make([]OrderLine, 0, len(lines))
	index := make(map[int64]int, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 || line.Quantity > MaxLineQuantity {
			return model.Order{}, fmt.Errorf("%w: quantity of book %d must be between 1 and %d",
				ErrInvalidOrder, line.BookID, MaxLineQuantity)
		}
		if i, ok := index[line.BookID]; ok {
			merged[i].Quantity += line.Quantity
			if merged[i].Quantity > MaxLineQuantity {
				return model.Order{}, fmt.Errorf("%w: total quantity of book %d exceeds %d",
					ErrInvalidOrder, line.BookID, MaxLineQuantity)
			}
			continue
		}
		index[line.BookID] = len(merged)
		merged = append(merged, line)
	}

	order := model.Order{UserID: actor.UserID, Status: model.OrderStatusPending}
	for _, line := range merged {
		book, err := s.books.GetByID(ctx, line.BookID)
		if errors.Is(err, driven.ErrBookNotFound) {
			return model.Order{}, fmt.Errorf("%w: book %d does not exist", ErrInvalidOrder, line.BookID)
		}
		if err != nil {
			return model.Order{}, fmt.Errorf("price book %d: %w", line.BookID, err)
		}
		order.Items = append(order.Items, model.OrderItem{
			BookID:         book.ID,
			Quantity:       line.Quantity,
			UnitPriceCents: book.PriceCents,
		})
	}
	order.TotalCents = order.ComputeTotal()

	created, err := s.orders.Create(ctx, order)
	if errors.Is(err, driven.ErrBookNotFound) {
		return model.Order{}, fmt.Errorf("%w: %w", ErrInvalidOrder, err)
	}
	if err != nil {
		return model.Order{}, err
	}

	s.logger.Info("order placed", "order_id", created.ID, "user_id", actor.UserID, "total_cents", created.TotalCents)
	return created, nil
}

// List returns every order for admins and the actor's own orders otherwise.
func (s *OrderService) List(ctx context.Context, actor model.Principal) ([]model.Order, error) {
	if actor.IsAdmin() {
		return s.orders.ListAll(ctx)
	}
	return s.orders.ListByUser(ctx, actor.UserID)
}

// Get returns one order visible to actor.
func (s *OrderService) Get(ctx context.Context, actor model.Principal, id int64) (model.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return model.Order{}, err
	}
	if !actor.IsAdmin() && order.UserID != actor.UserID {
		return model.Order{}, driven.ErrOrderNotFound
	}
	return *order, nil
}

// UpdateStatus moves an order to status. Only admins may do so, and only along
// the allowed transitions.
func (s *OrderService) UpdateStatus(ctx context.Context, actor model.Principal, id int64, status model.OrderStatus) (model.Order, error) {
	if !actor.IsAdmin() {
		return model.Order{}, ErrForbidden
	}
	if !status.Valid() {
		return model.Order{}, fmt.Errorf("%w: unknown status %q", ErrInvalidOrder, status)
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return model.Order{}, err
	}
	if !order.Status.CanTransitionTo(status) {
		return model.Order{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, status)
	}

	updated, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return model.Order{}, err
	}

	s.logger.Info("order status changed", "order_id", id, "from", order.Status, "to", status)
	return updated, nil
}

// Delete removes an order visible to actor.
func (s *OrderService) Delete(ctx context.Context, actor model.Principal, id int64) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.orders.Delete(ctx, id)
}
