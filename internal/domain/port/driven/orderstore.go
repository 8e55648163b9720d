package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/bookstore/internal/domain/model"
)

// ErrOrderNotFound indicates the requested order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// OrderStore defines the driven port for order persistence. Orders and their
// items are written atomically.
type OrderStore interface {
	Create(ctx context.Context, order model.Order) (model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (model.Order, error)
	Delete(ctx context.Context, id int64) error
}
