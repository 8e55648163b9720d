package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/bookstore/internal/domain/model"
	"github.com/ericfisherdev/bookstore/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.OrderStore = (*OrderRepo)(nil)

// OrderRepo is the SQLite implementation of the OrderStore port interface.
type OrderRepo struct {
	db *DB
}

// NewOrderRepo creates a new OrderRepo backed by the given DB.
func NewOrderRepo(db *DB) *OrderRepo {
	return &OrderRepo{db: db}
}

const orderColumns = `id, user_id, status, total_cents, created_at, updated_at`

// Create inserts an order and its items atomically. A missing book fails the
// item foreign key and is reported as driven.ErrBookNotFound.
func (r *OrderRepo) Create(ctx context.Context, order model.Order) (model.Order, error) {
	const orderQuery = `INSERT INTO orders (user_id, status, total_cents, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	const itemQuery = `INSERT INTO order_items (order_id, book_id, quantity, unit_price_cents) VALUES (?, ?, ?, ?)`

	if order.Status == "" {
		order.Status = model.OrderStatusPending
	}
	now := time.Now().UTC()

	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, orderQuery, order.UserID, string(order.Status), order.TotalCents, now, now)
		if err != nil {
			if isForeignKeyViolation(err) {
				return driven.ErrUserNotFound
			}
			return err
		}

		order.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}

		for _, item := range order.Items {
			if _, err := tx.ExecContext(ctx, itemQuery, order.ID, item.BookID, item.Quantity, item.UnitPriceCents); err != nil {
				if isForeignKeyViolation(err) {
					return fmt.Errorf("item book %d: %w", item.BookID, driven.ErrBookNotFound)
				}
				return fmt.Errorf("item book %d: %w", item.BookID, err)
			}
		}
		return nil
	})
	if err != nil {
		return model.Order{}, fmt.Errorf("create order: %w", err)
	}

	order.CreatedAt = now
	order.UpdatedAt = now
	return order, nil
}

// GetByID retrieves an order with its items. Returns driven.ErrOrderNotFound if absent.
func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`

	order, err := scanOrder(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, driven.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}

	items, err := r.itemsByOrder(ctx, []int64{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return order, nil
}

// ListAll returns every order, newest first.
func (r *OrderRepo) ListAll(ctx context.Context) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders ORDER BY id DESC`

	orders, err := r.queryOrders(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// ListByUser returns the orders placed by one user, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = ? ORDER BY id DESC`

	orders, err := r.queryOrders(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders of user %d: %w", userID, err)
	}
	return orders, nil
}

// UpdateStatus sets the status of an order.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (model.Order, error) {
	const query = `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`

	res, err := r.db.Writer.ExecContext(ctx, query, string(status), time.Now().UTC(), id)
	if err != nil {
		return model.Order{}, fmt.Errorf("update order %d: %w", id, err)
	}
	if err := requireAffected(res, fmt.Sprintf("update order %d", id), driven.ErrOrderNotFound); err != nil {
		return model.Order{}, err
	}

	updated, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Order{}, err
	}
	return *updated, nil
}

// Delete removes an order and its items.
func (r *OrderRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Writer.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	return requireAffected(res, fmt.Sprintf("delete order %d", id), driven.ErrOrderNotFound)
}

func (r *OrderRepo) queryOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	items, err := r.itemsByOrder(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *OrderRepo) itemsByOrder(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(orderIDs)), ",")
	query := `SELECT order_id, book_id, quantity, unit_price_cents FROM order_items
		WHERE order_id IN (` + placeholders + `) ORDER BY book_id`

	args := make([]any, len(orderIDs))
	for i, id := range orderIDs {
		args[i] = id
	}

	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]model.OrderItem, len(orderIDs))
	for rows.Next() {
		var orderID int64
		var item model.OrderItem
		if err := rows.Scan(&orderID, &item.BookID, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		result[orderID] = append(result[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return result, nil
}

func scanOrder(s scanner) (*model.Order, error) {
	var order model.Order
	var status, createdAt, updatedAt string

	if err := s.Scan(&order.ID, &order.UserID, &status, &order.TotalCents, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	order.Status = model.OrderStatus(status)

	var err error
	if order.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if order.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &order, nil
}
