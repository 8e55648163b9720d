package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/bookstore/internal/domain/model"
	"github.com/ericfisherdev/bookstore/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.UserStore = (*UserRepo)(nil)

// UserRepo is the SQLite implementation of the UserStore port interface.
// Password hashes are stored as produced by the hasher and never transformed here.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new UserRepo backed by the given DB.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, email, password_hash, role, created_at, updated_at`

// Create inserts a new user. An empty role defaults to model.RoleUser.
func (r *UserRepo) Create(ctx context.Context, user model.User) (model.User, error) {
	const query = `INSERT INTO users (email, password_hash, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`

	if user.Role == "" {
		user.Role = model.RoleUser
	}
	now := time.Now().UTC()

	res, err := r.db.Writer.ExecContext(ctx, query, user.Email, user.PasswordHash, string(user.Role), now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, fmt.Errorf("create user: %w", driven.ErrUserAlreadyExists)
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, fmt.Errorf("create user: last insert id: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return user, nil
}

// FindByEmail returns the user with exactly the given email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = ?`

	user, err := scanUser(r.db.Reader.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, driven.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

// FindByID returns the user with the given id.
func (r *UserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	user, err := scanUser(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, driven.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return user, nil
}

// List returns one page of users ordered by id together with the total count.
func (r *UserRepo) List(ctx context.Context, page model.Page) ([]model.User, int, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT ? OFFSET ?`

	rows, err := r.db.Reader.QueryContext(ctx, query, page.Take, page.Skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}

	var total int
	if err := r.db.Reader.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, total, nil
}

// Update persists email, password hash and role and bumps updated_at.
func (r *UserRepo) Update(ctx context.Context, user model.User) (model.User, error) {
	const query = `UPDATE users SET email = ?, password_hash = ?, role = ?, updated_at = ? WHERE id = ?`

	now := time.Now().UTC()
	res, err := r.db.Writer.ExecContext(ctx, query, user.Email, user.PasswordHash, string(user.Role), now, user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, fmt.Errorf("update user %d: %w", user.ID, driven.ErrUserAlreadyExists)
		}
		return model.User{}, fmt.Errorf("update user %d: %w", user.ID, err)
	}

	if err := requireAffected(res, fmt.Sprintf("update user %d", user.ID), driven.ErrUserNotFound); err != nil {
		return model.User{}, err
	}

	updated, err := r.FindByID(ctx, user.ID)
	if err != nil {
		return model.User{}, err
	}
	return *updated, nil
}

// Delete removes a user. Orders of the user are removed by cascade.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM users WHERE id = ?`

	res, err := r.db.Writer.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return requireAffected(res, fmt.Sprintf("delete user %d", id), driven.ErrUserNotFound)
}

func scanUser(s scanner) (*model.User, error) {
	var user model.User
	var role, createdAt, updatedAt string

	if err := s.Scan(&user.ID, &user.Email, &user.PasswordHash, &role, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	user.Role = model.Role(role)

	var err error
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if user.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &user, nil
}

// requireAffected returns notFound wrapped with op when res touched no rows.
func requireAffected(res sql.Result, op string, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, notFound)
	}
	return nil
}
