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
var _ driven.AuthorStore = (*AuthorRepo)(nil)

// AuthorRepo is the SQLite implementation of the AuthorStore port interface.
type AuthorRepo struct {
	db *DB
}

// NewAuthorRepo creates a new AuthorRepo backed by the given DB.
func NewAuthorRepo(db *DB) *AuthorRepo {
	return &AuthorRepo{db: db}
}

// Create inserts a new author.
func (r *AuthorRepo) Create(ctx context.Context, author model.Author) (model.Author, error) {
	const query = `INSERT INTO authors (name, created_at, updated_at) VALUES (?, ?, ?)`

	now := time.Now().UTC()
	res, err := r.db.Writer.ExecContext(ctx, query, author.Name, now, now)
	if err != nil {
		return model.Author{}, fmt.Errorf("create author: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Author{}, fmt.Errorf("create author: last insert id: %w", err)
	}

	author.ID = id
	author.CreatedAt = now
	author.UpdatedAt = now
	return author, nil
}

// GetByID retrieves an author. Returns driven.ErrAuthorNotFound if absent.
func (r *AuthorRepo) GetByID(ctx context.Context, id int64) (*model.Author, error) {
	const query = `SELECT id, name, created_at, updated_at FROM authors WHERE id = ?`

	author, err := scanAuthor(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, driven.ErrAuthorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get author %d: %w", id, err)
	}
	return author, nil
}

// List returns one page of authors ordered by id.
func (r *AuthorRepo) List(ctx context.Context, page model.Page) ([]model.Author, error) {
	const query = `SELECT id, name, created_at, updated_at FROM authors ORDER BY id LIMIT ? OFFSET ?`

	rows, err := r.db.Reader.QueryContext(ctx, query, page.Take, page.Skip)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	var authors []model.Author
	for rows.Next() {
		author, err := scanAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		authors = append(authors, *author)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate authors: %w", err)
	}
	return authors, nil
}

// Update renames an author.
func (r *AuthorRepo) Update(ctx context.Context, author model.Author) (model.Author, error) {
	const query = `UPDATE authors SET name = ?, updated_at = ? WHERE id = ?`

	res, err := r.db.Writer.ExecContext(ctx, query, author.Name, time.Now().UTC(), author.ID)
	if err != nil {
		return model.Author{}, fmt.Errorf("update author %d: %w", author.ID, err)
	}
	if err := requireAffected(res, fmt.Sprintf("update author %d", author.ID), driven.ErrAuthorNotFound); err != nil {
		return model.Author{}, err
	}

	updated, err := r.GetByID(ctx, author.ID)
	if err != nil {
		return model.Author{}, err
	}
	return *updated, nil
}

// Delete removes an author. Books of the author keep existing without an author.
func (r *AuthorRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Writer.ExecContext(ctx, `DELETE FROM authors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete author %d: %w", id, err)
	}
	return requireAffected(res, fmt.Sprintf("delete author %d", id), driven.ErrAuthorNotFound)
}

func scanAuthor(s scanner) (*model.Author, error) {
	var author model.Author
	var createdAt, updatedAt string

	if err := s.Scan(&author.ID, &author.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if author.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if author.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &author, nil
}
