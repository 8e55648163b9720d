package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/bookstore/internal/domain/model"
	"github.com/ericfisherdev/bookstore/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GenreStore = (*GenreRepo)(nil)

// GenreRepo is the SQLite implementation of the GenreStore port interface.
type GenreRepo struct {
	db *DB
}

// NewGenreRepo creates a new GenreRepo backed by the given DB.
func NewGenreRepo(db *DB) *GenreRepo {
	return &GenreRepo{db: db}
}

// Create inserts a new genre. Returns driven.ErrGenreAlreadyExists on a duplicate name.
func (r *GenreRepo) Create(ctx context.Context, genre model.Genre) (model.Genre, error) {
	res, err := r.db.Writer.ExecContext(ctx, `INSERT INTO genres (name) VALUES (?)`, genre.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Genre{}, fmt.Errorf("create genre %q: %w", genre.Name, driven.ErrGenreAlreadyExists)
		}
		return model.Genre{}, fmt.Errorf("create genre %q: %w", genre.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Genre{}, fmt.Errorf("create genre: last insert id: %w", err)
	}
	genre.ID = id
	return genre, nil
}

// GetByID retrieves a genre. Returns driven.ErrGenreNotFound if absent.
func (r *GenreRepo) GetByID(ctx context.Context, id int64) (*model.Genre, error) {
	var genre model.Genre
	err := r.db.Reader.QueryRowContext(ctx, `SELECT id, name FROM genres WHERE id = ?`, id).Scan(&genre.ID, &genre.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, driven.ErrGenreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get genre %d: %w", id, err)
	}
	return &genre, nil
}

// List returns one page of genres ordered by id.
func (r *GenreRepo) List(ctx context.Context, page model.Page) ([]model.Genre, error) {
	rows, err := r.db.Reader.QueryContext(ctx, `SELECT id, name FROM genres ORDER BY id LIMIT ? OFFSET ?`, page.Take, page.Skip)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	return collectGenres(rows)
}

// Update renames a genre.
func (r *GenreRepo) Update(ctx context.Context, genre model.Genre) (model.Genre, error) {
	res, err := r.db.Writer.ExecContext(ctx, `UPDATE genres SET name = ? WHERE id = ?`, genre.Name, genre.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Genre{}, fmt.Errorf("update genre %d: %w", genre.ID, driven.ErrGenreAlreadyExists)
		}
		return model.Genre{}, fmt.Errorf("update genre %d: %w", genre.ID, err)
	}
	if err := requireAffected(res, fmt.Sprintf("update genre %d", genre.ID), driven.ErrGenreNotFound); err != nil {
		return model.Genre{}, err
	}
	return genre, nil
}

// Delete removes a genre and its book associations.
func (r *GenreRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Writer.ExecContext(ctx, `DELETE FROM genres WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete genre %d: %w", id, err)
	}
	return requireAffected(res, fmt.Sprintf("delete genre %d", id), driven.ErrGenreNotFound)
}

func collectGenres(rows *sql.Rows) ([]model.Genre, error) {
	var genres []model.Genre
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genres: %w", err)
	}
	return genres, nil
}
