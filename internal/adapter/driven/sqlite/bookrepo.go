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
var _ driven.BookStore = (*BookRepo)(nil)

// BookRepo is the SQLite implementation of the BookStore port interface.
// Genre membership lives in the book_genres join table.
type BookRepo struct {
	db *DB
}

// NewBookRepo creates a new BookRepo backed by the given DB.
func NewBookRepo(db *DB) *BookRepo {
	return &BookRepo{db: db}
}

const bookColumns = `b.id, b.title, b.description, b.price_cents, b.cover_image, b.author_id, b.created_at, b.updated_at`

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Create inserts a book and links it to genreIDs in one transaction.
func (r *BookRepo) Create(ctx context.Context, book model.Book, genreIDs []int64) (model.Book, error) {
	const query = `INSERT INTO books (title, description, price_cents, cover_image, author_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	var id int64

	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query,
			book.Title, book.Description, book.PriceCents, book.CoverImage, nullableID(book.AuthorID), now, now)
		if err != nil {
			return mapBookWriteError(err)
		}

		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}

		return linkGenres(ctx, tx, id, genreIDs)
	})
	if err != nil {
		return model.Book{}, fmt.Errorf("create book %q: %w", book.Title, err)
	}

	created, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Book{}, err
	}
	return *created, nil
}

// GetByID retrieves a book with its author and genres.
func (r *BookRepo) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	const query = `SELECT ` + bookColumns + `, a.id, a.name, a.created_at, a.updated_at
		FROM books b LEFT JOIN authors a ON a.id = b.author_id
		WHERE b.id = ?`

	row := r.db.Reader.QueryRowContext(ctx, query, id)

	var (
		book                 model.Book
		authorID             sql.NullInt64
		createdAt, updatedAt string
		aID                  sql.NullInt64
		aName                sql.NullString
		aCreated, aUpdated   sql.NullString
	)
	err := row.Scan(&book.ID, &book.Title, &book.Description, &book.PriceCents, &book.CoverImage, &authorID,
		&createdAt, &updatedAt, &aID, &aName, &aCreated, &aUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, driven.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}

	book.AuthorID = authorID.Int64
	if book.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if book.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	if aID.Valid {
		author := &model.Author{ID: aID.Int64, Name: aName.String}
		if author.CreatedAt, err = parseTime(aCreated.String); err != nil {
			return nil, fmt.Errorf("parse author created_at: %w", err)
		}
		if author.UpdatedAt, err = parseTime(aUpdated.String); err != nil {
			return nil, fmt.Errorf("parse author updated_at: %w", err)
		}
		book.Author = author
	}

	genres, err := r.GenresOf(ctx, id)
	if err != nil {
		return nil, err
	}
	book.Genres = genres

	return &book, nil
}

// List returns one page of books with their genres, and the total book count.
func (r *BookRepo) List(ctx context.Context, page model.Page) ([]model.Book, int, error) {
	const query = `SELECT ` + bookColumns + ` FROM books b ORDER BY b.id LIMIT ? OFFSET ?`

	books, err := r.queryBooks(ctx, query, page.Take, page.Skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}

	var total int
	if err := r.db.Reader.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}
	return books, total, nil
}

// ListByAuthor returns all books written by the given author.
func (r *BookRepo) ListByAuthor(ctx context.Context, authorID int64) ([]model.Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM books b WHERE b.author_id = ? ORDER BY b.id`

	books, err := r.queryBooks(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("list books of author %d: %w", authorID, err)
	}
	return books, nil
}

// ListByGenre returns all books belonging to the given genre.
func (r *BookRepo) ListByGenre(ctx context.Context, genreID int64) ([]model.Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM books b
		JOIN book_genres bg ON bg.book_id = b.id
		WHERE bg.genre_id = ? ORDER BY b.id`

	books, err := r.queryBooks(ctx, query, genreID)
	if err != nil {
		return nil, fmt.Errorf("list books of genre %d: %w", genreID, err)
	}
	return books, nil
}

// GenresOf returns the genres of a book ordered by name. Returns
// driven.ErrBookNotFound if the book does not exist.
func (r *BookRepo) GenresOf(ctx context.Context, bookID int64) ([]model.Genre, error) {
	var exists int
	err := r.db.Reader.QueryRowContext(ctx, `SELECT 1 FROM books WHERE id = ?`, bookID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, driven.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("check book %d: %w", bookID, err)
	}

	const query = `SELECT g.id, g.name FROM genres g
		JOIN book_genres bg ON bg.genre_id = g.id
		WHERE bg.book_id = ? ORDER BY g.name`

	rows, err := r.db.Reader.QueryContext(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("genres of book %d: %w", bookID, err)
	}
	defer rows.Close()

	return collectGenres(rows)
}

// Update applies the non-nil fields of update. A non-nil GenreIDs replaces the genre set.
func (r *BookRepo) Update(ctx context.Context, id int64, update model.BookUpdate) (model.Book, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Book{}, err
	}

	book := *current
	if update.Title != nil {
		book.Title = *update.Title
	}
	if update.Description != nil {
		book.Description = *update.Description
	}
	if update.PriceCents != nil {
		book.PriceCents = *update.PriceCents
	}
	if update.CoverImage != nil {
		book.CoverImage = *update.CoverImage
	}
	if update.AuthorID != nil {
		book.AuthorID = *update.AuthorID
	}

	const query = `UPDATE books SET title = ?, description = ?, price_cents = ?, cover_image = ?, author_id = ?, updated_at = ?
		WHERE id = ?`

	err = r.db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query,
			book.Title, book.Description, book.PriceCents, book.CoverImage, nullableID(book.AuthorID), time.Now().UTC(), id)
		if err != nil {
			return mapBookWriteError(err)
		}
		if err := requireAffected(res, "update row", driven.ErrBookNotFound); err != nil {
			return err
		}

		if update.GenreIDs == nil {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM book_genres WHERE book_id = ?`, id); err != nil {
			return fmt.Errorf("clear genres: %w", err)
		}
		return linkGenres(ctx, tx, id, update.GenreIDs)
	})
	if err != nil {
		return model.Book{}, fmt.Errorf("update book %d: %w", id, err)
	}

	updated, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Book{}, err
	}
	return *updated, nil
}

// Delete removes a book and its genre links.
func (r *BookRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Writer.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("delete book %d: %w", id, driven.ErrBookInUse)
		}
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	return requireAffected(res, fmt.Sprintf("delete book %d", id), driven.ErrBookNotFound)
}

// queryBooks runs a books query and attaches genres to every row.
func (r *BookRepo) queryBooks(ctx context.Context, query string, args ...any) ([]model.Book, error) {
	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []model.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}

	if len(books) == 0 {
		return books, nil
	}

	ids := make([]int64, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	genres, err := genresByBook(ctx, r.db.Reader, ids)
	if err != nil {
		return nil, err
	}
	for i := range books {
		books[i].Genres = genres[books[i].ID]
	}
	return books, nil
}

func scanBook(s scanner) (*model.Book, error) {
	var book model.Book
	var authorID sql.NullInt64
	var createdAt, updatedAt string

	err := s.Scan(&book.ID, &book.Title, &book.Description, &book.PriceCents, &book.CoverImage, &authorID,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	book.AuthorID = authorID.Int64
	if book.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if book.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &book, nil
}

// genresByBook loads the genres of several books in one query.
func genresByBook(ctx context.Context, q queryer, bookIDs []int64) (map[int64][]model.Genre, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(bookIDs)), ",")
	query := `SELECT bg.book_id, g.id, g.name FROM book_genres bg
		JOIN genres g ON g.id = bg.genre_id
		WHERE bg.book_id IN (` + placeholders + `) ORDER BY g.name`

	args := make([]any, len(bookIDs))
	for i, id := range bookIDs {
		args[i] = id
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load book genres: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]model.Genre, len(bookIDs))
	for rows.Next() {
		var bookID int64
		var g model.Genre
		if err := rows.Scan(&bookID, &g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan book genre: %w", err)
		}
		result[bookID] = append(result[bookID], g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate book genres: %w", err)
	}
	return result, nil
}

// linkGenres inserts book_genres rows. An unknown genre id fails the foreign key
// and is reported as driven.ErrGenreNotFound.
func linkGenres(ctx context.Context, tx *sql.Tx, bookID int64, genreIDs []int64) error {
	const query = `INSERT OR IGNORE INTO book_genres (book_id, genre_id) VALUES (?, ?)`

	for _, genreID := range genreIDs {
		if _, err := tx.ExecContext(ctx, query, bookID, genreID); err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("link genre %d: %w", genreID, driven.ErrGenreNotFound)
			}
			return fmt.Errorf("link genre %d: %w", genreID, err)
		}
	}
	return nil
}

func mapBookWriteError(err error) error {
	switch {
	case isUniqueViolation(err):
		return driven.ErrBookAlreadyExists
	case isForeignKeyViolation(err):
		return driven.ErrAuthorNotFound
	default:
		return err
	}
}

func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}
