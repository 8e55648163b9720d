package sqlite

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/bookstore/internal/domain/model"
)

// setupTestDB opens a shared-cache in-memory database named after the test,
// so reader and writer pools see the same data and tests stay isolated.
// WAL does not apply to memory databases.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := buildDSN(url.PathEscape(t.Name()), "mode=memory&cache=shared",
		[]string{"busy_timeout(5000)", "foreign_keys(ON)"})

	db, err := openDB(context.Background(), dsn)
	require.NoError(t, err, "open test db")
	t.Cleanup(func() { _ = db.Close() })

	_, err = RunMigrations(db.Writer)
	require.NoError(t, err, "run migrations")
	return db
}

func seedUser(t *testing.T, db *DB, email string) model.User {
	t.Helper()
	user, err := NewUserRepo(db).Create(context.Background(), model.User{Email: email, PasswordHash: "$2a$10$hash"})
	require.NoError(t, err)
	return user
}

func seedAuthor(t *testing.T, db *DB, name string) model.Author {
	t.Helper()
	author, err := NewAuthorRepo(db).Create(context.Background(), model.Author{Name: name})
	require.NoError(t, err)
	return author
}

func seedGenre(t *testing.T, db *DB, name string) model.Genre {
	t.Helper()
	genre, err := NewGenreRepo(db).Create(context.Background(), model.Genre{Name: name})
	require.NoError(t, err)
	return genre
}

func seedBook(t *testing.T, db *DB, title string, authorID int64, genreIDs ...int64) model.Book {
	t.Helper()
	book, err := NewBookRepo(db).Create(context.Background(), model.Book{
		Title:       title,
		Description: "A sufficiently long description.",
		PriceCents:  1999,
		AuthorID:    authorID,
	}, genreIDs)
	require.NoError(t, err)
	return book
}
