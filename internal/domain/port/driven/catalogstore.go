package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/bookstore/internal/domain/model"
)

// Sentinel errors returned by catalog store implementations.
var (
	// ErrAuthorNotFound indicates the requested author does not exist.
	ErrAuthorNotFound = errors.New("author not found")

	// ErrGenreNotFound indicates the requested genre (or one of the referenced genres) does not exist.
	ErrGenreNotFound = errors.New("genre not found")

	// ErrGenreAlreadyExists indicates a genre with the same name already exists.
	ErrGenreAlreadyExists = errors.New("genre already exists")

	// ErrBookNotFound indicates the requested book does not exist.
	ErrBookNotFound = errors.New("book not found")

	// ErrBookAlreadyExists indicates a book with the same title already exists.
	ErrBookAlreadyExists = errors.New("book already exists")

	// ErrBookInUse indicates a book cannot be deleted because orders reference it.
	ErrBookInUse = errors.New("book is referenced by orders")
)

// AuthorStore defines the driven port for author persistence.
// Lookups, updates and deletes of a missing author return ErrAuthorNotFound.
type AuthorStore interface {
	Create(ctx context.Context, author model.Author) (model.Author, error)
	GetByID(ctx context.Context, id int64) (*model.Author, error)
	List(ctx context.Context, page model.Page) ([]model.Author, error)
	Update(ctx context.Context, author model.Author) (model.Author, error)
	Delete(ctx context.Context, id int64) error
}

// GenreStore defines the driven port for genre persistence.
// Create and Update return ErrGenreAlreadyExists on a duplicate name; a missing
// genre yields ErrGenreNotFound.
type GenreStore interface {
	Create(ctx context.Context, genre model.Genre) (model.Genre, error)
	GetByID(ctx context.Context, id int64) (*model.Genre, error)
	List(ctx context.Context, page model.Page) ([]model.Genre, error)
	Update(ctx context.Context, genre model.Genre) (model.Genre, error)
	Delete(ctx context.Context, id int64) error
}

// BookStore defines the driven port for book persistence including the
// book-genre association.
//
// Create and Update return ErrAuthorNotFound or ErrGenreNotFound when a
// referenced author or genre does not exist, and ErrBookAlreadyExists on a
// duplicate title. Lookups of a missing book return ErrBookNotFound, and
// Delete returns ErrBookInUse while orders reference the book.
type BookStore interface {
	Create(ctx context.Context, book model.Book, genreIDs []int64) (model.Book, error)
	GetByID(ctx context.Context, id int64) (*model.Book, error)
	List(ctx context.Context, page model.Page) ([]model.Book, int, error)
	Update(ctx context.Context, id int64, update model.BookUpdate) (model.Book, error)
	Delete(ctx context.Context, id int64) error
	ListByAuthor(ctx context.Context, authorID int64) ([]model.Book, error)
	ListByGenre(ctx context.Context, genreID int64) ([]model.Book, error)
	GenresOf(ctx context.Context, bookID int64) ([]model.Genre, error)
}
