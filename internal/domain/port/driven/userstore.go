package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/bookstore/internal/domain/model"
)

// Sentinel errors returned by UserStore implementations.
var (
	// ErrUserNotFound indicates no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserStore defines the driven port for identity record persistence. It is the
// credential store consulted at login; email matching is exact and case-sensitive.
type UserStore interface {
	// Create inserts a new user and returns it with ID and timestamps populated.
	// Returns ErrUserAlreadyExists on a duplicate email.
	Create(ctx context.Context, user model.User) (model.User, error)

	// FindByEmail returns the user with exactly the given email, including its
	// password hash. Returns ErrUserNotFound if absent.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID returns the user with the given id. Returns ErrUserNotFound if absent.
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// List returns one page of users ordered by id, and the total user count.
	List(ctx context.Context, page model.Page) ([]model.User, int, error)

	// Update persists email, password hash and role of an existing user.
	// Returns ErrUserNotFound or ErrUserAlreadyExists.
	Update(ctx context.Context, user model.User) (model.User, error)

	// Delete removes a user. Returns ErrUserNotFound if absent.
	Delete(ctx context.Context, id int64) error
}
