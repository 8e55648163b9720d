package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"

	"github.com/ericfisherdev/bookstore/internal/domain/model"
	"github.com/ericfisherdev/bookstore/internal/domain/port/driven"
)

// Accepted plaintext password lengths. bcrypt only reads the first 72 bytes and
// rejects longer input.
const (
	MinPasswordLength = 5
	MaxPasswordLength = 72
)

// UserService manages user accounts. Plaintext passwords are hashed here and
// never reach the store.
type UserService struct {
	users  driven.UserStore
	hasher driven.PasswordHasher
	logger *slog.Logger
}

// NewUserService creates a new UserService with the required dependencies.
func NewUserService(users driven.UserStore, hasher driven.PasswordHasher, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		hasher: hasher,
		logger: logger,
	}
}

// Register creates a USER account.
func (s *UserService) Register(ctx context.Context, email, password string) (model.User, error) {
	if err := validateEmail(email); err != nil {
		return model.User{}, err
	}
	if err := validatePassword(password); err != nil {
		return model.User{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return model.User{}, fmt.Errorf("register: %w", err)
	}

	user, err := s.users.Create(ctx, model.User{Email: email, PasswordHash: hash, Role: model.RoleUser})
	if err != nil {
		return model.User{}, err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user.WithoutPassword(), nil
}

// Get returns one user. Principals other than the user itself need ADMIN.
func (s *UserService) Get(ctx context.Context, actor model.Principal, id int64) (model.User, error) {
	if !actor.CanAccessUser(id) {
		return model.User{}, ErrForbidden
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	return user.WithoutPassword(), nil
}

// List returns one page of users and the total count.
func (s *UserService) List(ctx context.Context, page model.Page) ([]model.User, int, error) {
	users, total, err := s.users.List(ctx, page)
	if err != nil {
		return nil, 0, err
	}

	for i := range users {
		users[i] = users[i].WithoutPassword()
	}
	return users, total, nil
}

// Update applies a partial update. Users may change their own email and
// password; changing a role, or another user, requires ADMIN.
func (s *UserService) Update(ctx context.Context, actor model.Principal, id int64, update model.UserUpdate) (model.User, error) {
	if !actor.CanAccessUser(id) {
		return model.User{}, ErrForbidden
	}
	if update.Role != nil && !actor.IsAdmin() {
		return model.User{}, ErrForbidden
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	if update.Email != nil {
		if err := validateEmail(*update.Email); err != nil {
			return model.User{}, err
		}
		user.Email = *update.Email
	}
	if update.Password != nil {
		if err := validatePassword(*update.Password); err != nil {
			return model.User{}, err
		}
		hash, err := s.hasher.Hash(*update.Password)
		if err != nil {
			return model.User{}, fmt.Errorf("update user %d: %w", id, err)
		}
		user.PasswordHash = hash
	}
	if update.Role != nil {
		if !update.Role.Valid() {
			return model.User{}, invalid("role", "must be USER or ADMIN")
		}
		user.Role = *update.Role
	}

	updated, err := s.users.Update(ctx, *user)
	if err != nil {
		return model.User{}, err
	}
	return updated.WithoutPassword(), nil
}

// Delete removes a user. Principals other than the user itself need ADMIN.
func (s *UserService) Delete(ctx context.Context, actor model.Principal, id int64) error {
	if !actor.CanAccessUser(id) {
		return ErrForbidden
	}
	return s.users.Delete(ctx, id)
}

// EnsureAdmin makes sure an ADMIN account with email exists. A missing account
// is created with password; an existing one is promoted and keeps its password.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (model.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == model.RoleAdmin {
			return existing.WithoutPassword(), nil
		}
		existing.Role = model.RoleAdmin
		promoted, err := s.users.Update(ctx, *existing)
		if err != nil {
			return model.User{}, fmt.Errorf("promote admin: %w", err)
		}
		s.logger.Info("promoted user to admin", "user_id", promoted.ID)
		return promoted.WithoutPassword(), nil

	case errors.Is(err, driven.ErrUserNotFound):
		if err := validateEmail(email); err != nil {
			return model.User{}, err
		}
		if err := validatePassword(password); err != nil {
			return model.User{}, err
		}
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return model.User{}, fmt.Errorf("create admin: %w", err)
		}
		created, err := s.users.Create(ctx, model.User{Email: email, PasswordHash: hash, Role: model.RoleAdmin})
		if err != nil {
			return model.User{}, fmt.Errorf("create admin: %w", err)
		}
		s.logger.Info("created admin user", "user_id", created.ID)
		return created.WithoutPassword(), nil

	default:
		return model.User{}, fmt.Errorf("look up admin: %w", err)
	}
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email", "must be a valid email address")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return invalid("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	if len(password) > MaxPasswordLength {
		return invalid("password", fmt.Sprintf("must be at most %d bytes", MaxPasswordLength))
	}
	return nil
}
