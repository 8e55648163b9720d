package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ericfisherdev/bookstore/internal/domain/model"
	"github.com/ericfisherdev/bookstore/internal/domain/port/driven"
)

// AuthService validates credentials, issues access tokens on login and turns
// presented tokens back into principals. It depends only on port interfaces and
// is safe for concurrent use.
type AuthService struct {
	users    driven.UserStore
	hasher   driven.PasswordHasher
	issuer   driven.TokenIssuer
	verifier driven.TokenVerifier
	logger   *slog.Logger

	// dummyHash is compared against when no user matches, so unknown emails
	// cost the same bcrypt work as wrong passwords.
	dummyHash string
}

// NewAuthService creates an AuthService. It hashes a random password once to
// prepare the digest used for unknown emails.
func NewAuthService(
	users driven.UserStore,
	hasher driven.PasswordHasher,
	issuer driven.TokenIssuer,
	verifier driven.TokenVerifier,
	logger *slog.Logger,
) (*AuthService, error) {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &AuthService{
		users:     users,
		hasher:    hasher,
		issuer:    issuer,
		verifier:  verifier,
		logger:    logger,
		dummyHash: dummy,
	}, nil
}

// Validate looks up the user by exact email and checks password against the
// stored hash. It returns the user without its password hash and true on a match.
// Unknown email, wrong password and store failures all return false.
func (s *AuthService) Validate(ctx context.Context, email, password string) (model.User, bool) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, driven.ErrUserNotFound) {
			s.logger.Error("credential lookup failed", "error", err)
		}
		s.hasher.Verify(password, s.dummyHash)
		return model.User{}, false
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return model.User{}, false
	}

	return user.WithoutPassword(), true
}

// Login validates the credentials and returns a signed access token.
// Every credential failure returns ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, ok := s.Validate(ctx, email, password)
	if !ok {
		s.logger.Info("login failed", "email", email)
		return "", ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return "", fmt.Errorf("issue token for user %d: %w", user.ID, err)
	}

	s.logger.Info("login succeeded", "user_id", user.ID)
	return token, nil
}

// Authenticate verifies token and returns the principal it carries. Any
// verification failure is reported as ErrUnauthenticated wrapping the cause.
func (s *AuthService) Authenticate(token string) (model.Principal, error) {
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	return model.Principal{UserID: claims.SubjectID, Role: claims.Role}, nil
}

// CurrentUser loads the user behind principal. A user deleted after the token
// was issued yields ErrUnauthenticated.
func (s *AuthService) CurrentUser(ctx context.Context, principal model.Principal) (model.User, error) {
	user, err := s.users.FindByID(ctx, principal.UserID)
	if errors.Is(err, driven.ErrUserNotFound) {
		return model.User{}, ErrUnauthenticated
	}
	if err != nil {
		return model.User{}, fmt.Errorf("load current user: %w", err)
	}
	return user.WithoutPassword(), nil
}
