package driven

import (
	"errors"

	"github.com/ericfisherdev/bookstore/internal/domain/model"
)

// Sentinel errors returned by TokenVerifier implementations.
var (
	// ErrTokenInvalid covers malformed, truncated, forged and otherwise unverifiable tokens.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrTokenExpired indicates a well-formed, correctly signed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// TokenIssuer mints signed, time-bounded access tokens.
type TokenIssuer interface {
	// Issue returns a token whose claims carry the user's id and role.
	Issue(user model.User) (string, error)
}

// TokenVerifier checks signature and expiry of access tokens and decodes their claims.
type TokenVerifier interface {
	// Verify returns the decoded claims, or ErrTokenInvalid / ErrTokenExpired.
	Verify(token string) (model.Claims, error)
}
