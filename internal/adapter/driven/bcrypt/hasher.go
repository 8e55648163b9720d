// Package bcrypt implements the PasswordHasher port using golang.org/x/crypto/bcrypt.
package bcrypt

import (
	"errors"
	"fmt"

	xbcrypt "golang.org/x/crypto/bcrypt"

	"github.com/ericfisherdev/bookstore/internal/domain/port/driven"
)

// Cost is the bcrypt work factor. Each increment doubles the time a hash takes.
const Cost = 10

// ErrEmptyPassword is returned by Hash for an empty plaintext.
var ErrEmptyPassword = errors.New("password must not be empty")

// Compile-time interface satisfaction check.
var _ driven.PasswordHasher = (*Hasher)(nil)

// Hasher hashes and verifies passwords with bcrypt. It holds no mutable state
// and is safe for concurrent use.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher using Cost.
func NewHasher() *Hasher {
	return &Hasher{cost: Cost}
}

// Hash returns a salted bcrypt digest of plaintext. The salt is random, so
// hashing the same input twice yields different digests.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}

	digest, err := xbcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. Mismatches and malformed
// digests both return false.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return xbcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
