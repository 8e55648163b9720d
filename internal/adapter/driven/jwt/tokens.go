// Package jwt implements the TokenIssuer and TokenVerifier ports with HMAC-SHA256
// signed JSON Web Tokens using github.com/golang-jwt/jwt/v5.
package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ericfisherdev/bookstore/internal/domain/model"
	"github.com/ericfisherdev/bookstore/internal/domain/port/driven"
)

// ErrEmptySecret is returned by the constructors when no signing key is given.
var ErrEmptySecret = errors.New("jwt signing secret is empty")

// Compile-time interface satisfaction checks.
var (
	_ driven.TokenIssuer   = (*Issuer)(nil)
	_ driven.TokenVerifier = (*Verifier)(nil)
)

// accessClaims is the wire form of model.Claims. The subject carries the user id
// in decimal.
type accessClaims struct {
	Role string `json:"role"`
	gojwt.RegisteredClaims
}

// Option configures an Issuer or Verifier.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for iat/exp and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Issuer mints access tokens. It holds only read-only state and is safe for
// concurrent use.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewIssuer creates an Issuer signing with secret. Tokens expire ttl after issuance.
func NewIssuer(secret []byte, ttl time.Duration, issuer string, opts ...Option) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	o := buildOptions(opts)
	return &Issuer{secret: secret, ttl: ttl, issuer: issuer, now: o.now}, nil
}

// Issue returns a signed token for user carrying its id and role.
func (i *Issuer) Issue(user model.User) (string, error) {
	if user.ID <= 0 {
		return "", fmt.Errorf("issue token: invalid user id %d", user.ID)
	}

	now := i.now()
	claims := accessClaims{
		Role: string(user.Role),
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verifier checks tokens minted by an Issuer sharing the same secret and issuer.
type Verifier struct {
	secret []byte
	parser *gojwt.Parser
}

// NewVerifier creates a Verifier. Only HS256 tokens with an exp claim and a
// matching iss claim are accepted.
func NewVerifier(secret []byte, issuer string, opts ...Option) (*Verifier, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	o := buildOptions(opts)
	parser := gojwt.NewParser(
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithIssuedAt(),
		gojwt.WithIssuer(issuer),
		gojwt.WithTimeFunc(o.now),
	)
	return &Verifier{secret: secret, parser: parser}, nil
}

// Verify decodes token. Expired tokens yield driven.ErrTokenExpired; every other
// failure, including malformed input, yields driven.ErrTokenInvalid.
func (v *Verifier) Verify(token string) (model.Claims, error) {
	var claims accessClaims
	_, err := v.parser.ParseWithClaims(token, &claims, func(t *gojwt.Token) (any, error) {
		// Second check alongside WithValidMethods; keep both.
		if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return model.Claims{}, driven.ErrTokenExpired
		}
		return model.Claims{}, fmt.Errorf("%w: %v", driven.ErrTokenInvalid, err)
	}

	subjectID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || subjectID <= 0 {
		return model.Claims{}, fmt.Errorf("%w: bad subject %q", driven.ErrTokenInvalid, claims.Subject)
	}

	role := model.Role(claims.Role)
	if !role.Valid() {
		return model.Claims{}, fmt.Errorf("%w: bad role %q", driven.ErrTokenInvalid, claims.Role)
	}

	result := model.Claims{SubjectID: subjectID, Role: role, ExpiresAt: claims.ExpiresAt.Time}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	return result, nil
}
