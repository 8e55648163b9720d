package jwt

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/bookstore/internal/domain/model"
	"github.com/ericfisherdev/bookstore/internal/domain/port/driven"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

const testIssuer = "bookstore"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newPair(t *testing.T, secret []byte, now time.Time) (*Issuer, *Verifier) {
	t.Helper()
	issuer, err := NewIssuer(secret, time.Hour, testIssuer, WithClock(fixedClock(now)))
	require.NoError(t, err)
	verifier, err := NewVerifier(secret, testIssuer, WithClock(fixedClock(now)))
	require.NoError(t, err)
	return issuer, verifier
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	issuer, verifier := newPair(t, testSecret, now)

	token, err := issuer.Issue(model.User{ID: 7, Email: "a@x.com", Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 2, strings.Count(token, "."))

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.SubjectID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.True(t, claims.IssuedAt.Equal(now))
	assert.True(t, claims.ExpiresAt.Equal(now.Add(time.Hour)))
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	issuer, _ := newPair(t, testSecret, time.Now())
	user := model.User{ID: 1, Role: model.RoleUser}

	first, err := issuer.Issue(user)
	require.NoError(t, err)
	second, err := issuer.Issue(user)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerify_Expired(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	issuer, err := NewIssuer(testSecret, time.Hour, testIssuer, WithClock(fixedClock(issuedAt)))
	require.NoError(t, err)
	verifier, err := NewVerifier(testSecret, testIssuer)
	require.NoError(t, err)

	token, err := issuer.Issue(model.User{ID: 1, Role: model.RoleUser})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, driven.ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	now := time.Now()
	issuer, _ := newPair(t, testSecret, now)
	_, otherVerifier := newPair(t, []byte("ffffffffffffffffffffffffffffffff"), now)

	token, err := issuer.Issue(model.User{ID: 1, Role: model.RoleUser})
	require.NoError(t, err)

	_, err = otherVerifier.Verify(token)
	assert.ErrorIs(t, err, driven.ErrTokenInvalid)
}

func TestVerify_WrongIssuer(t *testing.T) {
	now := time.Now()
	issuer, err := NewIssuer(testSecret, time.Hour, "someone-else", WithClock(fixedClock(now)))
	require.NoError(t, err)
	_, verifier := newPair(t, testSecret, now)

	token, err := issuer.Issue(model.User{ID: 1, Role: model.RoleUser})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, driven.ErrTokenInvalid)
}

func TestVerify_MalformedInput(t *testing.T) {
	_, verifier := newPair(t, testSecret, time.Now())

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "garbage"},
		{name: "three dots", token: "not.a.jwt"},
		{name: "unicode", token: "ünïcödé.tökén.✓"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := verifier.Verify(tc.token)
			assert.ErrorIs(t, err, driven.ErrTokenInvalid)
		})
	}
}

func TestVerify_TruncatedToken(t *testing.T) {
	issuer, verifier := newPair(t, testSecret, time.Now())

	token, err := issuer.Issue(model.User{ID: 1, Role: model.RoleUser})
	require.NoError(t, err)

	_, err = verifier.Verify(token[:len(token)-5])
	assert.ErrorIs(t, err, driven.ErrTokenInvalid)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	now := time.Now()
	_, verifier := newPair(t, testSecret, now)

	claims := accessClaims{
		Role: string(model.RoleAdmin),
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   "1",
			ExpiresAt: gojwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	hs512, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, claims).SignedString(testSecret)
	require.NoError(t, err)
	_, err = verifier.Verify(hs512)
	assert.ErrorIs(t, err, driven.ErrTokenInvalid)

	none, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = verifier.Verify(none)
	assert.ErrorIs(t, err, driven.ErrTokenInvalid)
}

func TestVerify_RequiresExpiry(t *testing.T) {
	_, verifier := newPair(t, testSecret, time.Now())

	claims := accessClaims{
		Role:             string(model.RoleUser),
		RegisteredClaims: gojwt.RegisteredClaims{Issuer: testIssuer, Subject: "1"},
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, driven.ErrTokenInvalid)
}

func TestVerify_BadSubjectOrRole(t *testing.T) {
	now := time.Now()
	_, verifier := newPair(t, testSecret, now)

	tests := []struct {
		name    string
		subject string
		role    string
	}{
		{name: "non numeric subject", subject: "abc", role: "USER"},
		{name: "zero subject", subject: "0", role: "USER"},
		{name: "unknown role", subject: "1", role: "ROOT"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			claims := accessClaims{
				Role: tc.role,
				RegisteredClaims: gojwt.RegisteredClaims{
					Issuer:    testIssuer,
					Subject:   tc.subject,
					ExpiresAt: gojwt.NewNumericDate(now.Add(time.Hour)),
				},
			}
			token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(testSecret)
			require.NoError(t, err)

			_, err = verifier.Verify(token)
			assert.ErrorIs(t, err, driven.ErrTokenInvalid)
		})
	}
}

func TestConstructors_Validation(t *testing.T) {
	_, err := NewIssuer(nil, time.Hour, testIssuer)
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, err = NewIssuer(testSecret, 0, testIssuer)
	assert.Error(t, err)

	_, err = NewVerifier([]byte{}, testIssuer)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestIssue_RejectsUnsavedUser(t *testing.T) {
	issuer, _ := newPair(t, testSecret, time.Now())

	_, err := issuer.Issue(model.User{Role: model.RoleUser})
	assert.Error(t, err)
}
