package model

import "time"

// User is the stored identity record. PasswordHash is an opaque bcrypt digest and
// must never leave the application layer; callers outside it receive users with
// PasswordHash cleared.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WithoutPassword returns a copy of u with the password hash removed.
func (u User) WithoutPassword() User {
	u.PasswordHash = ""
	return u
}

// UserUpdate carries the optional fields of a partial user update. Nil fields
// are left unchanged.
type UserUpdate struct {
	Email    *string
	Password *string
	Role     *Role
}
