package model

import "time"

// Claims is the decoded payload of an access token.
type Claims struct {
	SubjectID int64
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Principal is the request-scoped identity attached by the access guard after a
// token has been verified. It lives only for the duration of one request.
type Principal struct {
	UserID int64
	Role   Role
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanAccessUser reports whether the principal may read or modify the user with the given id.
func (p Principal) CanAccessUser(userID int64) bool {
	return p.IsAdmin() || p.UserID == userID
}
