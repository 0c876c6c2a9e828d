package domain

import "time"

// Identity is the authentication record held by the identity provider.
type Identity struct {
	UserID string
	Email  string
}

// Session is an authenticated session issued by the identity provider.
type Session struct {
	ID        string
	UserID    string
	Email     string
	Token     string
	ExpiresAt time.Time
}

// Actor is the caller of a usecase operation.
type Actor struct {
	UserID  string
	Role    Role
	Session *Session
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsSelf reports whether userID is the identity behind the actor's session.
func (a Actor) IsSelf(userID string) bool {
	return a.Session != nil && a.Session.UserID == userID
}
