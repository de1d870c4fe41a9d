// Package auth adapts the external identity and authorization collaborators:
// account sign-up/sign-in, session resolution, session-change notifications
// and the admin verdict.
package auth

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials covers a bad email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when signing up with a registered email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNoSession is returned when a token resolves to no live session.
	ErrNoSession = errors.New("no active session")
)

// Identity is a registered user as seen by the rest of the system.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is an authenticated client session, addressed by its token.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Provider is the identity collaborator.
type Provider interface {
	SignUp(ctx context.Context, email, password, name string) (*Identity, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	// Session resolves a token to its live session, or ErrNoSession.
	Session(ctx context.Context, token string) (*Session, error)
}

// SessionStore keeps live sessions between SignIn and SignOut.
type SessionStore interface {
	Save(ctx context.Context, s *Session) error
	Find(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}

// RoleChecker is the authorization collaborator. The verdict is queried per
// privileged call, never cached, since role data changes out of band.
type RoleChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}
