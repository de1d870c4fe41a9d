package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/foodkart/backend/internal/entity"
	"github.com/foodkart/backend/internal/messaging"
	"github.com/foodkart/backend/internal/repository"
)

// LocalProvider implements Provider against the users table, with bcrypt
// password hashes, HS256-signed session tokens and a pluggable session
// store. Session changes are published on the sessions topic.
type LocalProvider struct {
	users    repository.UserRepository
	sessions SessionStore
	events   messaging.Publisher
	secret   []byte
	ttl      time.Duration
}

// NewLocalProvider wires a LocalProvider. ttl bounds both the token and the
// stored session.
func NewLocalProvider(users repository.UserRepository, sessions SessionStore, events messaging.Publisher, secret []byte, ttl time.Duration) *LocalProvider {
	return &LocalProvider{
		users:    users,
		sessions: sessions,
		events:   events,
		secret:   secret,
		ttl:      ttl,
	}
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password, name string) (*Identity, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	if _, err := p.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := p.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("User signed up", "user_id", user.ID)
	return &Identity{ID: user.ID, Email: user.Email, Name: user.Name}, nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := p.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().UTC().Add(p.ttl)
	token, err := p.signToken(user, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	session := &Session{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: expiresAt,
	}
	if err := p.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	p.notify(ctx, entity.SessionChanged{
		UserID: user.ID,
		Token:  token,
		Change: "signed_in",
		At:     time.Now().UTC(),
	})

	slog.Info("User signed in", "user_id", user.ID)
	return session, nil
}

func (p *LocalProvider) SignOut(ctx context.Context, token string) error {
	session, err := p.sessions.Find(ctx, token)
	if errors.Is(err, ErrNoSession) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up session: %w", err)
	}

	if err := p.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	p.notify(ctx, entity.SessionChanged{
		UserID: session.UserID,
		Token:  token,
		Change: "signed_out",
		At:     time.Now().UTC(),
	})

	slog.Info("User signed out", "user_id", session.UserID)
	return nil
}

func (p *LocalProvider) Session(ctx context.Context, token string) (*Session, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, ErrNoSession
	}

	// The store is authoritative: a valid token whose session was deleted
	// (sign-out) no longer resolves.
	session, err := p.sessions.Find(ctx, token)
	if errors.Is(err, ErrNoSession) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	return session, nil
}

func (p *LocalProvider) signToken(user *entity.User, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		ID:        uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

// notify publishes a session change. Delivery is best-effort: a dropped
// notification never fails the auth operation itself.
func (p *LocalProvider) notify(ctx context.Context, event entity.SessionChanged) {
	if p.events == nil {
		return
	}
	if err := p.events.PublishEvent(ctx, messaging.TopicSessions, event.UserID, event); err != nil {
		slog.Error("Failed to publish session change", "user_id", event.UserID, "err", err)
	}
}
