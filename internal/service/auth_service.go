package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"chat-relay-server/internal/domain"
)

// ErrUnauthenticated is returned when a token resolves to no session.
var ErrUnauthenticated = errors.New("unauthenticated")

// AuthService provides registration, login, and token resolution.
type AuthService struct {
	users    IUserRepository
	sessions ISessionStore
	ttl      time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users IUserRepository, sessions ISessionStore, ttl SessionTTL) *AuthService {
	return &AuthService{users: users, sessions: sessions, ttl: time.Duration(ttl)}
}

// SessionTTL is the lifetime of an issued session token.
type SessionTTL time.Duration

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, username, name, email, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}
	existing, err := s.users.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("username is already taken")
	}

	user, err := domain.NewUser(username, name, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates a user and issues an opaque session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		return "", err
	}
	if user == nil || !user.CheckPassword(password) {
		return "", errors.New("invalid credentials")
	}

	token := uuid.NewString()
	if err := s.sessions.Put(ctx, token, user.Username, s.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Logout revokes a session token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// Identify resolves a session token to the username it was issued for.
// Returns ErrUnauthenticated when the token is unknown or expired.
func (s *AuthService) Identify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthenticated
	}
	username, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return "", err
	}
	if username == "" {
		return "", ErrUnauthenticated
	}
	return username, nil
}
