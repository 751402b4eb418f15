package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clipnote/internal/auth"
	"clipnote/internal/models"
	"clipnote/internal/store"
)

const minPasswordLength = 6

// Session is what register and login hand back to the client.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthService registers users and issues their tokens.
type AuthService struct {
	users  store.UserStore
	tokens *auth.JWTManager
}

func NewAuthService(users store.UserStore, tokens *auth.JWTManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a user. A taken username yields store.ErrDuplicate.
func (s *AuthService) Register(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", models.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters long: %w", minPasswordLength, models.ErrValidation)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Username: username, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user %q: %w", username, err)
	}
	return s.session(user)
}

// Login checks the credentials. Unknown users and wrong passwords both
// yield models.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", models.ErrValidation)
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
		}
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
	}
	return s.session(user)
}

func (s *AuthService) session(user *models.User) (*Session, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Token: token, User: user}, nil
}
