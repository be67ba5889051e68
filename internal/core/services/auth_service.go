package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/comitanigiacomo/liftbook/internal/core/session"
	"github.com/google/uuid"
)

type AuthService struct {
	repo   domain.UserRepository
	tokens *TokenService
	hub    SessionPublisher
}

func NewAuthService(repo domain.UserRepository, tokens *TokenService, hub SessionPublisher) *AuthService {
	if hub == nil {
		hub = noopPublisher{}
	}
	return &AuthService{
		repo:   repo,
		tokens: tokens,
		hub:    hub,
	}
}

type RegisterInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresIn time.Duration
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	id := uuid.NewString()
	user, err := domain.NewUser(id, input.Email)
	if err != nil {
		return nil, err
	}

	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth service: failed to create user: %w", err)
	}

	s.hub.Publish(session.Event{Type: session.SignedUp, UserID: user.ID})
	return user, nil
}

// Login never tells apart an unknown email from a wrong password.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth service: failed to load user: %w", err)
	}

	if err := user.CheckPassword(input.Password); err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.hub.Publish(session.Event{Type: session.SignedIn, UserID: user.ID})
	return &LoginResult{
		User:      user,
		Token:     token,
		ExpiresIn: s.tokens.TokenDuration(),
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil {
		return domain.ErrNotAuthenticated
	}
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		return err
	}

	s.hub.Publish(session.Event{Type: session.SignedOut, UserID: claims.UserID})
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return s.repo.GetByID(ctx, userID)
}
