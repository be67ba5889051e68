package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is what the API needs to know about a validated token.
type Claims struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}

type TokenService struct {
	secretKey     []byte
	issuer        string
	tokenDuration time.Duration
	userRepo      domain.UserRepository
	denylist      TokenDenylist
}

func NewTokenService(secretKey string, issuer string, tokenDuration time.Duration, userRepo domain.UserRepository, denylist TokenDenylist) *TokenService {
	return &TokenService{
		secretKey:     []byte(secretKey),
		issuer:        issuer,
		tokenDuration: tokenDuration,
		userRepo:      userRepo,
		denylist:      denylist,
	}
}

func (s *TokenService) TokenDuration() time.Duration {
	return s.tokenDuration
}

func (s *TokenService) GenerateToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   userID,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("token service: failed to sign token: %w", err)
	}

	return signedToken, nil
}

func (s *TokenService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	var rc jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &rc, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	if rc.Subject == "" || rc.ID == "" || rc.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing claims", domain.ErrInvalidToken)
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(ctx, rc.ID)
		if err != nil {
			return nil, fmt.Errorf("token service: denylist lookup: %w", err)
		}
		if revoked {
			return nil, domain.ErrTokenRevoked
		}
	}

	if _, err := s.userRepo.GetByID(ctx, rc.Subject); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", domain.ErrInvalidToken)
		}
		return nil, fmt.Errorf("token service: user lookup: %w", err)
	}

	return &Claims{
		UserID:    rc.Subject,
		TokenID:   rc.ID,
		ExpiresAt: rc.ExpiresAt.Time,
	}, nil
}

// Revoke denylists the token for the rest of its lifetime.
func (s *TokenService) Revoke(ctx context.Context, claims *Claims) error {
	if s.denylist == nil || claims == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return fmt.Errorf("token service: revoke: %w", err)
	}
	return nil
}
