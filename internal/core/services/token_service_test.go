package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTokenService_GenerateAndValidate(t *testing.T) {
	secret := "super-secret-key-for-testing"
	issuer := "liftbook-test"
	userID := "user-123-uuid"
	ctx := context.Background()

	setup := func() (*TokenService, *MockUserRepository, *MockDenylist) {
		repo := new(MockUserRepository)
		denylist := new(MockDenylist)
		return NewTokenService(secret, issuer, time.Hour, repo, denylist), repo, denylist
	}

	t.Run("Success: Should generate and validate a token", func(t *testing.T) {
		service, repo, denylist := setup()

		repo.On("GetByID", mock.Anything, userID).Return(&domain.User{ID: userID}, nil)
		denylist.On("IsRevoked", mock.Anything, mock.Anything).Return(false, nil)

		tokenString, err := service.GenerateToken(userID)
		require.NoError(t, err)

		claims, err := service.ValidateToken(ctx, tokenString)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.NotEmpty(t, claims.TokenID)
		assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 2*time.Second)

		repo.AssertExpectations(t)
	})

	t.Run("Success: Every token gets its own id", func(t *testing.T) {
		service, repo, denylist := setup()
		repo.On("GetByID", mock.Anything, userID).Return(&domain.User{ID: userID}, nil)
		denylist.On("IsRevoked", mock.Anything, mock.Anything).Return(false, nil)

		a, _ := service.GenerateToken(userID)
		b, _ := service.GenerateToken(userID)
		ca, _ := service.ValidateToken(ctx, a)
		cb, _ := service.ValidateToken(ctx, b)

		assert.NotEqual(t, ca.TokenID, cb.TokenID)
	})

	t.Run("Fail: Should reject a revoked token", func(t *testing.T) {
		service, _, denylist := setup()
		denylist.On("IsRevoked", mock.Anything, mock.Anything).Return(true, nil)

		tokenString, _ := service.GenerateToken(userID)

		claims, err := service.ValidateToken(ctx, tokenString)
		assert.ErrorIs(t, err, domain.ErrTokenRevoked)
		assert.Nil(t, claims)
	})

	t.Run("Fail: Should reject valid token if user is deleted", func(t *testing.T) {
		service, repo, denylist := setup()
		denylist.On("IsRevoked", mock.Anything, mock.Anything).Return(false, nil)
		repo.On("GetByID", mock.Anything, userID).Return(nil, domain.ErrUserNotFound)

		tokenString, _ := service.GenerateToken(userID)

		_, err := service.ValidateToken(ctx, tokenString)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
		assert.Contains(t, err.Error(), "user no longer exists")
	})

	t.Run("Fail: Database errors are not reported as bad tokens", func(t *testing.T) {
		service, repo, denylist := setup()
		denylist.On("IsRevoked", mock.Anything, mock.Anything).Return(false, nil)
		repo.On("GetByID", mock.Anything, userID).Return(nil, errors.New("connection refused"))

		tokenString, _ := service.GenerateToken(userID)

		_, err := service.ValidateToken(ctx, tokenString)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("Fail: Should reject expired token", func(t *testing.T) {
		service := NewTokenService(secret, issuer, -time.Second, new(MockUserRepository), new(MockDenylist))

		tokenString, err := service.GenerateToken(userID)
		require.NoError(t, err)

		_, err = service.ValidateToken(ctx, tokenString)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
		assert.Contains(t, err.Error(), "token is expired")
	})

	t.Run("Fail: Should reject token with wrong secret", func(t *testing.T) {
		service, _, _ := setup()
		tokenString, _ := service.GenerateToken(userID)

		attacker := NewTokenService("wrong-key", issuer, time.Hour, new(MockUserRepository), new(MockDenylist))

		_, err := attacker.ValidateToken(ctx, tokenString)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("Fail: Should reject token with wrong issuer", func(t *testing.T) {
		a := NewTokenService(secret, "correct-issuer", time.Hour, new(MockUserRepository), new(MockDenylist))
		b := NewTokenService(secret, "wrong-issuer", time.Hour, new(MockUserRepository), new(MockDenylist))
		tokenString, _ := a.GenerateToken(userID)

		_, err := b.ValidateToken(ctx, tokenString)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("Fail: Should reject 'None' algorithm attack", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			ID:        "jti",
			Subject:   userID,
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		fake, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)

		service, _, _ := setup()
		_, err := service.ValidateToken(ctx, fake)

		assert.ErrorIs(t, err, domain.ErrInvalidToken)
		assert.Contains(t, err.Error(), "unexpected signing method")
	})

	t.Run("Fail: Should reject malformed token string", func(t *testing.T) {
		service, _, _ := setup()

		_, err := service.ValidateToken(ctx, "this-is-not-a-jwt")
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})
}

func TestTokenService_Revoke(t *testing.T) {
	repo := new(MockUserRepository)
	denylist := new(MockDenylist)
	service := NewTokenService("secret", "issuer", time.Hour, repo, denylist)

	t.Run("Success: Denylists for the remaining lifetime", func(t *testing.T) {
		claims := &Claims{TokenID: "jti-1", ExpiresAt: time.Now().Add(30 * time.Minute)}
		denylist.On("Revoke", mock.Anything, "jti-1", mock.MatchedBy(func(ttl time.Duration) bool {
			return ttl > 29*time.Minute && ttl <= 30*time.Minute
		})).Return(nil).Once()

		assert.NoError(t, service.Revoke(context.Background(), claims))
		denylist.AssertExpectations(t)
	})

	t.Run("Success: Expired tokens need no entry", func(t *testing.T) {
		claims := &Claims{TokenID: "jti-2", ExpiresAt: time.Now().Add(-time.Minute)}

		assert.NoError(t, service.Revoke(context.Background(), claims))
		denylist.AssertNotCalled(t, "Revoke", mock.Anything, "jti-2", mock.Anything)
	})
}
