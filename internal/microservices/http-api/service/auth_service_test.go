package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bookshelf/internal/config"
	"bookshelf/internal/microservices/http-api/dto"
	"bookshelf/internal/microservices/http-api/models"
	"bookshelf/internal/middleware/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestAuthService() (*authService, *MockUserRepository, *MockRefreshTokenRepository, *MockDenylist) {
	users := new(MockUserRepository)
	tokens := new(MockRefreshTokenRepository)
	denylist := new(MockDenylist)
	cfg := &config.Config{
		JWTSecret:       testSecret,
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
	svc := NewAuthService(users, tokens, denylist, cfg, testLogger).(*authService)
	svc.now = func() time.Time { return fixedNow }
	return svc, users, tokens, denylist
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := auth.HashPassword(password)
	require.NoError(t, err)
	return h
}

func TestRegister_Success(t *testing.T) {
	svc, users, tokens, denylist := newTestAuthService()
	ctx := context.Background()

	users.On("FindByUsername", ctx, "testuser").Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)
	tokens.On("Create", ctx, mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	session, err := svc.Register(ctx, dto.RegisterRequest{Username: " testuser ", Password: "password123", Email: "test@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "testuser", session.User.Username)
	assert.NotEmpty(t, session.User.ID)
	assert.NotEqual(t, "password123", session.User.Password)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, 15*time.Minute, session.ExpiresIn)

	denylist.On("IsDenied", ctx, mock.AnythingOfType("string")).Return(false, nil)
	claims, err := svc.ValidateToken(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID)
	assert.Equal(t, "testuser", claims.Username)
	assert.WithinDuration(t, fixedNow.Add(15*time.Minute), claims.ExpiresAt.Time, 0)

	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestRegister_UsernameExists(t *testing.T) {
	svc, users, _, _ := newTestAuthService()
	ctx := context.Background()

	users.On("FindByUsername", ctx, "taken").Return(&models.User{ID: "u1", Username: "taken"}, nil)

	_, err := svc.Register(ctx, dto.RegisterRequest{Username: "taken", Password: "password123"})
	assert.ErrorIs(t, err, ErrNameInUse)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_ConcurrentDuplicate(t *testing.T) {
	svc, users, _, _ := newTestAuthService()
	ctx := context.Background()

	users.On("FindByUsername", ctx, "racer").Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", ctx, mock.Anything).Return(gorm.ErrDuplicatedKey)

	_, err := svc.Register(ctx, dto.RegisterRequest{Username: "racer", Password: "password123"})
	assert.ErrorIs(t, err, ErrNameInUse)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	user := &models.User{ID: "u1", Username: "ana", Password: hashed(t, "password123")}

	t.Run("success", func(t *testing.T) {
		svc, users, tokens, _ := newTestAuthService()
		users.On("FindByUsername", ctx, "ana").Return(user, nil)
		users.On("TouchLastLogin", ctx, user).Return(nil)
		tokens.On("Create", ctx, mock.MatchedBy(func(rt *models.RefreshToken) bool {
			return rt.UserID == "u1" && rt.ExpiresAt.Equal(fixedNow.Add(7*24*time.Hour))
		})).Return(nil)

		session, err := svc.Login(ctx, "ana", "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, session.AccessToken)
		assert.Same(t, user, session.User)
		tokens.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, users, _, _ := newTestAuthService()
		users.On("FindByUsername", ctx, "ana").Return(user, nil)

		_, err := svc.Login(ctx, "ana", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, users, _, _ := newTestAuthService()
		users.On("FindByUsername", ctx, "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Login(ctx, "ghost", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("last login failure is not fatal", func(t *testing.T) {
		svc, users, tokens, _ := newTestAuthService()
		users.On("FindByUsername", ctx, "ana").Return(user, nil)
		users.On("TouchLastLogin", ctx, user).Return(errors.New("db down"))
		tokens.On("Create", ctx, mock.Anything).Return(nil)

		_, err := svc.Login(ctx, "ana", "password123")
		assert.NoError(t, err)
	})
}

func TestValidateToken(t *testing.T) {
	ctx := context.Background()
	user := &models.User{ID: "u1", Username: "ana"}

	t.Run("denied after logout", func(t *testing.T) {
		svc, _, _, denylist := newTestAuthService()
		token, err := svc.generateAccessToken(user)
		require.NoError(t, err)
		denylist.On("IsDenied", ctx, mock.Anything).Return(true, nil)

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("denylist unavailable", func(t *testing.T) {
		svc, _, _, denylist := newTestAuthService()
		token, err := svc.generateAccessToken(user)
		require.NoError(t, err)
		denylist.On("IsDenied", ctx, mock.Anything).Return(false, errors.New("redis down"))

		_, err = svc.ValidateToken(ctx, token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		svc, _, _, _ := newTestAuthService()
		token, err := svc.generateAccessToken(user)
		require.NoError(t, err)
		svc.now = func() time.Time { return fixedNow.Add(time.Hour) }

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		svc, _, _, _ := newTestAuthService()
		claims := Claims{
			UserID: "u1",
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "jti",
				Issuer:    tokenIssuer,
				ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Minute)),
			},
		}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("another-secret-another-secret-xx"))
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, forged)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		svc, _, _, _ := newTestAuthService()
		claims := Claims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{ID: "jti", Issuer: tokenIssuer}}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, unsigned)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		svc, _, _, _ := newTestAuthService()
		_, err := svc.ValidateToken(ctx, "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRefreshAccessToken(t *testing.T) {
	ctx := context.Background()

	t.Run("success keeps refresh token", func(t *testing.T) {
		svc, users, tokens, _ := newTestAuthService()
		stored := &models.RefreshToken{ID: "rt1", UserID: "u1", Token: "refresh", ExpiresAt: fixedNow.Add(time.Hour)}
		tokens.On("FindByToken", ctx, "refresh").Return(stored, nil)
		users.On("FindByID", ctx, "u1").Return(&models.User{ID: "u1", Username: "ana"}, nil)

		session, err := svc.RefreshAccessToken(ctx, "refresh")
		require.NoError(t, err)
		assert.NotEmpty(t, session.AccessToken)
		assert.Equal(t, "refresh", session.RefreshToken)
	})

	t.Run("unknown", func(t *testing.T) {
		svc, _, tokens, _ := newTestAuthService()
		tokens.On("FindByToken", ctx, "nope").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.RefreshAccessToken(ctx, "nope")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired is deleted", func(t *testing.T) {
		svc, _, tokens, _ := newTestAuthService()
		stored := &models.RefreshToken{ID: "rt1", UserID: "u1", Token: "old", ExpiresAt: fixedNow.Add(-time.Second)}
		tokens.On("FindByToken", ctx, "old").Return(stored, nil)
		tokens.On("Delete", ctx, "rt1").Return(nil)

		_, err := svc.RefreshAccessToken(ctx, "old")
		assert.ErrorIs(t, err, ErrExpiredToken)
		tokens.AssertExpectations(t)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	claims := &Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			ExpiresAt: jwt.NewNumericDate(fixedNow.Add(10 * time.Minute)),
		},
	}

	t.Run("denies access token and revokes refresh token", func(t *testing.T) {
		svc, _, tokens, denylist := newTestAuthService()
		denylist.On("Deny", ctx, "jti-1", 10*time.Minute).Return(nil)
		tokens.On("FindByToken", ctx, "refresh").Return(&models.RefreshToken{ID: "rt1", UserID: "u1"}, nil)
		tokens.On("Revoke", ctx, "rt1").Return(nil)

		require.NoError(t, svc.Logout(ctx, claims, "refresh"))
		denylist.AssertExpectations(t)
		tokens.AssertExpectations(t)
	})

	t.Run("ignores another user's refresh token", func(t *testing.T) {
		svc, _, tokens, denylist := newTestAuthService()
		denylist.On("Deny", ctx, "jti-1", mock.Anything).Return(nil)
		tokens.On("FindByToken", ctx, "theirs").Return(&models.RefreshToken{ID: "rt2", UserID: "u2"}, nil)

		require.NoError(t, svc.Logout(ctx, claims, "theirs"))
		tokens.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
	})

	t.Run("denylist failure surfaces", func(t *testing.T) {
		svc, _, _, denylist := newTestAuthService()
		denylist.On("Deny", ctx, "jti-1", mock.Anything).Return(errors.New("redis down"))

		assert.Error(t, svc.Logout(ctx, claims, ""))
	})
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	claims := &Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Minute)),
		},
	}

	svc, users, _, denylist := newTestAuthService()
	users.On("Delete", ctx, "u1").Return(nil)
	denylist.On("Deny", ctx, "jti-1", time.Minute).Return(nil)

	require.NoError(t, svc.DeleteAccount(ctx, claims))
	users.AssertExpectations(t)
	denylist.AssertExpectations(t)
}
