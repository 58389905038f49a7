package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bookshelf/internal/config"
	"bookshelf/internal/microservices/http-api/dto"
	"bookshelf/internal/microservices/http-api/models"
	"bookshelf/internal/microservices/http-api/repository"
	"bookshelf/internal/middleware/auth"
)

var (
	ErrNameInUse          = errors.New("username already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
)

const tokenIssuer = "bookshelf"

// Claims is the payload of an access token. The token id (jti) is what
// logout puts on the denylist.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenDenylist remembers revoked access tokens until they expire on their own.
type TokenDenylist interface {
	Deny(ctx context.Context, tokenID string, ttl time.Duration) error
	IsDenied(ctx context.Context, tokenID string) (bool, error)
}

// Session is what a successful register, login or refresh hands back.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
	User         *models.User
}

type AuthService interface {
	Register(ctx context.Context, in dto.RegisterRequest) (*Session, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*Session, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
	Logout(ctx context.Context, claims *Claims, refreshToken string) error
	DeleteAccount(ctx context.Context, claims *Claims) error
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	denylist         TokenDenylist
	log              *zap.Logger
	jwtSecret        []byte
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
	now              func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	denylist TokenDenylist,
	cfg *config.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		denylist:         denylist,
		log:              log,
		jwtSecret:        []byte(cfg.JWTSecret),
		accessTokenTTL:   cfg.AccessTokenTTL,  // 15 minutes
		refreshTokenTTL:  cfg.RefreshTokenTTL, // 7 days
		now:              time.Now,
	}
}

// Register creates the account and logs it in.
func (s *authService) Register(ctx context.Context, in dto.RegisterRequest) (*Session, error) {
	username := strings.TrimSpace(in.Username)

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrNameInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    strings.TrimSpace(in.Email),
		Password: hashedPassword,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrNameInUse
		}
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))

	return s.issueSession(ctx, user)
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// same cost as a wrong password
		auth.BurnCompare(password)
		return nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.TouchLastLogin(ctx, user); err != nil {
		s.log.Warn("failed to record last login", zap.String("user_id", user.ID), zap.Error(err))
	}

	return s.issueSession(ctx, user)
}

// RefreshAccessToken issues a new access token; the refresh token stays valid.
func (s *authService) RefreshAccessToken(ctx context.Context, refreshTokenString string) (*Session, error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if s.now().After(refreshToken.ExpiresAt) {
		if err := s.refreshTokenRepo.Delete(ctx, refreshToken.ID); err != nil {
			s.log.Warn("failed to delete expired refresh token", zap.Error(err))
		}
		return nil, ErrExpiredToken
	}

	user, err := s.userRepo.FindByID(ctx, refreshToken.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
		ExpiresIn:    s.accessTokenTTL,
		User:         user,
	}, nil
}

// ValidateToken parses an access token and rejects it when logout denied it.
func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.ID == "" || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	denied, err := s.denylist.IsDenied(ctx, claims.ID)
	if err != nil {
		// fail closed
		return nil, fmt.Errorf("check token denylist: %w", err)
	}
	if denied {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Logout denies the current access token for the rest of its lifetime and
// revokes refreshToken when it belongs to the same user.
func (s *authService) Logout(ctx context.Context, claims *Claims, refreshToken string) error {
	if err := s.denyAccessToken(ctx, claims); err != nil {
		return err
	}

	if refreshToken == "" {
		return nil
	}
	stored, err := s.refreshTokenRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if stored.UserID != claims.UserID {
		s.log.Warn("refresh token of another user presented at logout", zap.String("user_id", claims.UserID))
		return nil
	}
	return s.refreshTokenRepo.Revoke(ctx, stored.ID)
}

// DeleteAccount removes the user with everything they created or rated.
func (s *authService) DeleteAccount(ctx context.Context, claims *Claims) error {
	if err := s.userRepo.Delete(ctx, claims.UserID); err != nil {
		return lookupErr("user", err)
	}
	s.log.Info("user deleted", zap.String("user_id", claims.UserID))
	return s.denyAccessToken(ctx, claims)
}

func (s *authService) denyAccessToken(ctx context.Context, claims *Claims) error {
	ttl := s.accessTokenTTL
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Deny(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("deny access token: %w", err)
	}
	return nil
}

func (s *authService) issueSession(ctx context.Context, user *models.User) (*Session, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}
	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.accessTokenTTL,
		User:         user,
	}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func (s *authService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	refreshToken := &models.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: s.now().Add(s.refreshTokenTTL),
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}

	return refreshToken.Token, nil
}
