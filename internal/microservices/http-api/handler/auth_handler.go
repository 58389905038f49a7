package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookshelf/internal/microservices/http-api/dto"
	"bookshelf/internal/microservices/http-api/middleware"
	"bookshelf/internal/microservices/http-api/service"
)

type AuthHandler struct {
	base
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService, log *zap.Logger, timeout time.Duration) *AuthHandler {
	return &AuthHandler{base: newBase(log, timeout), authService: authService}
}

// RegisterRoutes mounts the public endpoints on public and the ones that
// need a valid access token on protected.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/registro/", h.Register)
	public.POST("/login/", h.Login)
	public.POST("/refresh/", h.RefreshToken)

	protected.POST("/logout/", h.Logout)
	protected.DELETE("/cuenta/", h.DeleteAccount)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	session, err := h.authService.Register(ctx, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, authResponse(session))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	session, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, authResponse(session))
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	session, err := h.authService.RefreshAccessToken(ctx, req.RefreshToken)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RefreshResponse{
		AccessToken: session.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(session.ExpiresIn / time.Second),
	})
}

// Logout ends the current access token and, when given, the refresh token.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	var req dto.LogoutRequest
	// the body is optional
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.authService.Logout(ctx, claims, req.RefreshToken); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteAccount removes the caller with their books and ratings.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.authService.DeleteAccount(ctx, claims); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func authResponse(s *service.Session) dto.AuthResponse {
	return dto.AuthResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		UserID:       s.User.ID,
		Username:     s.User.Username,
		ExpiresIn:    int64(s.ExpiresIn / time.Second),
	}
}
