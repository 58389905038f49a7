package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookshelf/internal/metrics"
	"bookshelf/internal/microservices/http-api/middleware"
)

// Routes groups the handlers and shared middleware the API is built from.
type Routes struct {
	Auth    *AuthHandler
	Genres  *GenreHandler
	Authors *AuthorHandler
	Books   *BookHandler
	Ratings *RatingHandler
	Reports *ReportHandler
	Health  *HealthHandler

	Tokens      middleware.TokenValidator
	RateLimiter *middleware.RateLimiter
	Metrics     bool
	// TrustedProxies may set the client address through forwarding
	// headers. Nil means the socket peer is always the client.
	TrustedProxies []string
}

// NewRouter builds the gin engine serving the whole API.
func NewRouter(r Routes, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(r.TrustedProxies); err != nil {
		log.Warn("invalid trusted proxies, ignoring forwarding headers", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}
	engine.Use(middleware.Recovery(log), middleware.RequestLogger(log), middleware.Metrics())

	engine.GET("/check-conn", r.Health.CheckConn)
	if r.Metrics {
		engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	charts := engine.Group("/")
	if r.RateLimiter != nil {
		charts.Use(middleware.RateLimit(r.RateLimiter))
	}
	r.Reports.RegisterRoutes(charts)

	requireAuth := middleware.AuthMiddleware(r.Tokens)
	api := engine.Group("/api")

	r.Auth.RegisterRoutes(api.Group("/auth"), api.Group("/auth", requireAuth))

	protected := api.Group("", requireAuth)
	r.Genres.RegisterRoutes(protected.Group("/generos"))
	r.Authors.RegisterRoutes(protected.Group("/autores"))
	r.Books.RegisterRoutes(protected.Group("/libros"))
	r.Ratings.RegisterRoutes(protected.Group("/puntuaciones"))

	return engine
}
