package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookshelf/database"
	"bookshelf/internal/cache"
	"bookshelf/internal/config"
	"bookshelf/internal/microservices/http-api/handler"
	"bookshelf/internal/microservices/http-api/middleware"
	"bookshelf/internal/microservices/http-api/repository"
	"bookshelf/internal/microservices/http-api/service"
	"bookshelf/internal/reports"
	"bookshelf/internal/storage"
	"bookshelf/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	zlog, err := logger.NewLogger(cfg.ServiceName, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("could not create logger: %v", err)
	}
	defer zlog.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		zlog.Info("running database migrations")
		if err := database.Migrate(db.DB); err != nil {
			zlog.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	// Access-token denylist: Redis when configured, process memory otherwise
	var denylist service.TokenDenylist
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			zlog.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		denylist = cache.NewRedisDenylist(rdb)
	} else {
		zlog.Warn("REDIS_URL not set, revoked access tokens are only tracked in memory")
		denylist = cache.NewMemoryDenylist()
	}

	var files service.FileStore
	if cfg.StorageEnabled() {
		s3, err := storage.NewS3Store(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKeyID, cfg.S3SecretAccessKey)
		if err != nil {
			zlog.Fatal("failed to configure S3 storage", zap.Error(err))
		}
		files = s3
		zlog.Info("book file uploads enabled", zap.String("bucket", cfg.S3Bucket))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db.DB)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db.DB)
	genreRepo := repository.NewGenreRepo(db.DB)
	authorRepo := repository.NewAuthorRepository(db.DB)
	bookRepo := repository.NewBookRepository(db.DB)
	ratingRepo := repository.NewRatingRepository(db.DB)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, denylist, cfg, zlog)
	genreService := service.NewGenreService(genreRepo)
	authorService := service.NewAuthorService(authorRepo)
	bookService := service.NewBookService(bookRepo, genreRepo, authorRepo, ratingRepo, files, zlog)
	ratingService := service.NewRatingService(ratingRepo, bookRepo)

	engine := reports.NewEngine(repository.NewReportRepository(db.DB))

	limiter := middleware.NewRateLimiter(cfg.ReportRateLimit, cfg.ReportRateBurst)
	go limiter.Run(ctx, time.Minute, 10*time.Minute)

	router := handler.NewRouter(handler.Routes{
		Auth:        handler.NewAuthHandler(authService, zlog, cfg.RequestTimeout),
		Genres:      handler.NewGenreHandler(genreService, zlog, cfg.RequestTimeout),
		Authors:     handler.NewAuthorHandler(authorService, zlog, cfg.RequestTimeout),
		Books:       handler.NewBookHandler(bookService, cfg.UploadMaxBytes, zlog, cfg.RequestTimeout),
		Ratings:     handler.NewRatingHandler(ratingService, zlog, cfg.RequestTimeout),
		Reports:     handler.NewReportHandler(engine.Reports(), reports.DefaultStyle(), zlog, cfg.RequestTimeout),
		Health:      handler.NewHealthHandler(db, zlog),
		Tokens:      authService,
		RateLimiter: limiter,
		Metrics:     cfg.PrometheusEnabled,

		TrustedProxies: cfg.TrustedProxies,
	}, zlog)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		zlog.Info("shutting down server")
	case err := <-errCh:
		zlog.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown error", zap.Error(err))
	}
	zlog.Info("server stopped")
}
