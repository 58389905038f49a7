package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookshelf/internal/microservices/http-api/dto"
	"bookshelf/internal/microservices/http-api/service"
)

type RatingHandler struct {
	base
	ratingService service.RatingService
}

func NewRatingHandler(ratingService service.RatingService, log *zap.Logger, timeout time.Duration) *RatingHandler {
	return &RatingHandler{
		base:          newBase(log, timeout),
		ratingService: ratingService,
	}
}

// RegisterRoutes registers rating-related routes
func (h *RatingHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/", h.List)
	router.POST("/", h.Create)
	router.GET("/:id/", h.Get)
	// owner only
	router.PUT("/:id/", h.Update)
	router.DELETE("/:id/", h.Delete)
}

// List returns every rating
// GET /api/puntuaciones/
func (h *RatingHandler) List(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	ratings, err := h.ratingService.List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ratings)
}

// GET /api/puntuaciones/:id/
func (h *RatingHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	rating, err := h.ratingService.Get(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// Create rates a book as the current user
// POST /api/puntuaciones/
func (h *RatingHandler) Create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req dto.RatingInput
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	rating, err := h.ratingService.Create(ctx, uid, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, rating)
}

// PUT /api/puntuaciones/:id/
func (h *RatingHandler) Update(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.RatingInput
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	rating, err := h.ratingService.Update(ctx, uid, id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// DELETE /api/puntuaciones/:id/
func (h *RatingHandler) Delete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.ratingService.Delete(ctx, uid, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
