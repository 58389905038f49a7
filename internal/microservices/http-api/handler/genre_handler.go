package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookshelf/internal/microservices/http-api/dto"
	"bookshelf/internal/microservices/http-api/service"
)

type GenreHandler struct {
	base
	svc service.GenreService
}

func NewGenreHandler(svc service.GenreService, log *zap.Logger, timeout time.Duration) *GenreHandler {
	return &GenreHandler{base: newBase(log, timeout), svc: svc}
}

func (h *GenreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.POST("/", h.Create)
	rg.GET("/:id/", h.Get)
	rg.PUT("/:id/", h.Update)
	rg.DELETE("/:id/", h.Delete)
}

func (h *GenreHandler) List(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	list, err := h.svc.List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp := make([]dto.GenreResponse, 0, len(list))
	for _, g := range list {
		resp = append(resp, dto.GenreFromModel(g))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GenreHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	g, err := h.svc.Get(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GenreFromModel(*g))
}

func (h *GenreHandler) Create(c *gin.Context) {
	var in dto.GenreInput
	if !bindJSON(c, &in) {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	g, err := h.svc.Create(ctx, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.GenreFromModel(*g))
}

func (h *GenreHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in dto.GenreInput
	if !bindJSON(c, &in) {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	g, err := h.svc.Update(ctx, id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GenreFromModel(*g))
}

// Delete also removes the genre's books and their ratings.
func (h *GenreHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
