package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookshelf/internal/microservices/http-api/dto"
	"bookshelf/internal/microservices/http-api/service"
)

type AuthorHandler struct {
	base
	svc service.AuthorService
}

func NewAuthorHandler(svc service.AuthorService, log *zap.Logger, timeout time.Duration) *AuthorHandler {
	return &AuthorHandler{base: newBase(log, timeout), svc: svc}
}

func (h *AuthorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.POST("/", h.Create)
	rg.GET("/:id/", h.Get)
	rg.PUT("/:id/", h.Update)
	rg.DELETE("/:id/", h.Delete)
}

func (h *AuthorHandler) List(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	list, err := h.svc.List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp := make([]dto.AuthorResponse, 0, len(list))
	for _, a := range list {
		resp = append(resp, dto.AuthorFromModel(a))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthorHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	a, err := h.svc.Get(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AuthorFromModel(*a))
}

func (h *AuthorHandler) Create(c *gin.Context) {
	var in dto.AuthorInput
	if !bindJSON(c, &in) {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	a, err := h.svc.Create(ctx, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.AuthorFromModel(*a))
}

func (h *AuthorHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in dto.AuthorInput
	if !bindJSON(c, &in) {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	a, err := h.svc.Update(ctx, id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AuthorFromModel(*a))
}

func (h *AuthorHandler) Delete(c *gin.Context) {
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
