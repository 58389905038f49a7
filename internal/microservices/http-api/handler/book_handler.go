package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookshelf/internal/microservices/http-api/dto"
	"bookshelf/internal/microservices/http-api/service"
)

type BookHandler struct {
	base
	svc            service.BookService
	uploadMaxBytes int64
}

func NewBookHandler(svc service.BookService, uploadMaxBytes int64, log *zap.Logger, timeout time.Duration) *BookHandler {
	return &BookHandler{base: newBase(log, timeout), svc: svc, uploadMaxBytes: uploadMaxBytes}
}

func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.POST("/", h.Create)
	rg.GET("/:id/", h.Get)
	// PUT and DELETE are limited to the book's creator
	rg.PUT("/:id/", h.Update)
	rg.DELETE("/:id/", h.Delete)
	rg.PUT("/:id/archivo/", h.UploadFile)
}

func (h *BookHandler) List(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	list, err := h.svc.List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *BookHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	book, err := h.svc.Get(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *BookHandler) Create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var in dto.BookInput
	if !bindJSON(c, &in) {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	book, err := h.svc.Create(ctx, uid, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

func (h *BookHandler) Update(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in dto.BookInput
	if !bindJSON(c, &in) {
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	book, err := h.svc.Update(ctx, uid, id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *BookHandler) Delete(c *gin.Context) {
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

	if err := h.svc.Delete(ctx, uid, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadFile stores the multipart "file" field as the book's file.
// PUT /api/libros/:id/archivo/
func (h *BookHandler) UploadFile(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploadMaxBytes)
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"file": []string{"No file was submitted."}}})
		return
	}

	f, err := header.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()

	ctx, cancel := h.ctx(c)
	defer cancel()

	book, err := h.svc.AttachFile(ctx, uid, id, service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        f,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}
