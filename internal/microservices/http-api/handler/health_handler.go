package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether a dependency answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	base
	db Pinger
}

func NewHealthHandler(db Pinger, log *zap.Logger) *HealthHandler {
	return &HealthHandler{base: newBase(log, 2*time.Second), db: db}
}

// CheckConn answers 200 while the database is reachable.
// GET /check-conn
func (h *HealthHandler) CheckConn(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn("database ping failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
}
