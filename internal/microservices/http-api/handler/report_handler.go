package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookshelf/internal/metrics"
	"bookshelf/internal/reports"
)

// InsufficientDataMessage is served as text/plain when a report has nothing to draw.
const InsufficientDataMessage = "No hay datos suficientes para generar el gráfico."

// ReportPaths maps each public chart URL to the report it serves.
var ReportPaths = map[string]string{
	"/libros-por-genero/":           reports.KeyBooksPerGenre,
	"/promedio-puntuacion-libros/":  reports.KeyAverageRatingPerBook,
	"/promedio-puntuacion-autores/": reports.KeyAverageRatingPerAuthor,
	"/libros-por-nacionalidad/":     reports.KeyBooksPerNationality,
	"/libros-por-usuario/":          reports.KeyBooksPerUser,
}

type ReportHandler struct {
	base
	reports map[string]reports.Report
	style   reports.Style
}

func NewReportHandler(list []reports.Report, style reports.Style, log *zap.Logger, timeout time.Duration) *ReportHandler {
	byKey := make(map[string]reports.Report, len(list))
	for _, r := range list {
		byKey[r.Key] = r
	}
	return &ReportHandler{base: newBase(log, timeout), reports: byKey, style: style}
}

// RegisterRoutes mounts one GET per entry of ReportPaths.
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	for path, key := range ReportPaths {
		rep, ok := h.reports[key]
		if !ok {
			h.log.Warn("report not available", zap.String("report", key))
			continue
		}
		rg.GET(path, h.serve(rep))
	}
}

func (h *ReportHandler) serve(rep reports.Report) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := h.ctx(c)
		defer cancel()
		start := time.Now()

		series, err := rep.Build(ctx)
		if errors.Is(err, reports.ErrInsufficientData) {
			metrics.RecordReportRender(rep.Key, metrics.OutcomeInsufficientData, time.Since(start))
			c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(InsufficientDataMessage))
			return
		}
		if err != nil {
			metrics.RecordReportRender(rep.Key, metrics.OutcomeError, time.Since(start))
			h.fail(c, err)
			return
		}

		img, err := reports.Render(series, rep.Chart, h.style)
		if err != nil {
			metrics.RecordReportRender(rep.Key, metrics.OutcomeError, time.Since(start))
			h.fail(c, err)
			return
		}
		metrics.RecordReportRender(rep.Key, metrics.OutcomeOK, time.Since(start))

		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, img.ContentType, img.Data)
	}
}
