package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"report-service/internal/http/middleware"
	"report-service/internal/model"
	"report-service/internal/service"
)

type Handler struct {
	reports *service.ReportService
	log     zerolog.Logger
}

func NewHandler(reports *service.ReportService, log zerolog.Logger) *Handler {
	return &Handler{reports: reports, log: log}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := r.Group("/reports")
	protected.Use(authMiddleware)

	protected.POST("", h.generateReport)
	protected.GET("", h.listReports)
	protected.GET("/:id", h.getReport)
	protected.GET("/:id/download", h.downloadReport)
}

type generateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Formats     []string `json:"formats"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	LocationID  string   `json:"location_id"`
	ZoneID      string   `json:"zone_id"`
}

func (h *Handler) generateReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	input := service.GenerateInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        model.ReportType(strings.ToUpper(strings.TrimSpace(req.Type))),
	}
	for _, f := range req.Formats {
		input.Formats = append(input.Formats, model.ReportFormat(strings.ToUpper(strings.TrimSpace(f))))
	}

	if req.StartDate != "" {
		parsed, err := parseDate(req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid start_date"))
			return
		}
		input.StartDate = parsed
	}
	if req.EndDate != "" {
		parsed, err := parseDate(req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid end_date"))
			return
		}
		input.EndDate = parsed
	}
	if req.LocationID != "" {
		id, err := uuid.Parse(req.LocationID)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid location_id"))
			return
		}
		input.LocationID = &id
	}
	if req.ZoneID != "" {
		id, err := uuid.Parse(req.ZoneID)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid zone_id"))
			return
		}
		input.ZoneID = &id
	}

	report, err := h.reports.Generate(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(report))
}

func (h *Handler) listReports(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	reports, err := h.reports.ListReports(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(reports))
}

func (h *Handler) getReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	reportID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid report id"))
		return
	}

	report, err := h.reports.GetReport(c.Request.Context(), principal, reportID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(report))
}

func (h *Handler) downloadReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	reportID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid report id"))
		return
	}

	format := model.ReportFormat(strings.ToUpper(strings.TrimSpace(c.Query("format"))))

	download, err := h.reports.Download(c.Request.Context(), principal, reportID, format)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.Data(http.StatusOK, download.ContentType, download.Data)
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRange), errors.Is(err, service.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrScopeViolation):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{"data": data}
}

func errorResponse(message string) gin.H {
	return gin.H{"error": message}
}
