package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/moonboard/backend/internal/export"
	"github.com/moonboard/backend/internal/relay"
	"github.com/moonboard/backend/internal/schema"
	"github.com/moonboard/backend/internal/service"
)

type Handler struct {
	Dashboard service.Dashboard
	Relay     relay.Forwarder
	Validator *validator.Validate
	Logger    zerolog.Logger
	// RefreshTimeout bounds a manual refresh, which keeps running if the
	// client goes away.
	RefreshTimeout time.Duration
}

type PageQuery struct {
	Limit  int `form:"limit" validate:"gte=0,lte=1000"`
	Offset int `form:"offset" validate:"gte=0"`
}

type ChatRequest struct {
	Message          string `json:"message" validate:"required,max=4000"`
	Timestamp        string `json:"timestamp"`
	DashboardContext string `json:"dashboard_context"`
	UserSession      string `json:"user_session"`
}

// ErrorResponse documents the error envelope written by writeError.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
}

// @Summary Liveness and snapshot readiness
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	_, ok := h.Dashboard.Current()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "snapshot": ok})
}

// @Summary Current dashboard snapshot
// @Description Metrics and validated records from the last completed ingestion cycle
// @Tags dashboard
// @Produce json
// @Success 200 {object} service.View
// @Failure 503 {object} ErrorResponse
// @Router /api/dashboard [get]
func (h *Handler) DashboardView(c *gin.Context) {
	view, ok := h.Dashboard.Current()
	if !ok {
		writeError(c, http.StatusServiceUnavailable, "NO_SNAPSHOT", "Dashboard data is not ready yet", nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Filtered metrics
// @Description Recomputes metrics over records matching the query parameters (field=value)
// @Tags dashboard
// @Produce json
// @Success 200 {object} service.View
// @Failure 400 {object} ErrorResponse
// @Router /api/metrics [get]
func (h *Handler) Metrics(c *gin.Context) {
	view, err := h.Dashboard.Query(criteria(c))
	if err != nil {
		h.writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cycle_id":     view.CycleID,
		"kind":         view.Kind,
		"source":       view.Source,
		"completed_at": view.CompletedAt,
		"count":        view.Count,
		"metrics":      view.Metrics,
	})
}

// @Summary Filtered records
// @Tags dashboard
// @Produce json
// @Param limit query int false "page size (0 = all)"
// @Param offset query int false "offset"
// @Success 200 {object} map[string]any
// @Router /api/records [get]
func (h *Handler) Records(c *gin.Context) {
	var page PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid paging parameters", err.Error())
		return
	}
	if err := h.Validator.Struct(page); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	items, err := h.Dashboard.Records(criteria(c))
	if err != nil {
		h.writeQueryError(c, err)
		return
	}
	total := len(items)
	items = paginate(items, page.Limit, page.Offset)
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total, "limit": page.Limit, "offset": page.Offset})
}

// @Summary Export records as xlsx
// @Description Filtered records of the current snapshot as a spreadsheet
// @Tags dashboard
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /api/export.xlsx [get]
func (h *Handler) Export(c *gin.Context) {
	filters := criteria(c)
	view, items, err := h.Dashboard.Select(filters)
	if err != nil {
		h.writeQueryError(c, err)
		return
	}
	rows := make([]export.Record, len(items))
	for i, item := range items {
		rows[i] = item
	}

	file, err := export.Workbook(h.Dashboard.Schema(), export.Meta{
		CycleID:     view.CycleID,
		Kind:        view.Kind,
		Source:      view.Source,
		CompletedAt: view.CompletedAt,
		Filters:     filters,
	}, rows)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "EXPORT_ERROR", "Export failed", err.Error())
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("%s-%s.xlsx", view.Kind, view.CompletedAt.UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Content-Type", export.ContentType)
	if err := file.Write(c.Writer); err != nil {
		h.Logger.Error().Err(err).Msg("write xlsx export")
	}
}

// @Summary Active dataset schema
// @Tags dashboard
// @Produce json
// @Success 200 {object} schema.Schema
// @Router /api/schema [get]
func (h *Handler) Schema(c *gin.Context) {
	c.JSON(http.StatusOK, h.Dashboard.Schema())
}

// @Summary Latest ingestion cycle
// @Tags runs
// @Produce json
// @Success 200 {object} models.Run
// @Failure 404 {object} ErrorResponse
// @Router /api/runs/latest [get]
func (h *Handler) RunsLatest(c *gin.Context) {
	run, ok := h.Dashboard.LatestRun()
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "No runs found", nil)
		return
	}
	c.JSON(http.StatusOK, run)
}

// @Summary Refresh now
// @Description Runs a full fetch, validate and aggregate cycle
// @Tags runs
// @Produce json
// @Param X-Admin-Key header string false "admin key"
// @Success 200 {object} models.Run
// @Failure 401 {object} ErrorResponse
// @Router /api/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	ctx := context.WithoutCancel(c.Request.Context())
	if h.RefreshTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.RefreshTimeout)
		defer cancel()
	}
	run, err := h.Dashboard.Refresh(ctx)
	if err != nil {
		h.Logger.Error().Err(err).Msg("manual refresh failed")
		writeError(c, http.StatusInternalServerError, "REFRESH_ERROR", "Refresh failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, run)
}

// @Summary Chat relay
// @Description Forwards a chat widget message to the configured webhook
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ChatRequest true "message"
// @Success 200 {object} map[string]any
// @Failure 502 {object} ErrorResponse
// @Router /api/chat [post]
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	if req.Timestamp == "" {
		req.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	if req.DashboardContext == "" {
		req.DashboardContext = "analytics_dashboard"
	}

	payload, _ := json.Marshal(req)
	out, err := h.Relay.Forward(c.Request.Context(), payload)
	if err != nil {
		h.Logger.Error().Err(err).Msg("chat relay failed")
		status := http.StatusBadGateway
		if errors.Is(err, relay.ErrNotConfigured) {
			status = http.StatusServiceUnavailable
		} else if errors.Is(err, relay.ErrTimeout) {
			status = http.StatusGatewayTimeout
		}
		writeError(c, status, "RELAY_ERROR", "Could not reach the assistant webhook", err.Error())
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", out)
}

func (h *Handler) writeQueryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoSnapshot):
		writeError(c, http.StatusServiceUnavailable, "NO_SNAPSHOT", "Dashboard data is not ready yet", nil)
	case errors.Is(err, schema.ErrUnknownField):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown filter field", err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "QUERY_ERROR", "Query failed", err.Error())
	}
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// criteria collects field=value filters from the query string.
func criteria(c *gin.Context) map[string]string {
	out := map[string]string{}
	for key, values := range c.Request.URL.Query() {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "limit" || key == "offset" || len(values) == 0 {
			continue
		}
		out[key] = values[0]
	}
	return out
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
