package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hr-attendance-api/internal/dto"
	"github.com/noah-isme/hr-attendance-api/internal/models"
	"github.com/noah-isme/hr-attendance-api/internal/service"
	appErrors "github.com/noah-isme/hr-attendance-api/pkg/errors"
	"github.com/noah-isme/hr-attendance-api/pkg/response"
)

type pointManager interface {
	List(ctx context.Context, filter models.PointFilter) ([]models.AttendancePoint, *models.Pagination, error)
	Excuse(ctx context.Context, id, excusedBy, reason string) (*models.AttendancePoint, error)
	CleanupDuplicates(ctx context.Context) (int, error)
}

type expirationRunner interface {
	ProcessExpirations(ctx context.Context, opts service.ExpirationOptions) (*models.ExpirationSummary, error)
	ResetExpired(ctx context.Context, filter models.ResetFilter) (int, error)
}

// PointHandler exposes the points ledger and its lifecycle operations.
type PointHandler struct {
	points        pointManager
	expirations   expirationRunner
	defaultNotify bool
}

// NewPointHandler constructs the handler. defaultNotify supplies the notify
// behaviour when a run request leaves it unset.
func NewPointHandler(points *service.PointService, expirations *service.ExpirationService, defaultNotify bool) *PointHandler {
	return &PointHandler{points: points, expirations: expirations, defaultNotify: defaultNotify}
}

// List godoc
// @Summary List attendance points
// @Tags Points
// @Produce json
// @Param userId query string false "User ID"
// @Param pointType query string false "Point type"
// @Param expired query bool false "Filter by expired state"
// @Param excused query bool false "Filter by excused state"
// @Success 200 {object} response.Envelope
// @Router /points [get]
func (h *PointHandler) List(c *gin.Context) {
	var query dto.PointQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid point query"))
		return
	}

	filter := models.PointFilter{
		UserID:    query.UserID,
		Expired:   query.Expired,
		Excused:   query.Excused,
		Page:      query.Page,
		PageSize:  query.PageSize,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	}
	if query.PointType != "" {
		pointType := models.PointType(query.PointType)
		if !pointType.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown point type"))
			return
		}
		filter.Type = &pointType
	}
	var err error
	if filter.DateFrom, err = parseDate(query.From); err != nil {
		response.Error(c, err)
		return
	}
	if filter.DateTo, err = parseDate(query.To); err != nil {
		response.Error(c, err)
		return
	}

	rows, pagination, err := h.points.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination)
}

// Excuse godoc
// @Summary Excuse an active point
// @Description Permanently waives the point. Excused points never expire through either roll-off rule.
// @Tags Points
// @Accept json
// @Produce json
// @Param id path string true "Point ID"
// @Param payload body dto.ExcusePointRequest true "Excuse payload"
// @Success 200 {object} response.Envelope
// @Router /points/{id}/excuse [post]
func (h *PointHandler) Excuse(c *gin.Context) {
	var req dto.ExcusePointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid excuse payload"))
		return
	}
	point, err := h.points.Excuse(c.Request.Context(), c.Param("id"), req.ExcusedBy, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, point, nil)
}

// RunExpirations godoc
// @Summary Run the SRO and GBRO expiration sweep
// @Tags Points
// @Accept json
// @Produce json
// @Param payload body dto.RunExpirationRequest false "Run options"
// @Success 200 {object} response.Envelope
// @Router /points/expirations/run [post]
func (h *PointHandler) RunExpirations(c *gin.Context) {
	req := dto.RunExpirationRequest{}
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid expiration run payload"))
			return
		}
	}
	if raw := c.Query("dryRun"); raw != "" {
		req.DryRun = raw == "true" || raw == "1"
	}
	if raw := c.Query("notify"); raw != "" {
		v := raw == "true" || raw == "1"
		req.Notify = &v
	}
	notify := h.defaultNotify
	if req.Notify != nil {
		notify = *req.Notify
	}
	summary, err := h.expirations.ProcessExpirations(c.Request.Context(), service.ExpirationOptions{
		DryRun: req.DryRun,
		Notify: notify,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// ResetExpired godoc
// @Summary Recompute expiry dates on expired points
// @Description Restores matched expired points to active with expiry recomputed from the shift date under current policy.
// @Tags Points
// @Accept json
// @Produce json
// @Param payload body dto.ResetExpiredRequest false "Reset filter"
// @Success 200 {object} response.Envelope
// @Router /points/expired/reset [post]
func (h *PointHandler) ResetExpired(c *gin.Context) {
	req := dto.ResetExpiredRequest{}
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reset payload"))
			return
		}
	}

	filter := models.ResetFilter{UserID: req.UserID}
	if req.PointType != "" {
		pointType := models.PointType(req.PointType)
		if !pointType.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown point type"))
			return
		}
		filter.Type = &pointType
	}
	var err error
	if filter.DateFrom, err = parseDate(req.From); err != nil {
		response.Error(c, err)
		return
	}
	if filter.DateTo, err = parseDate(req.To); err != nil {
		response.Error(c, err)
		return
	}

	count, err := h.expirations.ResetExpired(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"reset": count}, nil)
}

// CleanupDuplicates godoc
// @Summary Remove duplicate points sharing a uniqueness key
// @Tags Points
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /points/duplicates/cleanup [post]
func (h *PointHandler) CleanupDuplicates(c *gin.Context) {
	removed, err := h.points.CleanupDuplicates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"removed": removed}, nil)
}
