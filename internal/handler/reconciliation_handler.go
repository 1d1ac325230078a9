package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hr-attendance-api/internal/dto"
	"github.com/noah-isme/hr-attendance-api/internal/models"
	"github.com/noah-isme/hr-attendance-api/internal/service"
	appErrors "github.com/noah-isme/hr-attendance-api/pkg/errors"
	"github.com/noah-isme/hr-attendance-api/pkg/response"
)

type reconciler interface {
	Run(ctx context.Context, req dto.RunReconciliationRequest) (*service.ReconciliationSummary, error)
	ListAttendance(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, *models.Pagination, error)
}

// ReconciliationHandler exposes the scan-to-attendance pipeline.
type ReconciliationHandler struct {
	service reconciler
}

// NewReconciliationHandler constructs the handler.
func NewReconciliationHandler(svc *service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{service: svc}
}

// Run godoc
// @Summary Reconcile biometric scans into attendance rows
// @Description Rebuilds attendance for the given employees and date range. Idempotent; existing rows are refreshed in place.
// @Tags Reconciliation
// @Accept json
// @Produce json
// @Param payload body dto.RunReconciliationRequest true "Reconciliation run payload"
// @Success 200 {object} response.Envelope
// @Router /reconciliation/run [post]
func (h *ReconciliationHandler) Run(c *gin.Context) {
	var req dto.RunReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reconciliation payload"))
		return
	}
	summary, err := h.service.Run(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// ListAttendance godoc
// @Summary List reconciled attendance rows
// @Tags Attendance
// @Produce json
// @Param employeeId query string false "Employee ID"
// @Param status query string false "Attendance status"
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *ReconciliationHandler) ListAttendance(c *gin.Context) {
	var query dto.AttendanceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance query"))
		return
	}

	filter := models.AttendanceFilter{
		EmployeeID: query.EmployeeID,
		Page:       query.Page,
		PageSize:   query.PageSize,
		SortBy:     query.SortBy,
		SortOrder:  query.SortOrder,
	}
	if query.Status != "" {
		status := models.AttendanceStatus(query.Status)
		if !status.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown attendance status"))
			return
		}
		filter.Status = &status
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

	rows, pagination, err := h.service.ListAttendance(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination)
}

// parseDate parses an optional YYYY-MM-DD query value.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dates must be YYYY-MM-DD")
	}
	return &t, nil
}
