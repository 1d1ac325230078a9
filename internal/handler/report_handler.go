package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hr-attendance-api/internal/dto"
	"github.com/noah-isme/hr-attendance-api/internal/models"
	"github.com/noah-isme/hr-attendance-api/internal/service"
	appErrors "github.com/noah-isme/hr-attendance-api/pkg/errors"
	"github.com/noah-isme/hr-attendance-api/pkg/response"
)

type pointExporter interface {
	PointsLedger(ctx context.Context, filter models.PointFilter, format service.ExportFormat) (*service.ExportDocument, error)
}

// ReportHandler serves downloadable point reports.
type ReportHandler struct {
	exports pointExporter
}

// NewReportHandler constructs the handler.
func NewReportHandler(exports *service.ExportService) *ReportHandler {
	return &ReportHandler{exports: exports}
}

// ExportPoints godoc
// @Summary Export the points ledger
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "Export format (csv or pdf)" default(csv)
// @Param userId query string false "User ID"
// @Param pointType query string false "Point type"
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {file} file
// @Router /reports/points/export [get]
func (h *ReportHandler) ExportPoints(c *gin.Context) {
	var query dto.PointQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}

	filter := models.PointFilter{
		UserID:  query.UserID,
		Expired: query.Expired,
		Excused: query.Excused,
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

	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportCSV)))
	doc, err := h.exports.PointsLedger(c.Request.Context(), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}
