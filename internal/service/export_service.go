package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/hr-attendance-api/internal/models"
	"github.com/noah-isme/hr-attendance-api/pkg/config"
	appErrors "github.com/noah-isme/hr-attendance-api/pkg/errors"
	"github.com/noah-isme/hr-attendance-api/pkg/export"
)

// ExportFormat selects the rendered document type.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportDocument is a rendered report ready to be served.
type ExportDocument struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ExportService renders the points ledger as downloadable documents.
type ExportService struct {
	points *PointService
	cfg    config.ExportsConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs the service.
func NewExportService(points *PointService, cfg config.ExportsConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{points: points, cfg: cfg, logger: logger, now: time.Now}
}

var pointExportHeaders = []string{
	"User ID", "Shift Date", "Point Type", "Points", "Expires At",
	"Expiration", "Expired", "Excused", "GBRO Batch",
}

// PointsLedger renders every point matching the filter into the requested
// format. Pagination on the filter is ignored; the export walks all pages up
// to the configured row cap.
func (s *ExportService) PointsLedger(ctx context.Context, filter models.PointFilter, format ExportFormat) (*ExportDocument, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "exports are disabled")
	}
	if format != ExportCSV && format != ExportPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	rows, err := s.collect(ctx, filter)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: pointExportHeaders, Rows: make([]map[string]string, 0, len(rows))}
	for _, p := range rows {
		dataset.Rows = append(dataset.Rows, pointExportRow(p))
	}

	stamp := s.now().UTC().Format("20060102")
	switch format {
	case ExportPDF:
		content, err := export.RenderPDF(dataset, s.cfg.PDFTitle)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportDocument{
			FileName:    fmt.Sprintf("points-ledger-%s.pdf", stamp),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		content, err := export.RenderCSV(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportDocument{
			FileName:    fmt.Sprintf("points-ledger-%s.csv", stamp),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	}
}

func (s *ExportService) collect(ctx context.Context, filter models.PointFilter) ([]models.AttendancePoint, error) {
	const pageSize = 500
	filter.PageSize = pageSize
	filter.SortBy = "shift_date"
	filter.SortOrder = "asc"

	all := make([]models.AttendancePoint, 0)
	for page := 1; ; page++ {
		filter.Page = page
		rows, _, err := s.points.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
		if s.cfg.MaxRows > 0 && len(all) >= s.cfg.MaxRows {
			s.logger.Sugar().Warnw("points export truncated", "max_rows", s.cfg.MaxRows)
			return all[:s.cfg.MaxRows], nil
		}
		if len(rows) < pageSize {
			return all, nil
		}
	}
}

func pointExportRow(p models.AttendancePoint) map[string]string {
	row := map[string]string{
		"User ID":    p.UserID,
		"Shift Date": p.ShiftDate.Format("2006-01-02"),
		"Point Type": string(p.Type),
		"Points":     strconv.FormatFloat(p.Points, 'f', 2, 64),
		"Expires At": p.ExpiresAt.Format("2006-01-02"),
		"Expiration": strings.ToUpper(string(p.ExpirationType)),
		"Expired":    strconv.FormatBool(p.IsExpired),
		"Excused":    strconv.FormatBool(p.IsExcused),
	}
	if p.GBROBatchID != nil {
		row["GBRO Batch"] = *p.GBROBatchID
	}
	return row
}
