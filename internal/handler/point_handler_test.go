package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hr-attendance-api/internal/models"
	"github.com/noah-isme/hr-attendance-api/internal/service"
	appErrors "github.com/noah-isme/hr-attendance-api/pkg/errors"
)

type pointManagerMock struct {
	listFilter models.PointFilter
	excusedID  string
	excusedBy  string
	excuseErr  error
	removed    int
}

func (m *pointManagerMock) List(ctx context.Context, filter models.PointFilter) ([]models.AttendancePoint, *models.Pagination, error) {
	m.listFilter = filter
	return nil, &models.Pagination{Page: 1, PageSize: 50}, nil
}

func (m *pointManagerMock) Excuse(ctx context.Context, id, excusedBy, reason string) (*models.AttendancePoint, error) {
	m.excusedID = id
	m.excusedBy = excusedBy
	if m.excuseErr != nil {
		return nil, m.excuseErr
	}
	return &models.AttendancePoint{ID: id, IsExcused: true}, nil
}

func (m *pointManagerMock) CleanupDuplicates(ctx context.Context) (int, error) {
	return m.removed, nil
}

type expirationRunnerMock struct {
	opts       service.ExpirationOptions
	filter     models.ResetFilter
	resetCount int
}

func (m *expirationRunnerMock) ProcessExpirations(ctx context.Context, opts service.ExpirationOptions) (*models.ExpirationSummary, error) {
	m.opts = opts
	return &models.ExpirationSummary{SROExpired: 1, DryRun: opts.DryRun}, nil
}

func (m *expirationRunnerMock) ResetExpired(ctx context.Context, filter models.ResetFilter) (int, error) {
	m.filter = filter
	return m.resetCount, nil
}

func TestPointListFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &pointManagerMock{}
	h := &PointHandler{points: mockSvc}

	req, _ := http.NewRequest(http.MethodGet, "/points?userId=emp-1&pointType=whole_day_absence&expired=false", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "emp-1", mockSvc.listFilter.UserID)
	require.NotNil(t, mockSvc.listFilter.Type)
	require.Equal(t, models.PointWholeDayAbsence, *mockSvc.listFilter.Type)
	require.NotNil(t, mockSvc.listFilter.Expired)
	require.False(t, *mockSvc.listFilter.Expired)
}

func TestPointListRejectsUnknownType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &PointHandler{points: &pointManagerMock{}}

	req, _ := http.NewRequest(http.MethodGet, "/points?pointType=demerit", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.List(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPointExcuse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &pointManagerMock{}
	h := &PointHandler{points: mockSvc}

	payload := []byte(`{"excusedBy":"hr-1","reason":"approved makeup shift"}`)
	req, _ := http.NewRequest(http.MethodPost, "/points/p-1/excuse", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "p-1"}}

	h.Excuse(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "p-1", mockSvc.excusedID)
	require.Equal(t, "hr-1", mockSvc.excusedBy)
}

func TestPointExcuseNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &pointManagerMock{excuseErr: appErrors.ErrNotFound}
	h := &PointHandler{points: mockSvc}

	payload := []byte(`{"excusedBy":"hr-1","reason":"approved makeup shift"}`)
	req, _ := http.NewRequest(http.MethodPost, "/points/missing/excuse", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.Excuse(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRunExpirationsDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	runner := &expirationRunnerMock{}
	h := &PointHandler{expirations: runner, defaultNotify: true}

	req, _ := http.NewRequest(http.MethodPost, "/points/expirations/run", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.RunExpirations(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.False(t, runner.opts.DryRun)
	require.True(t, runner.opts.Notify)
}

func TestRunExpirationsBodyOverridesNotify(t *testing.T) {
	gin.SetMode(gin.TestMode)
	runner := &expirationRunnerMock{}
	h := &PointHandler{expirations: runner, defaultNotify: true}

	payload := []byte(`{"dryRun":true,"notify":false}`)
	req, _ := http.NewRequest(http.MethodPost, "/points/expirations/run", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.RunExpirations(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, runner.opts.DryRun)
	require.False(t, runner.opts.Notify)
}

func TestRunExpirationsQueryParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	runner := &expirationRunnerMock{}
	h := &PointHandler{expirations: runner, defaultNotify: true}

	req, _ := http.NewRequest(http.MethodPost, "/points/expirations/run?dryRun=true&notify=false", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.RunExpirations(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, runner.opts.DryRun)
	require.False(t, runner.opts.Notify)
}

func TestResetExpiredBuildsFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	runner := &expirationRunnerMock{resetCount: 3}
	h := &PointHandler{expirations: runner}

	payload := []byte(`{"userId":"emp-1","pointType":"tardy","from":"2026-01-01","to":"2026-06-30"}`)
	req, _ := http.NewRequest(http.MethodPost, "/points/expired/reset", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.ResetExpired(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "emp-1", runner.filter.UserID)
	require.NotNil(t, runner.filter.Type)
	require.Equal(t, models.PointTardy, *runner.filter.Type)
	require.Contains(t, w.Body.String(), `"reset":3`)
}

func TestCleanupDuplicates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &PointHandler{points: &pointManagerMock{removed: 2}}

	req, _ := http.NewRequest(http.MethodPost, "/points/duplicates/cleanup", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.CleanupDuplicates(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"removed":2`)
}
