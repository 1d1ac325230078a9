package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hr-attendance-api/internal/models"
	appErrors "github.com/noah-isme/hr-attendance-api/pkg/errors"
)

type pointRepoStub struct {
	created   []models.AttendancePoint
	conflict  bool
	byID      map[string]models.AttendancePoint
	excuseOK  bool
	excuseErr error
	removed   int
}

func (s *pointRepoStub) Create(ctx context.Context, q sqlx.ExtContext, point *models.AttendancePoint) (bool, error) {
	if s.conflict {
		return false, nil
	}
	s.created = append(s.created, *point)
	return true, nil
}

func (s *pointRepoStub) List(ctx context.Context, filter models.PointFilter) ([]models.AttendancePoint, int, error) {
	out := make([]models.AttendancePoint, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (s *pointRepoStub) FindByID(ctx context.Context, id string) (*models.AttendancePoint, error) {
	if p, ok := s.byID[id]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func (s *pointRepoStub) Excuse(ctx context.Context, id, excusedBy, reason string, at time.Time) (bool, error) {
	if s.excuseErr != nil {
		return false, s.excuseErr
	}
	return s.excuseOK, nil
}

func (s *pointRepoStub) CleanupDuplicates(ctx context.Context) (int, error) {
	return s.removed, nil
}

func attendanceWith(t *testing.T, status models.AttendanceStatus, secondary *models.AttendanceStatus) *models.Attendance {
	t.Helper()
	return &models.Attendance{
		ID:              "att-1",
		EmployeeID:      "emp-1",
		ShiftDate:       date(t, "2026-03-02"),
		Status:          status,
		SecondaryStatus: secondary,
	}
}

func TestBuildPointMapping(t *testing.T) {
	svc := NewPointService(&pointRepoStub{}, 6, 12, nil)

	cases := []struct {
		status  models.AttendanceStatus
		want    models.PointType
		points  float64
		expType models.ExpirationType
	}{
		{models.StatusNCNS, models.PointWholeDayAbsence, 1.00, models.ExpirationNone},
		{models.StatusHalfDayAbsence, models.PointHalfDayAbsence, 0.50, models.ExpirationSRO},
		{models.StatusAdvisedAbsence, models.PointHalfDayAbsence, 0.50, models.ExpirationSRO},
		{models.StatusUndertimeMoreThan1Hr, models.PointUndertimeMoreThan1Hr, 0.50, models.ExpirationSRO},
		{models.StatusUndertime, models.PointUndertime, 0.25, models.ExpirationSRO},
		{models.StatusTardy, models.PointTardy, 0.25, models.ExpirationSRO},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			point := svc.BuildPoint(attendanceWith(t, tc.status, nil))
			require.NotNil(t, point)
			assert.Equal(t, tc.want, point.Type)
			assert.Equal(t, tc.points, point.Points)
			assert.Equal(t, tc.expType, point.ExpirationType)
		})
	}
}

func TestBuildPointNoViolation(t *testing.T) {
	svc := NewPointService(&pointRepoStub{}, 6, 12, nil)
	for _, status := range []models.AttendanceStatus{
		models.StatusOnTime, models.StatusOnLeave, models.StatusNonWorkDay,
		models.StatusFailedBioIn, models.StatusFailedBioOut,
		models.StatusNeedsManualReview, models.StatusPresentNoBio,
	} {
		assert.Nil(t, svc.BuildPoint(attendanceWith(t, status, nil)), string(status))
	}
}

func TestBuildPointSetHomeSuppressed(t *testing.T) {
	svc := NewPointService(&pointRepoStub{}, 6, 12, nil)
	att := attendanceWith(t, models.StatusUndertimeMoreThan1Hr, nil)
	att.IsSetHome = true
	assert.Nil(t, svc.BuildPoint(att))
}

func TestBuildPointSecondaryStatusFallsThrough(t *testing.T) {
	svc := NewPointService(&pointRepoStub{}, 6, 12, nil)
	secondary := models.StatusUndertime
	att := attendanceWith(t, models.StatusFailedBioIn, &secondary)
	point := svc.BuildPoint(att)
	require.NotNil(t, point)
	assert.Equal(t, models.PointUndertime, point.Type)
}

// A tardy day with undertime riding along charges only the tardy: the
// primary status decides and the secondary never adds a second point.
func TestBuildPointChargesPrimaryOnly(t *testing.T) {
	svc := NewPointService(&pointRepoStub{}, 6, 12, nil)
	secondary := models.StatusUndertime
	point := svc.BuildPoint(attendanceWith(t, models.StatusTardy, &secondary))
	require.NotNil(t, point)
	assert.Equal(t, models.PointTardy, point.Type)
}

func TestBuildPointExpirationWindows(t *testing.T) {
	svc := NewPointService(&pointRepoStub{}, 6, 12, nil)
	shiftDate := date(t, "2026-03-02")

	ncns := svc.BuildPoint(attendanceWith(t, models.StatusNCNS, nil))
	require.NotNil(t, ncns)
	assert.False(t, ncns.EligibleForGBRO)
	assert.Equal(t, models.ExpirationNone, ncns.ExpirationType)
	assert.Equal(t, shiftDate.AddDate(0, 12, 0), ncns.ExpiresAt)

	tardy := svc.BuildPoint(attendanceWith(t, models.StatusTardy, nil))
	require.NotNil(t, tardy)
	assert.True(t, tardy.EligibleForGBRO)
	assert.Equal(t, shiftDate.AddDate(0, 6, 0), tardy.ExpiresAt)
}

func TestAccrueIdempotent(t *testing.T) {
	repo := &pointRepoStub{conflict: true}
	svc := NewPointService(repo, 6, 12, nil)

	point, err := svc.Accrue(context.Background(), nil, attendanceWith(t, models.StatusTardy, nil))
	require.NoError(t, err)
	assert.Nil(t, point)
	assert.Empty(t, repo.created)
}

func TestAccrueCreates(t *testing.T) {
	repo := &pointRepoStub{}
	svc := NewPointService(repo, 6, 12, nil)

	point, err := svc.Accrue(context.Background(), nil, attendanceWith(t, models.StatusTardy, nil))
	require.NoError(t, err)
	require.NotNil(t, point)
	require.Len(t, repo.created, 1)
	assert.Equal(t, models.PointTardy, repo.created[0].Type)
}

func TestExcuseNotFound(t *testing.T) {
	svc := NewPointService(&pointRepoStub{byID: map[string]models.AttendancePoint{}}, 6, 12, nil)
	_, err := svc.Excuse(context.Background(), "missing", "hr-1", "approved appeal")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExcuseAlreadyExcused(t *testing.T) {
	repo := &pointRepoStub{
		byID: map[string]models.AttendancePoint{
			"p-1": {ID: "p-1", IsExcused: true},
		},
	}
	svc := NewPointService(repo, 6, 12, nil)
	_, err := svc.Excuse(context.Background(), "p-1", "hr-1", "appeal")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAlreadyExcused.Code, appErrors.FromError(err).Code)
}

func TestExcuseAlreadyExpired(t *testing.T) {
	repo := &pointRepoStub{
		byID: map[string]models.AttendancePoint{
			"p-1": {ID: "p-1", IsExpired: true},
		},
	}
	svc := NewPointService(repo, 6, 12, nil)
	_, err := svc.Excuse(context.Background(), "p-1", "hr-1", "appeal")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAlreadyExpired.Code, appErrors.FromError(err).Code)
}

func TestExcuseSucceeds(t *testing.T) {
	repo := &pointRepoStub{
		excuseOK: true,
		byID: map[string]models.AttendancePoint{
			"p-1": {ID: "p-1", IsExcused: true},
		},
	}
	svc := NewPointService(repo, 6, 12, nil)
	point, err := svc.Excuse(context.Background(), "p-1", "hr-1", "appeal")
	require.NoError(t, err)
	assert.Equal(t, "p-1", point.ID)
}
