package service

import (
	"time"

	"github.com/noah-isme/hr-attendance-api/internal/models"
)

// StatusInputs collects everything the state machine needs for one
// (employee, shift_date) evaluation.
type StatusInputs struct {
	Schedule  models.ShiftSchedule
	ShiftDate time.Time
	TimeIn    *models.BiometricScan
	TimeOut   *models.BiometricScan
	// HasUnassignedScans marks a shift date whose raw scans matched no
	// search window. The employee was present at a device, so the absence
	// branch must not charge them.
	HasUnassignedScans bool
	IsAdvised          bool
	IsSetHome          bool
	OnLeave            bool
}

// StatusResult is the engine's verdict plus derived minute counts.
type StatusResult struct {
	Status           models.AttendanceStatus
	SecondaryStatus  *models.AttendanceStatus
	TardyMinutes     int
	UndertimeMinutes int
	OvertimeMinutes  int
	IsCrossSiteBio   bool
}

// StatusEngine maps (schedule, resolved times, flags) to one attendance
// status. Ambiguous or failure cases route to needs_manual_review and are
// never auto-resolved to a punitive status.
type StatusEngine struct {
	// HalfDayThresholdMinutes is the lateness beyond which a tardy becomes a
	// half-day absence.
	HalfDayThresholdMinutes int
	// CrossSiteManualReview routes cross-site biometric mismatches to manual
	// review instead of charging a punitive status.
	CrossSiteManualReview bool
}

// NewStatusEngine builds an engine with sane defaults.
func NewStatusEngine(halfDayThreshold int, crossSiteReview bool) StatusEngine {
	if halfDayThreshold <= 0 {
		halfDayThreshold = 240
	}
	return StatusEngine{
		HalfDayThresholdMinutes: halfDayThreshold,
		CrossSiteManualReview:   crossSiteReview,
	}
}

// Evaluate runs the state table once for a finalized shift-date bucket.
func (e StatusEngine) Evaluate(in StatusInputs) StatusResult {
	if !in.Schedule.WorksOn(in.ShiftDate.Weekday()) {
		return StatusResult{Status: models.StatusNonWorkDay}
	}
	if in.OnLeave {
		return StatusResult{Status: models.StatusOnLeave}
	}

	if in.TimeIn == nil && in.TimeOut == nil {
		if in.HasUnassignedScans {
			// Scans exist but matched no window; a human decides which
			// shift they belong to before anyone gets charged.
			return StatusResult{Status: models.StatusNeedsManualReview}
		}
		if in.IsAdvised {
			return StatusResult{Status: models.StatusAdvisedAbsence}
		}
		return StatusResult{Status: models.StatusNCNS}
	}

	if in.TimeIn == nil {
		result := StatusResult{Status: models.StatusFailedBioIn}
		result.IsCrossSiteBio = e.crossSite(in)
		return result
	}

	scheduledIn, scheduledOut := scheduledBounds(in.Schedule, in.ShiftDate)

	result := StatusResult{}
	lateMinutes := wholeMinutes(in.TimeIn.ScannedAt.Sub(scheduledIn))
	if lateMinutes < 0 {
		lateMinutes = 0
	}

	switch {
	case lateMinutes <= in.Schedule.GracePeriodMinutes:
		result.Status = models.StatusOnTime
	case lateMinutes <= e.HalfDayThresholdMinutes:
		result.Status = models.StatusTardy
		result.TardyMinutes = lateMinutes
	default:
		result.Status = models.StatusHalfDayAbsence
		result.TardyMinutes = lateMinutes
	}

	if in.TimeOut == nil {
		// Missing clock-out demotes an on-time day outright; otherwise it
		// rides along as a secondary status.
		if result.Status == models.StatusOnTime {
			result.Status = models.StatusFailedBioOut
		} else {
			secondary := models.StatusFailedBioOut
			result.SecondaryStatus = &secondary
		}
	} else {
		earlyMinutes := wholeMinutes(scheduledOut.Sub(in.TimeOut.ScannedAt))
		switch {
		case in.IsSetHome:
			// Sent-home employees are on time for disciplinary purposes.
		case earlyMinutes > maxUndertimeMins:
			e.applyUndertime(&result, models.StatusUndertimeMoreThan1Hr, earlyMinutes)
		case earlyMinutes > 0:
			e.applyUndertime(&result, models.StatusUndertime, earlyMinutes)
		default:
			result.OvertimeMinutes = -earlyMinutes
		}
	}

	if e.crossSite(in) {
		result.IsCrossSiteBio = true
		if e.CrossSiteManualReview {
			result.SecondaryStatus = nil
			return StatusResult{
				Status:         models.StatusNeedsManualReview,
				IsCrossSiteBio: true,
			}
		}
		// Flag-only policy: a clean day scanned at the wrong site reads as
		// present without a home-site bio. Punitive findings stand as-is.
		if result.Status == models.StatusOnTime && result.SecondaryStatus == nil {
			result.Status = models.StatusPresentNoBio
		}
	}

	return result
}

func (e StatusEngine) applyUndertime(result *StatusResult, status models.AttendanceStatus, minutes int) {
	result.UndertimeMinutes = minutes
	if result.Status == models.StatusOnTime {
		result.Status = status
		return
	}
	result.SecondaryStatus = &status
}

func (e StatusEngine) crossSite(in StatusInputs) bool {
	home := in.Schedule.SiteID
	if home == "" {
		return false
	}
	inMismatch := in.TimeIn != nil && in.TimeIn.SiteID != "" && in.TimeIn.SiteID != home
	outMismatch := in.TimeOut != nil && in.TimeOut.SiteID != "" && in.TimeOut.SiteID != home
	return inMismatch || outMismatch
}

// scheduledBounds anchors the scheduled in/out times onto concrete dates.
// Graveyard shifts anchor the nominal time-in on the date after the shift
// date, since the expected clock-in happens the evening before it.
func scheduledBounds(schedule models.ShiftSchedule, shiftDate time.Time) (time.Time, time.Time) {
	pattern := ClassifyShiftPattern(schedule.TimeIn, schedule.TimeOut)
	inDate := shiftDate
	outDate := shiftDate
	if pattern.Graveyard {
		inDate = shiftDate.AddDate(0, 0, 1)
	}
	if pattern.NextDay {
		outDate = shiftDate.AddDate(0, 0, 1)
	}
	return schedule.TimeIn.On(inDate), schedule.TimeOut.On(outDate)
}

func wholeMinutes(d time.Duration) int {
	return int(d / time.Minute)
}
