package service

import (
	"time"

	"github.com/noah-isme/hr-attendance-api/internal/models"
)

// ResolvedTimes holds the chosen time-in and time-out scans for one shift
// date. Either side may be nil when no scan satisfied its criterion.
type ResolvedTimes struct {
	TimeIn  *models.BiometricScan
	TimeOut *models.BiometricScan
}

// ResolveTimeInOut picks the time-in and time-out scans within one shift-date
// bucket.
//
// Same-day buckets never mix two shifts' events, so the earliest scan is the
// time-in and the latest the time-out, with no hour restriction: an employee
// clocking in arbitrarily late is still identified correctly. A bucket with a
// single scan resolves to a time-in with the time-out absent.
//
// Next-day buckets combine scans from two calendar dates, so each side is
// restricted to its half of the search window: a naive earliest/latest pick
// would occasionally promote a stray double-scan to the wrong side when the
// shift runs close to 24 hours.
func ResolveTimeInOut(shiftDate time.Time, bucket []models.BiometricScan, schedule models.ShiftSchedule) ResolvedTimes {
	if len(bucket) == 0 {
		return ResolvedTimes{}
	}

	pattern := ClassifyShiftPattern(schedule.TimeIn, schedule.TimeOut)
	if !pattern.NextDay {
		resolved := ResolvedTimes{TimeIn: &bucket[0]}
		if len(bucket) > 1 {
			resolved.TimeOut = &bucket[len(bucket)-1]
		}
		return resolved
	}

	nextDate := shiftDate.AddDate(0, 0, 1)
	var resolved ResolvedTimes
	for i := range bucket {
		scan := &bucket[i]
		date := scan.ScanDate()
		tod := scan.TimeOfDay()

		onInSide := date.Equal(shiftDate) && tod >= pattern.Window.Start
		var onOutSide bool
		if pattern.Graveyard {
			onOutSide = date.Equal(nextDate) && tod <= schedule.TimeOut
		} else {
			onOutSide = date.Equal(nextDate) && tod < pattern.Window.Start
		}

		switch {
		case onInSide:
			if resolved.TimeIn == nil || scan.ScannedAt.Before(resolved.TimeIn.ScannedAt) {
				resolved.TimeIn = scan
			}
		case onOutSide:
			if resolved.TimeOut == nil || scan.ScannedAt.After(resolved.TimeOut.ScannedAt) {
				resolved.TimeOut = scan
			}
		}
	}
	return resolved
}
