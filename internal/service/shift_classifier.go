package service

import (
	"github.com/noah-isme/hr-attendance-api/internal/models"
)

// Graveyard shifts nominally start between midnight and 05:00 but are worked
// by employees who clock in the previous evening. Their time-in search window
// therefore opens at 20:00 of the prior calendar date.
const (
	graveyardCutoff  = models.MinuteOfDay(5 * 60)
	graveyardWindow  = models.MinuteOfDay(20 * 60)
	endOfDay         = models.MinuteOfDay(24 * 60)
	maxUndertimeMins = 60
)

// HourWindow is a half-open time-of-day range [Start, End).
type HourWindow struct {
	Start models.MinuteOfDay
	End   models.MinuteOfDay
}

// Contains reports whether the time of day falls inside the window.
func (w HourWindow) Contains(t models.MinuteOfDay) bool {
	return t >= w.Start && t < w.End
}

// IsZero reports an unset window (same-day shifts need none).
func (w HourWindow) IsZero() bool {
	return w.Start == 0 && w.End == 0
}

// ShiftPattern describes how a scheduled in/out pair maps onto calendar dates.
type ShiftPattern struct {
	// NextDay is true when the shift's time-out lands on the calendar date
	// after its shift date.
	NextDay bool
	// Window is the time-in search window used to tell a time-in scan apart
	// from a time-out scan near midnight. Zero for same-day shifts.
	Window HourWindow
	// Graveyard marks the 00:00-04:59 start special case: the time-in is
	// expected on the evening before the shift date.
	Graveyard bool
}

// ClassifyShiftPattern decides whether a scheduled in/out pair crosses
// midnight and which search window applies.
//
// A shift is next-day when its scheduled time-out is not after its scheduled
// time-in, or when it nominally starts between 00:00 and 04:59. The second
// clause is deliberate: a 00:00 start is clocked in the previous evening
// (20:00-23:59) and clocked out the next calendar day, so treating it as
// same-day would misattribute both scans.
func ClassifyShiftPattern(timeIn, timeOut models.MinuteOfDay) ShiftPattern {
	graveyard := timeIn < graveyardCutoff
	nextDay := timeOut <= timeIn || graveyard
	if !nextDay {
		return ShiftPattern{}
	}
	if graveyard {
		return ShiftPattern{
			NextDay:   true,
			Graveyard: true,
			Window:    HourWindow{Start: graveyardWindow, End: endOfDay},
		}
	}
	// The in-side threshold is the hour containing the scheduled time-in:
	// scans on the shift date at or past it are time-ins, scans on the next
	// date before it are time-outs attributed back to the shift date.
	return ShiftPattern{
		NextDay: true,
		Window:  HourWindow{Start: models.NewMinuteOfDay(timeIn.Hour(), 0), End: endOfDay},
	}
}
