package service

import (
	"sort"
	"time"

	"github.com/noah-isme/hr-attendance-api/internal/models"
)

// GroupedScans maps shift dates to the raw scans belonging to that shift.
type GroupedScans struct {
	Buckets map[time.Time][]models.BiometricScan
	// Unassigned holds scans no grouping rule claimed. They are surfaced to
	// the caller instead of being silently guessed into a bucket.
	Unassigned []models.BiometricScan
}

// GroupScans assigns each raw scan to a shift-date bucket according to the
// schedule's shift pattern. Scans are processed in ascending timestamp order
// regardless of input order.
//
// Same-day shifts claim every scan on their calendar date. Next-day shifts
// split each calendar date at the search-window threshold: at or past it the
// scan is the time-in side of that date's shift, before it the scan is the
// time-out side of the shift that started the previous date. Graveyard shifts
// use 20:00 as the in-side threshold and attribute next-date scans up to the
// scheduled time-out back to the prior shift date.
func GroupScans(scans []models.BiometricScan, schedule models.ShiftSchedule) GroupedScans {
	sorted := make([]models.BiometricScan, len(scans))
	copy(sorted, scans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ScannedAt.Before(sorted[j].ScannedAt)
	})

	pattern := ClassifyShiftPattern(schedule.TimeIn, schedule.TimeOut)
	grouped := GroupedScans{Buckets: make(map[time.Time][]models.BiometricScan)}

	for _, scan := range sorted {
		date := scan.ScanDate()
		tod := scan.TimeOfDay()

		switch {
		case !pattern.NextDay:
			grouped.add(date, scan)
		case pattern.Graveyard:
			switch {
			case tod >= pattern.Window.Start:
				grouped.add(date, scan)
			case tod <= schedule.TimeOut:
				grouped.add(date.AddDate(0, 0, -1), scan)
			default:
				grouped.Unassigned = append(grouped.Unassigned, scan)
			}
		default:
			if tod >= pattern.Window.Start {
				grouped.add(date, scan)
			} else {
				grouped.add(date.AddDate(0, 0, -1), scan)
			}
		}
	}

	return grouped
}

func (g *GroupedScans) add(shiftDate time.Time, scan models.BiometricScan) {
	g.Buckets[shiftDate] = append(g.Buckets[shiftDate], scan)
}

// ShiftDates returns the bucketed shift dates in ascending order.
func (g GroupedScans) ShiftDates() []time.Time {
	dates := make([]time.Time, 0, len(g.Buckets))
	for d := range g.Buckets {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
