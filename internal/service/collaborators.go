package service

import (
	"context"
	"time"

	"github.com/noah-isme/hr-attendance-api/internal/models"
)

// LeaveDeduction reports the outcome of a leave-credit deduction. A partial
// deduction converts the uncovered remainder to an unpaid category.
type LeaveDeduction struct {
	Requested float64
	Deducted  float64
	Remainder float64
}

// Partial reports whether the balance only covered part of the request.
func (d LeaveDeduction) Partial() bool {
	return d.Remainder > 0
}

// LeaveCreditService is the external leave-credit ledger. The points engine
// does not own leave-credit math; it only needs to know whether an absence
// is excused by approved leave before generating a point.
type LeaveCreditService interface {
	CreditsAvailable(ctx context.Context, userID string) (float64, error)
	Deduct(ctx context.Context, userID string, days float64) (LeaveDeduction, error)
	HasApprovedLeave(ctx context.Context, userID string, date time.Time) (bool, error)
}

// Notifier delivers expiration notices. Delivery is an external concern;
// the engine only decides when to call it.
type Notifier interface {
	NotifyPointsExpired(ctx context.Context, points []models.AttendancePoint) error
}

// NopNotifier drops all notifications.
type NopNotifier struct{}

// NotifyPointsExpired implements Notifier.
func (NopNotifier) NotifyPointsExpired(context.Context, []models.AttendancePoint) error {
	return nil
}

// NoLeaveCredits is the default ledger when leave integration is disabled:
// no absence is ever leave-covered.
type NoLeaveCredits struct{}

// CreditsAvailable implements LeaveCreditService.
func (NoLeaveCredits) CreditsAvailable(context.Context, string) (float64, error) {
	return 0, nil
}

// Deduct implements LeaveCreditService.
func (NoLeaveCredits) Deduct(_ context.Context, _ string, days float64) (LeaveDeduction, error) {
	return LeaveDeduction{Requested: days, Remainder: days}, nil
}

// HasApprovedLeave implements LeaveCreditService.
func (NoLeaveCredits) HasApprovedLeave(context.Context, string, time.Time) (bool, error) {
	return false, nil
}
