// Package planning holds the pure schedule and lifecycle rules of dollar-cost
// averaging plans. Nothing here touches storage or the clock; callers pass "now".
package planning

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/model"
)

// AmountPerPurchase splits total evenly over count purchases. The quotient is kept
// unrounded so the planned purchases add up to total; round only for display.
func AmountPerPurchase(total float64, count int) float64 {
	if count <= 0 {
		return 0
	}
	return decimal.NewFromFloat(total).
		Div(decimal.NewFromInt(int64(count))).
		InexactFloat64()
}

// DueDate returns the date of purchase n (zero based) of a plan.
func DueDate(p model.Plan, n int) time.Time {
	start := p.StartDate.UTC()
	switch p.Cadence {
	case model.CadenceWeekly:
		return start.AddDate(0, 0, 7*n)
	case model.CadenceBiweekly:
		return start.AddDate(0, 0, 14*n)
	case model.CadenceMonthly:
		return start.AddDate(0, n, 0)
	case model.CadenceCustom:
		return start.AddDate(0, 0, p.CustomDays*n)
	}
	return start
}

// NextPurchaseDate is start + cadence × completed purchases. It reports false
// for plans that will not purchase again.
func NextPurchaseDate(p model.Plan) (time.Time, bool) {
	if p.Status.IsTerminal() || p.CompletedPurchases >= p.NumberOfPurchases {
		return time.Time{}, false
	}
	return DueDate(p, p.CompletedPurchases), true
}

// IsOverdue reports whether an active plan's next purchase fell on a day before now.
// Paused plans are never overdue.
func IsOverdue(p model.Plan, now time.Time) bool {
	if p.Status != model.PlanActive {
		return false
	}
	next, ok := NextPurchaseDate(p)
	if !ok {
		return false
	}
	return startOfDay(next).Before(startOfDay(now))
}

// Progress is the completed fraction of the plan in [0, 1].
func Progress(p model.Plan) float64 {
	if p.NumberOfPurchases <= 0 {
		return 0
	}
	done := min(p.CompletedPurchases, p.NumberOfPurchases)
	return float64(done) / float64(p.NumberOfPurchases)
}

// Transition validates a user-requested status change.
//
//	active -> paused      pause
//	paused -> active      resume
//	active|paused -> cancelled
//
// Completion is never requested directly; it follows from Advance.
func Transition(from, to model.PlanStatus) error {
	switch {
	case from == model.PlanActive && to == model.PlanPaused,
		from == model.PlanPaused && to == model.PlanActive,
		!from.IsTerminal() && to == model.PlanCancelled:
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidPlanTransition, from, to)
}

// Advance records one completed purchase. Reaching the planned count completes the plan.
func Advance(p model.Plan) (model.Plan, error) {
	if p.Status != model.PlanActive {
		return p, fmt.Errorf("%w: plan is %s", apperrors.ErrPlanNotActive, p.Status)
	}
	if p.CompletedPurchases >= p.NumberOfPurchases {
		p.Status = model.PlanCompleted
		return p, fmt.Errorf("%w: all purchases recorded", apperrors.ErrPlanNotActive)
	}
	p.CompletedPurchases++
	if p.CompletedPurchases == p.NumberOfPurchases {
		p.Status = model.PlanCompleted
	}
	return p, nil
}

// Reconcile fixes the status after the purchase counter or planned count changed
// through an edit: a plan whose counter met its count is completed, and a completed
// plan whose count was raised becomes active again.
func Reconcile(p model.Plan) model.Plan {
	if p.CompletedPurchases > p.NumberOfPurchases {
		p.CompletedPurchases = p.NumberOfPurchases
	}
	switch {
	case p.Status == model.PlanCancelled:
	case p.CompletedPurchases == p.NumberOfPurchases:
		p.Status = model.PlanCompleted
	case p.Status == model.PlanCompleted:
		p.Status = model.PlanActive
	}
	return p
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
