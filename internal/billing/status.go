// Package billing derives a workshop's subscription status from its
// trial window, selected plan, and recorded platform invoices. The
// derivation is a pure function of its inputs; nothing here is
// persisted.
package billing

import (
	"strings"
	"time"

	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/tenant"
)

// Status is a workshop's current billing state.
type Status string

const (
	StatusPaid         Status = "Paid"
	StatusTrial        Status = "Trial"
	StatusTrialExpired Status = "Trial Expired"
	StatusInactive     Status = "Inactive"
	StatusOutstanding  Status = "Outstanding"
	StatusGracePeriod  Status = "Grace Period"
	StatusSuspended    Status = "Suspended"
)

// TrialDuration is the window from TrialStartDate during which full
// access is granted regardless of any other billing state.
const TrialDuration = 7 * 24 * time.Hour

// Evaluate returns the billing status for the user's workshop at the
// given instant. Rules are checked in order and the first match wins:
//
//  1. a Paid platform invoice dated in the current calendar month
//  2. the 7-day trial window
//  3. trial elapsed with no plan selected
//  4. no plan at all
//  5. Yearly and 3-Year plans are pre-paid for their full term
//  6. Monthly plans cycle by day of month
//
// The monthly bands use literal day arithmetic: the final three days
// of the month are Outstanding, the first two are Grace Period, days
// [3, L-3) are Suspended, and anything left is Paid. The band
// boundaries are a product decision and are preserved exactly,
// including their behavior in short months.
func Evaluate(user *models.User, now time.Time, plans []models.SubscriptionPlan, invoices []models.PlatformInvoice) Status {
	workshopID := tenant.ID(user)
	month := now.Format("2006-01")
	for _, inv := range invoices {
		if inv.WorkshopID == workshopID && inv.Status == models.InvoicePaid && strings.HasPrefix(inv.Date, month) {
			return StatusPaid
		}
	}

	if user != nil && user.TrialStartDate != nil {
		if now.Sub(*user.TrialStartDate) < TrialDuration {
			return StatusTrial
		}
		if user.SubscriptionPlanID == "" {
			return StatusTrialExpired
		}
	}

	if user == nil || user.SubscriptionPlanID == "" {
		return StatusInactive
	}

	if !isMonthly(user.SubscriptionPlanID, plans) {
		return StatusPaid
	}

	d := now.Day()
	l := daysInMonth(now)
	switch {
	case d >= l-2:
		return StatusOutstanding
	case d <= 2:
		return StatusGracePeriod
	case d >= 3 && d < l-3:
		return StatusSuspended
	default:
		return StatusPaid
	}
}

// isMonthly reports whether the selected plan bills monthly. A plan id
// that no longer resolves against the catalog is treated as
// non-monthly, matching the lookup-miss behavior the cycle logic was
// written against.
func isMonthly(planID string, plans []models.SubscriptionPlan) bool {
	for _, p := range plans {
		if p.ID == planID {
			return p.Duration == models.DurationMonthly
		}
	}
	return false
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
