package billing

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garagedesk/garagedesk/internal/models"
)

var testPlans = []models.SubscriptionPlan{
	{ID: "plan-monthly", Name: "Workshop Monthly", Duration: models.DurationMonthly, Status: "Active"},
	{ID: "plan-yearly", Name: "Workshop Yearly", Duration: models.DurationYearly, Status: "Active"},
	{ID: "plan-3year", Name: "Workshop 3-Year", Duration: models.DurationThreeYear, Status: "Active"},
}

func userWithTrial(start time.Time) *models.User {
	return &models.User{ID: "w1", Role: models.RoleOwner, TrialStartDate: &start}
}

func monthlyUser() *models.User {
	return &models.User{ID: "w1", Role: models.RoleOwner, SubscriptionPlanID: "plan-monthly"}
}

func TestTrialWindowWinsOverSuspension(t *testing.T) {
	// The 15th of a 31-day month sits in the Suspended band, but an
	// active trial takes priority.
	now := time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)
	u := userWithTrial(now.Add(-3 * 24 * time.Hour))
	u.SubscriptionPlanID = "plan-monthly"

	assert.Equal(t, StatusTrial, Evaluate(u, now, testPlans, nil))
}

func TestPaidInvoiceOverridesGracePeriod(t *testing.T) {
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	invoices := []models.PlatformInvoice{{
		ID: "pi1", WorkshopID: "w1", Date: "2026-03-01",
		PlanName: "Workshop Monthly", Status: models.InvoicePaid,
	}}

	assert.Equal(t, StatusPaid, Evaluate(monthlyUser(), now, testPlans, invoices))
}

func TestPaidInvoiceFromLastMonthDoesNotOverride(t *testing.T) {
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	invoices := []models.PlatformInvoice{{
		ID: "pi1", WorkshopID: "w1", Date: "2026-02-27",
		PlanName: "Workshop Monthly", Status: models.InvoicePaid,
	}}

	assert.Equal(t, StatusGracePeriod, Evaluate(monthlyUser(), now, testPlans, invoices))
}

func TestPaidInvoiceForOtherTenantIgnored(t *testing.T) {
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	invoices := []models.PlatformInvoice{{
		ID: "pi1", WorkshopID: "someone-else", Date: "2026-03-01", Status: models.InvoicePaid,
	}}

	assert.Equal(t, StatusGracePeriod, Evaluate(monthlyUser(), now, testPlans, invoices))
}

func TestTrialExpiredWithoutPlan(t *testing.T) {
	now := time.Date(2026, time.June, 20, 12, 0, 0, 0, time.UTC)
	u := userWithTrial(now.Add(-8 * 24 * time.Hour))

	status := Evaluate(u, now, testPlans, nil)
	require.Equal(t, StatusTrialExpired, status)

	alert := AlertFor(status)
	require.NotNil(t, alert)
	assert.True(t, alert.IsLocked)
	assert.Equal(t, AlertCritical, alert.Level)
}

func TestNoPlanIsInactive(t *testing.T) {
	now := time.Date(2026, time.June, 20, 12, 0, 0, 0, time.UTC)
	u := &models.User{ID: "w1", Role: models.RoleOwner}

	status := Evaluate(u, now, testPlans, nil)
	assert.Equal(t, StatusInactive, status)
	assert.Nil(t, AlertFor(status))
}

func TestDurationPlansArePrepaid(t *testing.T) {
	// Mid-month on a yearly or 3-year plan never enters the monthly
	// cycle.
	now := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	for _, planID := range []string{"plan-yearly", "plan-3year"} {
		u := &models.User{ID: "w1", SubscriptionPlanID: planID}
		assert.Equal(t, StatusPaid, Evaluate(u, now, testPlans, nil), planID)
	}
}

func TestMonthlyCycleBands(t *testing.T) {
	tests := []struct {
		day  int
		want Status
	}{
		{1, StatusGracePeriod},
		{2, StatusGracePeriod},
		{3, StatusSuspended},
		{15, StatusSuspended},
		{27, StatusSuspended},
		{28, StatusPaid}, // the single day between Suspended and Outstanding in a 31-day month
		{29, StatusOutstanding},
		{30, StatusOutstanding},
		{31, StatusOutstanding},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("jan_%02d", tc.day), func(t *testing.T) {
			now := time.Date(2026, time.January, tc.day, 12, 0, 0, 0, time.UTC)
			assert.Equal(t, tc.want, Evaluate(monthlyUser(), now, testPlans, nil))
		})
	}
}

// TestMonthlyCycleBandBoundaries pins the literal band arithmetic
// across every month length. For L days the bands are Outstanding
// [L-2, L], Grace {1, 2}, Suspended [3, L-3), Paid for the remainder;
// exactly one Paid day (L-3) exists per month.
func TestMonthlyCycleBandBoundaries(t *testing.T) {
	months := []struct {
		year  int
		month time.Month
		days  int
	}{
		{2026, time.February, 28},
		{2024, time.February, 29},
		{2026, time.April, 30},
		{2026, time.January, 31},
	}

	for _, m := range months {
		t.Run(fmt.Sprintf("%d_days", m.days), func(t *testing.T) {
			counts := map[Status]int{}
			for day := 1; day <= m.days; day++ {
				now := time.Date(m.year, m.month, day, 12, 0, 0, 0, time.UTC)
				counts[Evaluate(monthlyUser(), now, testPlans, nil)]++
			}

			assert.Equal(t, 3, counts[StatusOutstanding])
			assert.Equal(t, 2, counts[StatusGracePeriod])
			assert.Equal(t, 1, counts[StatusPaid])
			assert.Equal(t, m.days-6, counts[StatusSuspended])
		})
	}
}

func TestUnknownPlanIDTreatedAsPrepaid(t *testing.T) {
	now := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	u := &models.User{ID: "w1", SubscriptionPlanID: "plan-deleted"}

	assert.Equal(t, StatusPaid, Evaluate(u, now, testPlans, nil))
}

func TestAlertMapping(t *testing.T) {
	locked := map[Status]bool{
		StatusTrialExpired: true,
		StatusSuspended:    true,
	}
	levels := map[Status]AlertLevel{
		StatusOutstanding: AlertInfo,
		StatusGracePeriod: AlertWarning,
	}

	for _, s := range []Status{StatusPaid, StatusTrial, StatusInactive} {
		assert.Nil(t, AlertFor(s), s)
	}
	for s, level := range levels {
		alert := AlertFor(s)
		require.NotNil(t, alert, s)
		assert.Equal(t, level, alert.Level, s)
		assert.False(t, alert.IsLocked, s)
	}
	for s := range locked {
		alert := AlertFor(s)
		require.NotNil(t, alert, s)
		assert.True(t, alert.IsLocked, s)
	}
}
