// Package payments implements the proof-of-payment workflow: a
// workshop submits a verification record, and an admin decision either
// grants entitlement (plan set, trial retired, platform invoice
// issued) or rejects the claim. Pending is the only state a decision
// is valid from; terminal records cannot be decided twice, so a double
// approval can never issue two invoices.
package payments

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/garagedesk/garagedesk/internal/auth"
	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/store"
)

var (
	// ErrNotFound reports an unknown verification id.
	ErrNotFound = errors.New("payment verification not found")

	// ErrAlreadyDecided reports an approve/reject against a record
	// that has already left the Pending state.
	ErrAlreadyDecided = errors.New("payment verification already decided")

	// ErrUserNotFound reports that the workshop owner's user record
	// is missing, so no entitlement could be granted. The
	// verification itself is still marked Approved; callers must
	// surface the inconsistency rather than retry.
	ErrUserNotFound = errors.New("workshop owner not found")
)

// Workflow wires the verification records to the user directory, the
// platform invoice ledger, and the tenant stores (for the activity
// entry an approval leaves in the workshop's feed).
type Workflow struct {
	stores *store.Manager
	global *store.Global
	users  *auth.Directory
}

func NewWorkflow(stores *store.Manager, global *store.Global, users *auth.Directory) *Workflow {
	return &Workflow{stores: stores, global: global, users: users}
}

// Submit records a workshop's claim of payment. Entitlement does not
// change until an admin approves.
func (w *Workflow) Submit(workshopID, planID, amount string) (models.PaymentVerification, error) {
	v := models.PaymentVerification{
		ID:         uuid.NewString(),
		WorkshopID: workshopID,
		PlanID:     planID,
		Amount:     amount,
		Status:     models.VerificationPending,
		Timestamp:  time.Now(),
	}
	if err := w.global.AddVerification(v); err != nil {
		return models.PaymentVerification{}, err
	}
	log.Info().Str("workshop", workshopID).Str("plan", planID).Msg("Payment verification submitted")
	return v, nil
}

// Approve grants the verified plan to the workshop: the owner's
// subscription plan is set, the trial start date is cleared for good,
// a snapshot platform invoice is issued, and an activity entry lands
// in the workshop's feed.
//
// When the owner's user record cannot be found the record is still
// marked Approved but ErrUserNotFound is returned: no entitlement
// changed hands and the caller needs to know.
func (w *Workflow) Approve(id string) error {
	v, ok := w.global.VerificationByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if v.Status != models.VerificationPending {
		return fmt.Errorf("%w: %s is %s", ErrAlreadyDecided, id, v.Status)
	}

	v.Status = models.VerificationApproved
	if err := w.global.UpdateVerification(v); err != nil {
		return err
	}

	owner, found := w.users.FindOwner(v.WorkshopID)
	if !found {
		log.Warn().Str("workshop", v.WorkshopID).Str("verification", id).
			Msg("Approved verification for unknown workshop owner; no entitlement granted")
		return fmt.Errorf("%w: workshop %s", ErrUserNotFound, v.WorkshopID)
	}

	owner.SubscriptionPlanID = v.PlanID
	owner.TrialStartDate = nil
	if err := w.users.Update(owner); err != nil {
		return err
	}

	// Plan name and duration are copied onto the invoice so later
	// plan edits cannot rewrite billing history.
	planName, planDuration := v.PlanID, models.PlanDuration("")
	if plan, ok := w.global.PlanByID(v.PlanID); ok {
		planName, planDuration = plan.Name, plan.Duration
	}

	inv := models.PlatformInvoice{
		ID:         uuid.NewString(),
		WorkshopID: v.WorkshopID,
		Date:       time.Now().Format("2006-01-02"),
		PlanName:   planName,
		Duration:   planDuration,
		Amount:     v.Amount,
		Status:     models.InvoicePaid,
	}
	if err := w.global.AddPlatformInvoice(inv); err != nil {
		return err
	}

	if err := w.stores.AppendActivity(v.WorkshopID, models.Activity{
		Type:        "subscription",
		Title:       "Subscription activated",
		Description: fmt.Sprintf("Payment verified and the %s plan is now active.", planName),
		Icon:        "credit-card",
		Color:       "green",
	}); err != nil {
		return err
	}

	log.Info().Str("workshop", v.WorkshopID).Str("plan", v.PlanID).Msg("Payment verification approved")
	return nil
}

// Reject marks a pending verification as rejected, retaining the
// reviewer's notes. Entitlement is untouched.
func (w *Workflow) Reject(id, notes string) error {
	v, ok := w.global.VerificationByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if v.Status != models.VerificationPending {
		return fmt.Errorf("%w: %s is %s", ErrAlreadyDecided, id, v.Status)
	}

	v.Status = models.VerificationRejected
	v.Notes = notes
	if err := w.global.UpdateVerification(v); err != nil {
		return err
	}

	log.Info().Str("workshop", v.WorkshopID).Str("verification", id).Msg("Payment verification rejected")
	return nil
}
