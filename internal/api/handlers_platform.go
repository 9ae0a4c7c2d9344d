package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/payments"
	"github.com/garagedesk/garagedesk/internal/reports"
	"github.com/garagedesk/garagedesk/internal/store"
	"github.com/garagedesk/garagedesk/internal/tenant"
)

// Public catalog

func (rt *Router) handleListPlans(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rt.global.Plans())
}

func (rt *Router) handleGetBankDetails(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rt.global.BankDetails())
}

func (rt *Router) handleGetDisplayConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rt.global.DisplayConfig())
}

// Payments

func (rt *Router) handleSubmitPayment(w http.ResponseWriter, r *http.Request, user *models.User, _ *store.Store) {
	var req struct {
		PlanID string `json:"planId"`
		Amount string `json:"amount"`
	}
	if err := decode(r, &req); err != nil || req.PlanID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	v, err := rt.payments.Submit(tenant.ID(user), req.PlanID, req.Amount)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record payment")
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (rt *Router) handleTenantPlatformInvoices(w http.ResponseWriter, _ *http.Request, user *models.User, _ *store.Store) {
	workshopID := tenant.ID(user)
	var out []models.PlatformInvoice
	for _, inv := range rt.global.PlatformInvoices() {
		if inv.WorkshopID == workshopID {
			out = append(out, inv)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (rt *Router) handleInvoicePDF(w http.ResponseWriter, r *http.Request, user *models.User, _ *store.Store) {
	id := r.PathValue("id")
	workshopID := tenant.ID(user)

	for _, inv := range rt.global.PlatformInvoices() {
		if inv.ID != id {
			continue
		}
		// Admins can fetch any invoice; workshops only their own.
		if user.Role != models.RoleAdmin && inv.WorkshopID != workshopID {
			break
		}

		workshopName := ""
		if owner, ok := rt.users.FindOwner(inv.WorkshopID); ok {
			workshopName = owner.Name
		}
		pdf, err := reports.InvoicePDF(inv, workshopName, rt.global.BankDetails())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to render invoice")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="invoice-`+inv.ID+`.pdf"`)
		w.Write(pdf)
		return
	}
	writeError(w, http.StatusNotFound, "invoice not found")
}

// Support tickets

func (rt *Router) handleListTickets(w http.ResponseWriter, _ *http.Request, user *models.User, _ *store.Store) {
	writeJSON(w, http.StatusOK, rt.global.TicketsForWorkshop(tenant.ID(user)))
}

func (rt *Router) handleAddTicket(w http.ResponseWriter, r *http.Request, user *models.User, _ *store.Store) {
	var req struct {
		Subject string `json:"subject"`
		Content string `json:"content"`
	}
	if err := decode(r, &req); err != nil || req.Subject == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t := models.SupportTicket{
		ID:         uuid.NewString(),
		WorkshopID: tenant.ID(user),
		Subject:    req.Subject,
		Status:     models.TicketOpen,
		CreatedAt:  time.Now(),
		Messages: []models.TicketMessage{{
			SenderName: user.Name,
			Role:       user.Role,
			Content:    req.Content,
			Timestamp:  time.Now(),
		}},
	}
	if err := rt.global.AddTicket(t); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create ticket")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (rt *Router) handleTicketMessage(w http.ResponseWriter, r *http.Request, user *models.User, _ *store.Store) {
	var req struct {
		Content string `json:"content"`
	}
	if err := decode(r, &req); err != nil || req.Content == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rt.saved(w, rt.global.AppendTicketMessage(r.PathValue("id"), models.TicketMessage{
		SenderName: user.Name,
		Role:       user.Role,
		Content:    req.Content,
	}))
}

// Platform back-office

func (rt *Router) handleListVerifications(w http.ResponseWriter, _ *http.Request, _ *models.User, _ *store.Store) {
	writeJSON(w, http.StatusOK, rt.global.Verifications())
}

func (rt *Router) handleApprovePayment(w http.ResponseWriter, r *http.Request, _ *models.User, _ *store.Store) {
	err := rt.payments.Approve(r.PathValue("id"))
	switch {
	case errors.Is(err, payments.ErrNotFound):
		writeError(w, http.StatusNotFound, "verification not found")
	case errors.Is(err, payments.ErrAlreadyDecided):
		writeError(w, http.StatusConflict, "verification already decided")
	case errors.Is(err, payments.ErrUserNotFound):
		// The record is Approved but no entitlement was granted;
		// the admin needs to see that.
		writeError(w, http.StatusConflict, "workshop owner not found; no entitlement granted")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to approve payment")
	default:
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (rt *Router) handleRejectPayment(w http.ResponseWriter, r *http.Request, _ *models.User, _ *store.Store) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := rt.payments.Reject(r.PathValue("id"), req.Notes)
	switch {
	case errors.Is(err, payments.ErrNotFound):
		writeError(w, http.StatusNotFound, "verification not found")
	case errors.Is(err, payments.ErrAlreadyDecided):
		writeError(w, http.StatusConflict, "verification already decided")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to reject payment")
	default:
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (rt *Router) handleAllPlatformInvoices(w http.ResponseWriter, _ *http.Request, _ *models.User, _ *store.Store) {
	writeJSON(w, http.StatusOK, rt.global.PlatformInvoices())
}

func (rt *Router) handleAddPlan(w http.ResponseWriter, r *http.Request, _ *models.User, _ *store.Store) {
	var p models.SubscriptionPlan
	if err := decode(r, &p); err != nil || p.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = "Active"
	}
	rt.saved(w, rt.global.AddPlan(p))
}

func (rt *Router) handleUpdatePlan(w http.ResponseWriter, r *http.Request, _ *models.User, _ *store.Store) {
	var p models.SubscriptionPlan
	if err := decode(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p.ID = r.PathValue("id")
	rt.saved(w, rt.global.UpdatePlan(p))
}

func (rt *Router) handleSetBankDetails(w http.ResponseWriter, r *http.Request, _ *models.User, _ *store.Store) {
	var b models.BankDetails
	if err := decode(r, &b); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rt.saved(w, rt.global.SetBankDetails(b))
}

func (rt *Router) handleSetDisplayConfig(w http.ResponseWriter, r *http.Request, _ *models.User, _ *store.Store) {
	var c models.DisplayConfig
	if err := decode(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rt.saved(w, rt.global.SetDisplayConfig(c))
}

func (rt *Router) handleAllTickets(w http.ResponseWriter, _ *http.Request, _ *models.User, _ *store.Store) {
	writeJSON(w, http.StatusOK, rt.global.Tickets())
}

func (rt *Router) handleTicketStatus(w http.ResponseWriter, r *http.Request, _ *models.User, _ *store.Store) {
	var req struct {
		Status models.TicketStatus `json:"status"`
	}
	if err := decode(r, &req); err != nil || req.Status == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rt.saved(w, rt.global.SetTicketStatus(r.PathValue("id"), req.Status))
}
