// Package api exposes the repositories, billing status, and payment
// workflow over HTTP. Handlers translate requests and responses; all
// decision logic lives in the store, billing, payments, and auth
// packages.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/garagedesk/garagedesk/internal/auth"
	"github.com/garagedesk/garagedesk/internal/kvstore"
	"github.com/garagedesk/garagedesk/internal/payments"
	"github.com/garagedesk/garagedesk/internal/store"
	"github.com/garagedesk/garagedesk/internal/websocket"
)

// Router wires the core components to HTTP routes.
type Router struct {
	kv       kvstore.Store
	stores   *store.Manager
	global   *store.Global
	users    *auth.Directory
	payments *payments.Workflow
	hub      *websocket.Hub
	mux      *http.ServeMux
}

// Deps carries everything a Router needs.
type Deps struct {
	KV       kvstore.Store
	Stores   *store.Manager
	Global   *store.Global
	Users    *auth.Directory
	Payments *payments.Workflow
	Hub      *websocket.Hub
}

func NewRouter(d Deps) *Router {
	r := &Router{
		kv:       d.KV,
		stores:   d.Stores,
		global:   d.Global,
		users:    d.Users,
		payments: d.Payments,
		hub:      d.Hub,
		mux:      http.NewServeMux(),
	}
	r.routes()
	return r
}

func (r *Router) routes() {
	m := r.mux

	m.HandleFunc("GET /api/health", r.handleHealth)
	m.Handle("GET /metrics", promhttp.Handler())
	if r.hub != nil {
		m.HandleFunc("GET /ws", r.hub.ServeWS)
	}

	// Auth
	m.HandleFunc("POST /api/auth/signup", r.handleSignup)
	m.HandleFunc("POST /api/auth/login", r.handleLogin)
	m.HandleFunc("POST /api/auth/logout", r.withUser(r.handleLogout))

	// Public catalog
	m.HandleFunc("GET /api/plans", r.handleListPlans)
	m.HandleFunc("GET /api/bank-details", r.handleGetBankDetails)
	m.HandleFunc("GET /api/display-config", r.handleGetDisplayConfig)

	// Tenant collections
	m.HandleFunc("GET /api/quotes", r.withUser(r.handleListQuotes))
	m.HandleFunc("POST /api/quotes", r.withUser(r.handleAddQuote))
	m.HandleFunc("PUT /api/quotes/{id}", r.withUser(r.handleUpdateQuote))
	m.HandleFunc("DELETE /api/quotes/{id}", r.withUser(r.handleDeleteQuote))

	m.HandleFunc("GET /api/jobcards", r.withUser(r.handleListJobCards))
	m.HandleFunc("POST /api/jobcards", r.withUser(r.handleAddJobCard))
	m.HandleFunc("PUT /api/jobcards/{id}", r.withUser(r.handleUpdateJobCard))
	m.HandleFunc("DELETE /api/jobcards/{id}", r.withUser(r.handleDeleteJobCard))

	m.HandleFunc("GET /api/invoices", r.withUser(r.handleListInvoices))
	m.HandleFunc("POST /api/invoices", r.withUser(r.handleAddInvoice))
	m.HandleFunc("PUT /api/invoices/{id}", r.withUser(r.handleUpdateInvoice))
	m.HandleFunc("DELETE /api/invoices/{id}", r.withUser(r.handleDeleteInvoice))

	m.HandleFunc("GET /api/customers", r.withUser(r.handleListCustomers))
	m.HandleFunc("POST /api/customers", r.withUser(r.handleAddCustomer))
	m.HandleFunc("PUT /api/customers/{id}", r.withUser(r.handleUpdateCustomer))
	m.HandleFunc("DELETE /api/customers/{id}", r.withUser(r.handleDeleteCustomer))

	m.HandleFunc("GET /api/inventory", r.withUser(r.handleListInventory))
	m.HandleFunc("POST /api/inventory", r.withUser(r.handleAddInventoryItem))
	m.HandleFunc("PUT /api/inventory/{id}", r.withUser(r.handleUpdateInventoryItem))
	m.HandleFunc("DELETE /api/inventory/{id}", r.withUser(r.handleDeleteInventoryItem))
	m.HandleFunc("POST /api/inventory/{id}/bookout", r.withUser(r.handleBookOutInventory))

	m.HandleFunc("GET /api/technicians", r.withUser(r.handleListTechnicians))
	m.HandleFunc("POST /api/technicians", r.withUser(r.handleAddTechnician))
	m.HandleFunc("PUT /api/technicians/{id}", r.withUser(r.handleUpdateTechnician))
	m.HandleFunc("DELETE /api/technicians/{id}", r.withUser(r.handleDeleteTechnician))

	m.HandleFunc("GET /api/categories", r.withUser(r.handleListCategories))
	m.HandleFunc("POST /api/categories", r.withUser(r.handleAddCategory))
	m.HandleFunc("DELETE /api/categories/{id}", r.withUser(r.handleDeleteCategory))

	m.HandleFunc("GET /api/activity", r.withUser(r.handleListActivity))

	// Billing and payments
	m.HandleFunc("GET /api/billing/status", r.withUser(r.handleBillingStatus))
	m.HandleFunc("POST /api/payments", r.withUser(r.handleSubmitPayment))
	m.HandleFunc("GET /api/platform-invoices", r.withUser(r.handleTenantPlatformInvoices))
	m.HandleFunc("GET /api/platform-invoices/{id}/pdf", r.withUser(r.handleInvoicePDF))

	// Support tickets
	m.HandleFunc("GET /api/tickets", r.withUser(r.handleListTickets))
	m.HandleFunc("POST /api/tickets", r.withUser(r.handleAddTicket))
	m.HandleFunc("POST /api/tickets/{id}/messages", r.withUser(r.handleTicketMessage))

	// Platform back-office
	m.HandleFunc("GET /api/admin/verifications", r.withAdmin(r.handleListVerifications))
	m.HandleFunc("POST /api/admin/verifications/{id}/approve", r.withAdmin(r.handleApprovePayment))
	m.HandleFunc("POST /api/admin/verifications/{id}/reject", r.withAdmin(r.handleRejectPayment))
	m.HandleFunc("GET /api/admin/platform-invoices", r.withAdmin(r.handleAllPlatformInvoices))
	m.HandleFunc("POST /api/admin/plans", r.withAdmin(r.handleAddPlan))
	m.HandleFunc("PUT /api/admin/plans/{id}", r.withAdmin(r.handleUpdatePlan))
	m.HandleFunc("PUT /api/admin/bank-details", r.withAdmin(r.handleSetBankDetails))
	m.HandleFunc("PUT /api/admin/display-config", r.withAdmin(r.handleSetDisplayConfig))
	m.HandleFunc("GET /api/admin/tickets", r.withAdmin(r.handleAllTickets))
	m.HandleFunc("PUT /api/admin/tickets/{id}/status", r.withAdmin(r.handleTicketStatus))
}

// Handler returns the fully wrapped HTTP handler.
func (r *Router) Handler() http.Handler {
	return securityHeaders(metricsMiddleware(r.mux))
}

func (r *Router) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
