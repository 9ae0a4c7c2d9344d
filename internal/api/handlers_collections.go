package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/store"
)

func (rt *Router) saved(w http.ResponseWriter, err error) {
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to persist change")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Quotes

func (rt *Router) handleListQuotes(w http.ResponseWriter, _ *http.Request, _ *models.User, s *store.Store) {
	writeJSON(w, http.StatusOK, s.Quotes())
}

func (rt *Router) handleAddQuote(w http.ResponseWriter, r *http.Request, _ *models.User, s *store.Store) {
	var q models.Quote
	if err := decode(r, &q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.CreatedAt = time.Now()
	rt.saved(w, s.AddQuote(q))
}

func (rt *Router) handleUpdateQuote(w http.ResponseWriter, r *http.Request, _ *models.User, s *store.Store) {
	var q models.Quote
	if err := decode(r, &q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	q.ID = r.PathValue("id")
	rt.saved(w, s.UpdateQuote(q))
}

func (rt *Router) handleDeleteQuote(w http.ResponseWriter, r *http.Request, _ *models.User, s *store.Store) {
	rt.saved(w, s.DeleteQuote(r.PathValue("id")))
}

// Job cards

func (rt *Router) handleListJobCards(w http.ResponseWriter, _ *http.Request, _ *models.User, s *store.Store) {
	writeJSON(w, http.StatusOK, s.JobCards())
}

func (rt *Router) handleAddJobCard(w http.ResponseWriter, r *http.Request, _ *models.User, s *store.Store) {
	var j models.JobCard
	if err := decode(r, &j); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	j.CreatedAt = time.Now()
	rt.saved(w, s.AddJobCard(j))
}

func (rt *Router) handleUpdateJobCard(w http.ResponseWriter, r *http.Request, _ *models.User, s *store.Store) {
	var j models.JobCard
	if err := decode(r, &j); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	j.ID = r.PathValue("id")
	rt.saved(w, s.UpdateJobCard(j))
}

func (rt *Router) handleDeleteJobCard(w http.ResponseWriter, r *http.Request, _ *models.User, s *store.Store) {
	rt.saved(w, s.DeleteJobCard(r.PathValue("id")))
}

// Invoices

func (rt *Router) handleListInvoices(w http.ResponseWriter, _ *http.Request, _ *models.User, s *store.Store) {
	writeJSON(w, http.StatusOK, s.Invoices())
}

func (rt *Router) handleAddInvoice(w http.ResponseWriter, r *http.Request, _ *models.User, s *store.Store) {
	var inv models.Invoice
	if err := decode(r, &inv); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	inv.CreatedAt = time.Now()
	rt.saved(w, s.AddInvoice(inv))
}

func (rt *Router) handleUpdateInvoice(w http.ResponseWriter, r *http.Request, _ *models.User, s *store.Store) {
	var inv models.Invoice
	if err := decode(r, &inv); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	inv.ID = r.PathValue("id")
	rt.saved(w, s.UpdateInvoice(inv))
}

func (rt *Router) handleDeleteInvoice(w http.ResponseWriter, r *http.Request, _ *models.User, s *store.Store) {
	rt.saved(w, s.DeleteInvoice(r.PathValue("id")))
}

// Customers

func (rt *Router) handleListCustomers(w http.ResponseWriter, r *http.Request, _ *models.User, s *store.Store) {
	if q := r.URL.Query().Get("q"); q != "" {
		writeJSON(w, http.StatusOK, s.SearchCustomers(q))
		return
	}
	writeJSON(w, http.StatusOK, s.Customers())
}

func (rt *Router) handleAddCustomer(w http.ResponseWriter, r *http.Request, _ *models.User, s *store.Store) {
	var c models.Customer
	if err := decode(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now()
	rt.saved(w, s.AddCustomer(c))
}

func (rt *Router) handleUpdateCustomer(w http.ResponseWriter, r *http.Request, _ *models.User, s *store.Store) {
	var c models.Customer
	if err := decode(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c.ID = r.PathValue("id")
	rt.saved(w, s.UpdateCustomer(c))
}

func (rt *Router) handleDeleteCustomer(w http.ResponseWriter, r *http.Request, _ *models.User, s *store.Store) {
	rt.saved(w, s.DeleteCustomer(r.PathValue("id")))
}

// Inventory

func (rt *Router) handleListInventory(w http.ResponseWriter, r *http.Request, _ *models.User, s *store.Store) {
	if q := r.URL.Query().Get("q"); q != "" {
		writeJSON(w, http.StatusOK, s.SearchInventory(q))
		return
	}
	writeJSON(w, http.StatusOK, s.Inventory())
}

func (rt *Router) handleAddInventoryItem(w http.ResponseWriter, r *http.Request, _ *models.User, s *store.Store) {
	var item models.InventoryItem
	if err := decode(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	rt.saved(w, s.AddInventoryItem(item))
}

func (rt *Router) handleUpdateInventoryItem(w http.ResponseWriter, r *http.Request, _ *models.User, s *store.Store) {
	var item models.InventoryItem
	if err := decode(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item.ID = r.PathValue("id")
	rt.saved(w, s.UpdateInventoryItem(item))
}

func (rt *Router) handleDeleteInventoryItem(w http.ResponseWriter, r *http.Request, _ *models.User, s *store.Store) {
	rt.saved(w, s.DeleteInventoryItem(r.PathValue("id")))
}

func (rt *Router) handleBookOutInventory(w http.ResponseWriter, r *http.Request, user *models.User, s *store.Store) {
	var req struct {
		Quantity    int    `json:"quantity"`
		Destination string `json:"destination"`
	}
	if err := decode(r, &req); err != nil || req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.BookOutInventory(r.PathValue("id"), req.Quantity, user.Name, req.Destination)
	if err != nil {
		writeError(w, http.StatusNotFound, "inventory item not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Technicians

func (rt *Router) handleListTechnicians(w http.ResponseWriter, _ *http.Request, _ *models.User, s *store.Store) {
	writeJSON(w, http.StatusOK, s.Technicians())
}

func (rt *Router) handleAddTechnician(w http.ResponseWriter, r *http.Request, _ *models.User, s *store.Store) {
	var tech models.Technician
	if err := decode(r, &tech); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if tech.ID == "" {
		tech.ID = uuid.NewString()
	}
	rt.saved(w, s.AddTechnician(tech))
}

func (rt *Router) handleUpdateTechnician(w http.ResponseWriter, r *http.Request, _ *models.User, s *store.Store) {
	var tech models.Technician
	if err := decode(r, &tech); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tech.ID = r.PathValue("id")
	rt.saved(w, s.UpdateTechnician(tech))
}

func (rt *Router) handleDeleteTechnician(w http.ResponseWriter, r *http.Request, _ *models.User, s *store.Store) {
	rt.saved(w, s.DeleteTechnician(r.PathValue("id")))
}

// Categories

func (rt *Router) handleListCategories(w http.ResponseWriter, _ *http.Request, _ *models.User, s *store.Store) {
	writeJSON(w, http.StatusOK, s.Categories())
}

func (rt *Router) handleAddCategory(w http.ResponseWriter, r *http.Request, _ *models.User, s *store.Store) {
	var c models.Category
	if err := decode(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	rt.saved(w, s.AddCategory(c))
}

func (rt *Router) handleDeleteCategory(w http.ResponseWriter, r *http.Request, _ *models.User, s *store.Store) {
	rt.saved(w, s.DeleteCategory(r.PathValue("id")))
}

// Activity

func (rt *Router) handleListActivity(w http.ResponseWriter, _ *http.Request, _ *models.User, s *store.Store) {
	writeJSON(w, http.StatusOK, s.Activities())
}
