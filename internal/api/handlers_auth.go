package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/garagedesk/garagedesk/internal/auth"
	"github.com/garagedesk/garagedesk/internal/billing"
	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/store"
	"github.com/garagedesk/garagedesk/internal/tenant"
)

func (rt *Router) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := rt.users.Signup(req.Name, req.Email, req.Password, time.Now())
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, user.Sanitized())
}

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := rt.users.Login(req.Email, req.Password, time.Now())
	if !result.Success {
		writeJSON(w, http.StatusUnauthorized, result)
		return
	}

	// Warm the tenant store; first login after signup seeds here.
	if _, err := rt.stores.ForUser(result.User); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load workshop data")
		return
	}

	sanitized := result.User.Sanitized()
	result.User = &sanitized
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) handleLogout(w http.ResponseWriter, _ *http.Request, user *models.User, _ *store.Store) {
	rt.stores.Evict(tenant.ID(user))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (rt *Router) handleBillingStatus(w http.ResponseWriter, _ *http.Request, user *models.User, _ *store.Store) {
	status := billing.Evaluate(user, time.Now(), rt.global.Plans(), rt.global.PlatformInvoices())
	writeJSON(w, http.StatusOK, map[string]any{
		"status": status,
		"alert":  billing.AlertFor(status),
	})
}
