package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/store"
)

// userHandler receives the authenticated user and their tenant's store
// alongside the request.
type userHandler func(w http.ResponseWriter, r *http.Request, user *models.User, s *store.Store)

// withUser resolves the caller from the X-User-ID header (set by the
// session layer fronting this service) and hands the handler the
// caller's tenant store. Every tenant has its own instance, so
// concurrent sessions from different workshops never contend over a
// shared active tenant. The session mechanism itself is outside the
// core; this boundary only needs a trusted user id.
func (rt *Router) withUser(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		user, found := rt.users.FindByID(userID)
		if !found {
			writeError(w, http.StatusUnauthorized, "unknown user")
			return
		}

		s, err := rt.stores.ForUser(&user)
		if err != nil {
			log.Error().Err(err).Str("user", userID).Msg("Failed to load tenant store")
			writeError(w, http.StatusInternalServerError, "failed to load workshop data")
			return
		}

		next(w, r, &user, s)
	}
}

// withAdmin additionally requires the platform admin role.
func (rt *Router) withAdmin(next userHandler) http.HandlerFunc {
	return rt.withUser(func(w http.ResponseWriter, r *http.Request, user *models.User, s *store.Store) {
		if user.Role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next(w, r, user, s)
	})
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "garagedesk_http_requests_total",
		Help: "HTTP requests by method and status code.",
	}, []string{"method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "garagedesk_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		httpRequests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decode reads a JSON request body into v, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
