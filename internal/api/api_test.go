package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garagedesk/garagedesk/internal/auth"
	"github.com/garagedesk/garagedesk/internal/kvstore"
	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/payments"
	"github.com/garagedesk/garagedesk/internal/store"
)

type testEnv struct {
	srv    *httptest.Server
	kv     kvstore.Store
	users  *auth.Directory
	global *store.Global
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	kv, err := kvstore.NewFileStore(t.TempDir())
	require.NoError(t, err)

	stores := store.NewManager(kv)
	global := store.NewGlobal(kv)
	users := auth.NewDirectory(kv)
	workflow := payments.NewWorkflow(stores, global, users)

	router := NewRouter(Deps{
		KV:       kv,
		Stores:   stores,
		Global:   global,
		Users:    users,
		Payments: workflow,
	})

	srv := httptest.NewServer(router.Handler())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, kv: kv, users: users, global: global}
}

// signup registers a workshop owner and drops the demo-seed marker so
// collection assertions start from empty.
func (e *testEnv) signup(t *testing.T, name, email string) models.User {
	t.Helper()
	user, err := e.users.Signup(name, email, "correct-horse", time.Now())
	require.NoError(t, err)
	require.NoError(t, e.kv.Delete(store.SeedMarkerKey(user.ID)))
	return user
}

func (e *testEnv) do(t *testing.T, method, path, userID string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	resp := e.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestSignupAndLogin(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Thandi", "email": "thandi@example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[models.User](t, resp)
	assert.Empty(t, created.PasswordHash)

	resp = e.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Imposter", "email": "thandi@example.com", "password": "other-password",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "thandi@example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decodeBody[auth.LoginResult](t, resp)
	require.True(t, result.Success)
	assert.Empty(t, result.User.PasswordHash)

	resp = e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "thandi@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCollectionsRequireAuth(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodGet, "/api/quotes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/quotes", "no-such-user", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestQuoteCRUD(t *testing.T) {
	e := newTestEnv(t)
	owner := e.signup(t, "Thandi", "thandi@example.com")

	resp := e.do(t, http.MethodPost, "/api/quotes", owner.ID, models.Quote{
		ID: "q1", CustomerName: "Pieter", Status: models.QuoteDraft,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/quotes", owner.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	quotes := decodeBody[[]models.Quote](t, resp)
	require.Len(t, quotes, 1)
	assert.Equal(t, "Pieter", quotes[0].CustomerName)

	resp = e.do(t, http.MethodPut, "/api/quotes/q1", owner.ID, models.Quote{
		CustomerName: "Pieter", Status: models.QuoteAccepted,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/quotes", owner.ID, nil)
	quotes = decodeBody[[]models.Quote](t, resp)
	require.Len(t, quotes, 1)
	assert.Equal(t, models.QuoteAccepted, quotes[0].Status)

	resp = e.do(t, http.MethodDelete, "/api/quotes/q1", owner.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/quotes", owner.ID, nil)
	quotes = decodeBody[[]models.Quote](t, resp)
	assert.Empty(t, quotes)
}

func TestTenantSwitchOnHeaderChange(t *testing.T) {
	e := newTestEnv(t)
	alice := e.signup(t, "Alice", "alice@example.com")
	bob := e.signup(t, "Bob", "bob@example.com")

	resp := e.do(t, http.MethodPost, "/api/customers", alice.ID, models.Customer{ID: "c1", Name: "Thandi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/customers", bob.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	customers := decodeBody[[]models.Customer](t, resp)
	assert.Empty(t, customers)

	resp = e.do(t, http.MethodGet, "/api/customers", alice.ID, nil)
	customers = decodeBody[[]models.Customer](t, resp)
	require.Len(t, customers, 1)
}

func TestConcurrentSessionsStayIsolated(t *testing.T) {
	e := newTestEnv(t)
	alice := e.signup(t, "Alice", "alice@example.com")
	bob := e.signup(t, "Bob", "bob@example.com")

	resp := e.do(t, http.MethodPost, "/api/customers", alice.ID, models.Customer{ID: "c-alice", Name: "Thandi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = e.do(t, http.MethodPost, "/api/customers", bob.ID, models.Customer{ID: "c-bob", Name: "Pieter"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Interleaved requests from both workshops; neither may ever see
	// the other's customer.
	errCh := make(chan error, 2)
	sessions := map[string]string{alice.ID: "c-alice", bob.ID: "c-bob"}
	for userID, want := range sessions {
		go func(userID, want string) {
			for i := 0; i < 100; i++ {
				req, err := http.NewRequest(http.MethodGet, e.srv.URL+"/api/customers", nil)
				if err != nil {
					errCh <- err
					return
				}
				req.Header.Set("X-User-ID", userID)
				resp, err := e.srv.Client().Do(req)
				if err != nil {
					errCh <- err
					return
				}
				var customers []models.Customer
				err = json.NewDecoder(resp.Body).Decode(&customers)
				resp.Body.Close()
				if err != nil {
					errCh <- err
					return
				}
				if len(customers) != 1 || customers[0].ID != want {
					errCh <- fmt.Errorf("session %s observed %+v, want only %s", userID, customers, want)
					return
				}
			}
			errCh <- nil
		}(userID, want)
	}
	for i := 0; i < len(sessions); i++ {
		require.NoError(t, <-errCh)
	}
}

func TestBookOutInventoryEndpoint(t *testing.T) {
	e := newTestEnv(t)
	owner := e.signup(t, "Thandi", "thandi@example.com")

	resp := e.do(t, http.MethodPost, "/api/inventory", owner.ID, models.InventoryItem{
		ID: "part-1", Name: "Oil Filter", Stock: 3,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodPost, "/api/inventory/part-1/bookout", owner.ID, map[string]any{
		"quantity": 2, "destination": "JOB-7",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/inventory", owner.ID, nil)
	items := decodeBody[[]models.InventoryItem](t, resp)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Stock)

	resp = e.do(t, http.MethodPost, "/api/inventory/ghost/bookout", owner.ID, map[string]any{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBillingStatusEndpoint(t *testing.T) {
	e := newTestEnv(t)
	owner := e.signup(t, "Thandi", "thandi@example.com")

	resp := e.do(t, http.MethodGet, "/api/billing/status", owner.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]any](t, resp)
	assert.Equal(t, "Trial", body["status"])
	assert.Nil(t, body["alert"])
}

func TestAdminRoutesForbiddenForOwners(t *testing.T) {
	e := newTestEnv(t)
	owner := e.signup(t, "Thandi", "thandi@example.com")

	resp := e.do(t, http.MethodGet, "/api/admin/verifications", owner.ID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestPaymentApprovalFlow(t *testing.T) {
	e := newTestEnv(t)
	owner := e.signup(t, "Thandi", "thandi@example.com")
	admin, err := e.users.AddStaff("", "Admin", "admin@example.com", "admin-pass-1", models.RoleAdmin, time.Now())
	require.NoError(t, err)

	require.NoError(t, e.global.AddPlan(models.SubscriptionPlan{
		ID: "plan-monthly", Name: "Workshop Monthly",
		Duration: models.DurationMonthly, Price: "499", Status: "Active",
	}))

	resp := e.do(t, http.MethodPost, "/api/payments", owner.ID, map[string]string{
		"planId": "plan-monthly", "amount": "499",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	v := decodeBody[models.PaymentVerification](t, resp)
	assert.Equal(t, owner.ID, v.WorkshopID)

	resp = e.do(t, http.MethodPost, fmt.Sprintf("/api/admin/verifications/%s/approve", v.ID), admin.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Double approval conflicts.
	resp = e.do(t, http.MethodPost, fmt.Sprintf("/api/admin/verifications/%s/approve", v.ID), admin.ID, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// The owner now sees a platform invoice and a paid-style status.
	resp = e.do(t, http.MethodGet, "/api/platform-invoices", owner.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	invs := decodeBody[[]models.PlatformInvoice](t, resp)
	require.Len(t, invs, 1)

	resp = e.do(t, http.MethodGet, "/api/billing/status", owner.ID, nil)
	body := decodeBody[map[string]any](t, resp)
	assert.Equal(t, "Paid", body["status"])
}

func TestRejectUnknownVerification(t *testing.T) {
	e := newTestEnv(t)
	admin, err := e.users.AddStaff("", "Admin", "admin@example.com", "admin-pass-1", models.RoleAdmin, time.Now())
	require.NoError(t, err)

	resp := e.do(t, http.MethodPost, "/api/admin/verifications/nope/reject", admin.ID, map[string]string{"notes": "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUnknownFieldsRejected(t *testing.T) {
	e := newTestEnv(t)
	owner := e.signup(t, "Thandi", "thandi@example.com")

	resp := e.do(t, http.MethodPost, "/api/quotes", owner.ID, map[string]any{
		"id": "q1", "definitelyNotAField": true,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
