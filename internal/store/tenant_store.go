package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/garagedesk/garagedesk/internal/kvstore"
	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/tenant"
)

// ErrNotFound reports that an operation's target id does not exist in
// its collection. Plain Update and Delete deliberately do NOT return
// it (missing targets are a silent no-op); operations that must
// distinguish "nothing to do" from "target vanished" do.
var ErrNotFound = errors.New("not found")

// Store mirrors the active tenant's collections in memory. Every
// mutation rewrites the affected collection under the tenant's key and
// notifies subscribers.
type Store struct {
	mu       sync.RWMutex
	kv       kvstore.Store
	tenantID string

	quotes      []models.Quote
	jobCards    []models.JobCard
	invoices    []models.Invoice
	inventory   []models.InventoryItem
	customers   []models.Customer
	technicians []models.Technician
	activities  []models.Activity
	categories  []models.Category

	subMu       sync.RWMutex
	subscribers []Subscriber
}

// New creates a Store with no active tenant. Call SwitchTenant before
// using the per-tenant collections.
func New(kv kvstore.Store) *Store {
	return &Store{kv: kv}
}

// Subscribe registers a change listener.
func (s *Store) Subscribe(fn Subscriber) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) notify(collection string) {
	s.subMu.RLock()
	subs := make([]Subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	tenantID := s.tenantID
	s.subMu.RUnlock()

	ev := ChangeEvent{Collection: collection, TenantID: tenantID}
	for _, fn := range subs {
		fn(ev)
	}
}

// TenantID returns the active tenant id, or empty when logged out.
func (s *Store) TenantID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tenantID
}

// SwitchTenant replaces all in-memory collections with the given
// user's persisted ones. It runs first-login seeding exactly once per
// user: a marker written at signup triggers a bulk demo-data seed and
// is deleted afterwards.
func (s *Store) SwitchTenant(user *models.User) error {
	id := tenant.ID(user)
	if !tenant.ValidID(id) {
		return fmt.Errorf("invalid tenant id: %q", id)
	}

	s.mu.Lock()
	s.tenantID = id
	s.quotes = loadList[models.Quote](s.kv, tenant.KeyFor(ColQuotes, id))
	s.jobCards = loadList[models.JobCard](s.kv, tenant.KeyFor(ColJobCards, id))
	s.invoices = loadList[models.Invoice](s.kv, tenant.KeyFor(ColInvoices, id))
	s.inventory = loadList[models.InventoryItem](s.kv, tenant.KeyFor(ColInventory, id))
	s.customers = loadList[models.Customer](s.kv, tenant.KeyFor(ColCustomers, id))
	s.technicians = loadList[models.Technician](s.kv, tenant.KeyFor(ColTechnicians, id))
	s.activities = loadList[models.Activity](s.kv, tenant.KeyFor(ColActivity, id))
	s.categories = loadList[models.Category](s.kv, tenant.KeyFor(ColCategories, id))
	s.mu.Unlock()

	if user != nil && user.ID != "" {
		if err := s.seedIfPending(user); err != nil {
			return err
		}
	}

	log.Debug().Str("tenant", id).Msg("Tenant collections loaded")
	return nil
}

// Clear empties all per-tenant collections without touching storage.
// Called on logout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenantID = ""
	s.quotes = nil
	s.jobCards = nil
	s.invoices = nil
	s.inventory = nil
	s.customers = nil
	s.technicians = nil
	s.activities = nil
	s.categories = nil
}

// ReloadCollection re-reads one collection from storage if the given
// key belongs to the active tenant. Used by the data-dir watcher when
// another writer rewrote a collection underneath us.
func (s *Store) ReloadCollection(key string) {
	s.mu.Lock()
	id := s.tenantID
	var col string
	switch key {
	case tenant.KeyFor(ColQuotes, id):
		s.quotes, col = loadList[models.Quote](s.kv, key), ColQuotes
	case tenant.KeyFor(ColJobCards, id):
		s.jobCards, col = loadList[models.JobCard](s.kv, key), ColJobCards
	case tenant.KeyFor(ColInvoices, id):
		s.invoices, col = loadList[models.Invoice](s.kv, key), ColInvoices
	case tenant.KeyFor(ColInventory, id):
		s.inventory, col = loadList[models.InventoryItem](s.kv, key), ColInventory
	case tenant.KeyFor(ColCustomers, id):
		s.customers, col = loadList[models.Customer](s.kv, key), ColCustomers
	case tenant.KeyFor(ColTechnicians, id):
		s.technicians, col = loadList[models.Technician](s.kv, key), ColTechnicians
	case tenant.KeyFor(ColActivity, id):
		s.activities, col = loadList[models.Activity](s.kv, key), ColActivity
	case tenant.KeyFor(ColCategories, id):
		s.categories, col = loadList[models.Category](s.kv, key), ColCategories
	}
	s.mu.Unlock()

	if col != "" {
		s.notify(col)
	}
}
