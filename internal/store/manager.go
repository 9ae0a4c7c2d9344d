package store

import (
	"sync"

	"github.com/garagedesk/garagedesk/internal/kvstore"
	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/tenant"
)

// Manager hands out one Store per tenant, created on first use with
// double-checked locking. Sessions for different workshops run
// concurrently, so they must never contend over a shared active
// tenant; staff and owner resolve to the same instance.
type Manager struct {
	mu     sync.RWMutex
	kv     kvstore.Store
	stores map[string]*Store

	subMu       sync.Mutex
	subscribers []Subscriber
}

func NewManager(kv kvstore.Store) *Manager {
	return &Manager{kv: kv, stores: make(map[string]*Store)}
}

// Subscribe registers a change listener on every tenant store, current
// and future.
func (m *Manager) Subscribe(fn Subscriber) {
	m.subMu.Lock()
	m.subscribers = append(m.subscribers, fn)
	m.subMu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.stores {
		s.Subscribe(fn)
	}
}

// ForUser returns the store for the user's tenant, loading it on first
// access. The pending-seed marker is honored on every call, so a
// signup followed by a login into an already-loaded tenant still
// seeds exactly once.
func (m *Manager) ForUser(user *models.User) (*Store, error) {
	id := tenant.ID(user)

	m.mu.RLock()
	s, ok := m.stores[id]
	m.mu.RUnlock()
	if ok {
		if user != nil && user.ID != "" {
			if err := s.seedIfPending(user); err != nil {
				return nil, err
			}
		}
		return s, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stores[id]; ok {
		return s, nil
	}

	s = New(m.kv)
	m.subMu.Lock()
	for _, fn := range m.subscribers {
		s.Subscribe(fn)
	}
	m.subMu.Unlock()

	if err := s.SwitchTenant(user); err != nil {
		return nil, err
	}
	m.stores[id] = s
	return s, nil
}

// Peek returns the tenant's store only if it is already loaded.
func (m *Manager) Peek(tenantID string) (*Store, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.stores[tenantID]
	return s, ok
}

// AppendActivity writes to a tenant's feed through the live store when
// one is loaded, keeping its in-memory mirror current; a later write
// from that store must not clobber the entry. Unloaded tenants get a
// direct storage write.
func (m *Manager) AppendActivity(tenantID string, a models.Activity) error {
	if s, ok := m.Peek(tenantID); ok {
		return s.LogActivity(a)
	}
	return AppendActivity(m.kv, tenantID, a)
}

// ReloadCollection forwards an external write to whichever loaded
// store owns the key; the others ignore it.
func (m *Manager) ReloadCollection(key string) {
	m.mu.RLock()
	stores := make([]*Store, 0, len(m.stores))
	for _, s := range m.stores {
		stores = append(stores, s)
	}
	m.mu.RUnlock()

	for _, s := range stores {
		s.ReloadCollection(key)
	}
}

// Evict drops a tenant's store from the cache; the next request loads
// fresh from storage. Called on logout.
func (m *Manager) Evict(tenantID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, tenantID)
}
