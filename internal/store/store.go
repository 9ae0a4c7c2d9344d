// Package store holds the in-memory mirrors of a workshop's
// collections and the cross-tenant platform collections, persisting
// every mutation back to the key-value store at whole-collection
// granularity. A Store is always constructed explicitly and handed to
// its callers; there is no hidden package-level state, so switching
// tenants is an explicit, testable operation.
package store

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/garagedesk/garagedesk/internal/kvstore"
)

// Collection names. Combined with the namespace and a tenant id they
// form the storage keys.
const (
	ColQuotes      = "quotes"
	ColJobCards    = "job_cards"
	ColInvoices    = "invoices"
	ColInventory   = "inventory"
	ColCustomers   = "customers"
	ColTechnicians = "technicians"
	ColActivity    = "activity"
	ColCategories  = "categories"

	ColSupportTickets   = "support_tickets"
	ColVerifications    = "payment_verifications"
	ColPlatformInvoices = "platform_invoices"
	ColPlans            = "subscription_plans"
	ColBankDetails      = "bank_details"
	ColDisplayConfig    = "display_config"
	ColUsers            = "users"
)

// ChangeEvent describes a collection that was just rewritten. The UI
// layer subscribes to these to push live updates.
type ChangeEvent struct {
	Collection string `json:"collection"`
	TenantID   string `json:"tenantId,omitempty"`
}

// Subscriber receives change events. Callbacks run synchronously on
// the mutating goroutine and must not block.
type Subscriber func(ChangeEvent)

// loadList reads and decodes a stored collection. Missing keys and
// malformed values both yield an empty list; corruption must never
// take the application down.
func loadList[T any](kv kvstore.Store, key string) []T {
	data, ok, err := kv.Get(key)
	if err != nil || !ok {
		return nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Malformed stored collection, falling back to empty")
		return nil
	}
	return items
}

// saveList serializes the whole collection to its key. Write failures
// propagate to the caller.
func saveList[T any](kv kvstore.Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return kv.Set(key, data)
}
