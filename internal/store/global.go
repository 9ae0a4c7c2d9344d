package store

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/garagedesk/garagedesk/internal/kvstore"
	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/tenant"
)

// Global mirrors the cross-tenant platform collections: support
// tickets, the subscription plan catalog, payment verifications,
// platform invoices, bank details, and the pricing-page display
// config. Mechanics match the tenant Store (whole-collection rewrite
// on every mutation) but keys carry no tenant id; records that belong
// to a workshop reference it through an explicit WorkshopID field.
type Global struct {
	mu sync.RWMutex
	kv kvstore.Store

	tickets       []models.SupportTicket
	plans         []models.SubscriptionPlan
	verifications []models.PaymentVerification
	platformInvs  []models.PlatformInvoice
	bankDetails   models.BankDetails
	displayConfig models.DisplayConfig

	subMu       sync.RWMutex
	subscribers []Subscriber
}

// NewGlobal loads all global collections from storage.
func NewGlobal(kv kvstore.Store) *Global {
	g := &Global{kv: kv}
	g.tickets = loadList[models.SupportTicket](kv, tenant.GlobalKey(ColSupportTickets))
	g.plans = loadList[models.SubscriptionPlan](kv, tenant.GlobalKey(ColPlans))
	g.verifications = loadList[models.PaymentVerification](kv, tenant.GlobalKey(ColVerifications))
	g.platformInvs = loadList[models.PlatformInvoice](kv, tenant.GlobalKey(ColPlatformInvoices))
	g.bankDetails = loadValue[models.BankDetails](kv, tenant.GlobalKey(ColBankDetails))
	g.displayConfig = loadValue[models.DisplayConfig](kv, tenant.GlobalKey(ColDisplayConfig))
	return g
}

// loadValue reads a single stored record, degrading to the zero value
// on missing or malformed data.
func loadValue[T any](kv kvstore.Store, key string) T {
	var v T
	data, ok, err := kv.Get(key)
	if err != nil || !ok {
		return v
	}
	if err := json.Unmarshal(data, &v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Malformed stored value, falling back to default")
		var zero T
		return zero
	}
	return v
}

func saveValue[T any](kv kvstore.Store, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return kv.Set(key, data)
}

// Subscribe registers a change listener for global collections.
func (g *Global) Subscribe(fn Subscriber) {
	g.subMu.Lock()
	defer g.subMu.Unlock()
	g.subscribers = append(g.subscribers, fn)
}

func (g *Global) notify(collection string) {
	g.subMu.RLock()
	subs := make([]Subscriber, len(g.subscribers))
	copy(subs, g.subscribers)
	g.subMu.RUnlock()

	for _, fn := range subs {
		fn(ChangeEvent{Collection: collection})
	}
}

func mutateGlobal[T any](g *Global, collection string, target *[]T, fn func([]T) []T) error {
	g.mu.Lock()
	*target = fn(*target)
	err := saveList(g.kv, tenant.GlobalKey(collection), *target)
	g.mu.Unlock()
	if err != nil {
		log.Error().Err(err).Str("collection", collection).Msg("Failed to persist global collection")
		return err
	}
	g.notify(collection)
	return nil
}

// Subscription plans

func (g *Global) Plans() []models.SubscriptionPlan {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return copyList(g.plans)
}

func (g *Global) PlanByID(id string) (models.SubscriptionPlan, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, p := range g.plans {
		if p.ID == id {
			return p, true
		}
	}
	return models.SubscriptionPlan{}, false
}

func (g *Global) AddPlan(p models.SubscriptionPlan) error {
	return mutateGlobal(g, ColPlans, &g.plans, func(items []models.SubscriptionPlan) []models.SubscriptionPlan {
		return append(items, p)
	})
}

func (g *Global) UpdatePlan(p models.SubscriptionPlan) error {
	return mutateGlobal(g, ColPlans, &g.plans, func(items []models.SubscriptionPlan) []models.SubscriptionPlan {
		return replaceItem(items, p.ID, func(x models.SubscriptionPlan) string { return x.ID }, p)
	})
}

// Platform invoices. Created exclusively by the payment approval
// workflow; there is deliberately no update or delete.

func (g *Global) PlatformInvoices() []models.PlatformInvoice {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return copyList(g.platformInvs)
}

func (g *Global) AddPlatformInvoice(inv models.PlatformInvoice) error {
	return mutateGlobal(g, ColPlatformInvoices, &g.platformInvs, func(items []models.PlatformInvoice) []models.PlatformInvoice {
		return prependItem(items, inv)
	})
}

// Payment verifications

func (g *Global) Verifications() []models.PaymentVerification {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return copyList(g.verifications)
}

func (g *Global) VerificationByID(id string) (models.PaymentVerification, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, v := range g.verifications {
		if v.ID == id {
			return v, true
		}
	}
	return models.PaymentVerification{}, false
}

func (g *Global) AddVerification(v models.PaymentVerification) error {
	return mutateGlobal(g, ColVerifications, &g.verifications, func(items []models.PaymentVerification) []models.PaymentVerification {
		return prependItem(items, v)
	})
}

func (g *Global) UpdateVerification(v models.PaymentVerification) error {
	return mutateGlobal(g, ColVerifications, &g.verifications, func(items []models.PaymentVerification) []models.PaymentVerification {
		return replaceItem(items, v.ID, func(x models.PaymentVerification) string { return x.ID }, v)
	})
}

// Support tickets

func (g *Global) Tickets() []models.SupportTicket {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return copyList(g.tickets)
}

func (g *Global) TicketsForWorkshop(workshopID string) []models.SupportTicket {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []models.SupportTicket
	for _, t := range g.tickets {
		if t.WorkshopID == workshopID {
			out = append(out, t)
		}
	}
	return out
}

func (g *Global) AddTicket(t models.SupportTicket) error {
	return mutateGlobal(g, ColSupportTickets, &g.tickets, func(items []models.SupportTicket) []models.SupportTicket {
		return prependItem(items, t)
	})
}

// AppendTicketMessage adds a message to a ticket's thread. Messages
// are append-only; existing entries are never edited.
func (g *Global) AppendTicketMessage(ticketID string, msg models.TicketMessage) error {
	msg.Timestamp = time.Now()
	return mutateGlobal(g, ColSupportTickets, &g.tickets, func(items []models.SupportTicket) []models.SupportTicket {
		for i := range items {
			if items[i].ID == ticketID {
				items[i].Messages = append(items[i].Messages, msg)
				break
			}
		}
		return items
	})
}

func (g *Global) SetTicketStatus(ticketID string, status models.TicketStatus) error {
	return mutateGlobal(g, ColSupportTickets, &g.tickets, func(items []models.SupportTicket) []models.SupportTicket {
		for i := range items {
			if items[i].ID == ticketID {
				items[i].Status = status
				break
			}
		}
		return items
	})
}

// Bank details and display config

func (g *Global) BankDetails() models.BankDetails {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.bankDetails
}

func (g *Global) SetBankDetails(b models.BankDetails) error {
	g.mu.Lock()
	g.bankDetails = b
	err := saveValue(g.kv, tenant.GlobalKey(ColBankDetails), b)
	g.mu.Unlock()
	if err != nil {
		log.Error().Err(err).Str("collection", ColBankDetails).Msg("Failed to persist global collection")
		return err
	}
	g.notify(ColBankDetails)
	return nil
}

func (g *Global) DisplayConfig() models.DisplayConfig {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.displayConfig
}

func (g *Global) SetDisplayConfig(c models.DisplayConfig) error {
	g.mu.Lock()
	g.displayConfig = c
	err := saveValue(g.kv, tenant.GlobalKey(ColDisplayConfig), c)
	g.mu.Unlock()
	if err != nil {
		log.Error().Err(err).Str("collection", ColDisplayConfig).Msg("Failed to persist global collection")
		return err
	}
	g.notify(ColDisplayConfig)
	return nil
}
