package store

import (
	"strings"

	wildcard "github.com/IGLOU-EU/go-wildcard/v2"
	"github.com/rs/zerolog/log"

	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/tenant"
)

// List mutation primitives shared by every collection. Update and
// remove are silent no-ops when the id is absent; callers that need to
// know use the operations that return ErrNotFound.

func prependItem[T any](items []T, item T) []T {
	return append([]T{item}, items...)
}

func replaceItem[T any](items []T, id string, idOf func(T) string, item T) []T {
	for i := range items {
		if idOf(items[i]) == id {
			items[i] = item
			break
		}
	}
	return items
}

func removeItem[T any](items []T, id string, idOf func(T) string) []T {
	for i := range items {
		if idOf(items[i]) == id {
			return append(items[:i], items[i+1:]...)
		}
	}
	return items
}

func copyList[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// mutate applies fn to a collection slice, rewrites the collection
// under the active tenant's key, and notifies subscribers. Persistence
// failures are logged and returned, never swallowed.
func mutate[T any](s *Store, collection string, target *[]T, fn func([]T) []T) error {
	s.mu.Lock()
	*target = fn(*target)
	err := saveList(s.kv, tenant.KeyFor(collection, s.tenantID), *target)
	s.mu.Unlock()
	if err != nil {
		log.Error().Err(err).Str("collection", collection).Msg("Failed to persist collection")
		return err
	}
	s.notify(collection)
	return nil
}

// Quotes

func (s *Store) Quotes() []models.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyList(s.quotes)
}

func (s *Store) AddQuote(q models.Quote) error {
	return mutate(s, ColQuotes, &s.quotes, func(items []models.Quote) []models.Quote {
		return prependItem(items, q)
	})
}

func (s *Store) UpdateQuote(q models.Quote) error {
	return mutate(s, ColQuotes, &s.quotes, func(items []models.Quote) []models.Quote {
		return replaceItem(items, q.ID, func(x models.Quote) string { return x.ID }, q)
	})
}

func (s *Store) DeleteQuote(id string) error {
	return mutate(s, ColQuotes, &s.quotes, func(items []models.Quote) []models.Quote {
		return removeItem(items, id, func(x models.Quote) string { return x.ID })
	})
}

// Job cards

func (s *Store) JobCards() []models.JobCard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyList(s.jobCards)
}

func (s *Store) AddJobCard(j models.JobCard) error {
	return mutate(s, ColJobCards, &s.jobCards, func(items []models.JobCard) []models.JobCard {
		return prependItem(items, j)
	})
}

func (s *Store) UpdateJobCard(j models.JobCard) error {
	return mutate(s, ColJobCards, &s.jobCards, func(items []models.JobCard) []models.JobCard {
		return replaceItem(items, j.ID, func(x models.JobCard) string { return x.ID }, j)
	})
}

func (s *Store) DeleteJobCard(id string) error {
	return mutate(s, ColJobCards, &s.jobCards, func(items []models.JobCard) []models.JobCard {
		return removeItem(items, id, func(x models.JobCard) string { return x.ID })
	})
}

// Invoices

func (s *Store) Invoices() []models.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyList(s.invoices)
}

func (s *Store) AddInvoice(inv models.Invoice) error {
	return mutate(s, ColInvoices, &s.invoices, func(items []models.Invoice) []models.Invoice {
		return prependItem(items, inv)
	})
}

func (s *Store) UpdateInvoice(inv models.Invoice) error {
	return mutate(s, ColInvoices, &s.invoices, func(items []models.Invoice) []models.Invoice {
		return replaceItem(items, inv.ID, func(x models.Invoice) string { return x.ID }, inv)
	})
}

func (s *Store) DeleteInvoice(id string) error {
	return mutate(s, ColInvoices, &s.invoices, func(items []models.Invoice) []models.Invoice {
		return removeItem(items, id, func(x models.Invoice) string { return x.ID })
	})
}

// Customers

func (s *Store) Customers() []models.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyList(s.customers)
}

func (s *Store) AddCustomer(c models.Customer) error {
	return mutate(s, ColCustomers, &s.customers, func(items []models.Customer) []models.Customer {
		return prependItem(items, c)
	})
}

func (s *Store) UpdateCustomer(c models.Customer) error {
	return mutate(s, ColCustomers, &s.customers, func(items []models.Customer) []models.Customer {
		return replaceItem(items, c.ID, func(x models.Customer) string { return x.ID }, c)
	})
}

func (s *Store) DeleteCustomer(id string) error {
	return mutate(s, ColCustomers, &s.customers, func(items []models.Customer) []models.Customer {
		return removeItem(items, id, func(x models.Customer) string { return x.ID })
	})
}

// SearchCustomers returns customers whose name, email, or phone
// matches the wildcard pattern (case-insensitive, * and ? supported).
func (s *Store) SearchCustomers(pattern string) []models.Customer {
	pattern = strings.ToLower(pattern)
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Customer
	for _, c := range s.customers {
		if wildcard.Match(pattern, strings.ToLower(c.Name)) ||
			wildcard.Match(pattern, strings.ToLower(c.Email)) ||
			wildcard.Match(pattern, strings.ToLower(c.Phone)) {
			out = append(out, c)
		}
	}
	return out
}

// Technicians. Unlike the document collections these keep natural
// (insertion) order, so Add appends.

func (s *Store) Technicians() []models.Technician {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyList(s.technicians)
}

func (s *Store) AddTechnician(t models.Technician) error {
	return mutate(s, ColTechnicians, &s.technicians, func(items []models.Technician) []models.Technician {
		return append(items, t)
	})
}

func (s *Store) UpdateTechnician(t models.Technician) error {
	return mutate(s, ColTechnicians, &s.technicians, func(items []models.Technician) []models.Technician {
		return replaceItem(items, t.ID, func(x models.Technician) string { return x.ID }, t)
	})
}

func (s *Store) DeleteTechnician(id string) error {
	return mutate(s, ColTechnicians, &s.technicians, func(items []models.Technician) []models.Technician {
		return removeItem(items, id, func(x models.Technician) string { return x.ID })
	})
}

// Categories

func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyList(s.categories)
}

func (s *Store) AddCategory(c models.Category) error {
	return mutate(s, ColCategories, &s.categories, func(items []models.Category) []models.Category {
		return append(items, c)
	})
}

func (s *Store) DeleteCategory(id string) error {
	return mutate(s, ColCategories, &s.categories, func(items []models.Category) []models.Category {
		return removeItem(items, id, func(x models.Category) string { return x.ID })
	})
}
