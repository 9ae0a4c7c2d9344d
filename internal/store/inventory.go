package store

import (
	"fmt"
	"strings"
	"time"

	wildcard "github.com/IGLOU-EU/go-wildcard/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/tenant"
)

func (s *Store) Inventory() []models.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyList(s.inventory)
}

func (s *Store) AddInventoryItem(item models.InventoryItem) error {
	return mutate(s, ColInventory, &s.inventory, func(items []models.InventoryItem) []models.InventoryItem {
		return append(items, item)
	})
}

func (s *Store) UpdateInventoryItem(item models.InventoryItem) error {
	return mutate(s, ColInventory, &s.inventory, func(items []models.InventoryItem) []models.InventoryItem {
		return replaceItem(items, item.ID, func(x models.InventoryItem) string { return x.ID }, item)
	})
}

func (s *Store) DeleteInventoryItem(id string) error {
	return mutate(s, ColInventory, &s.inventory, func(items []models.InventoryItem) []models.InventoryItem {
		return removeItem(items, id, func(x models.InventoryItem) string { return x.ID })
	})
}

// BookOutInventory issues qty units of an item to a destination (a job
// card, a counter sale). Stock is floored at zero regardless of the
// requested quantity, and an immutable Issue transaction is prepended
// to the item's history. Returns ErrNotFound when the item id does not
// exist. The quantity must be positive; a negative issue would raise
// stock.
func (s *Store) BookOutInventory(itemID string, qty int, userName, destination string) error {
	if qty <= 0 {
		return fmt.Errorf("invalid book-out quantity %d", qty)
	}

	s.mu.Lock()
	idx := -1
	for i := range s.inventory {
		if s.inventory[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("inventory item %s: %w", itemID, ErrNotFound)
	}

	item := &s.inventory[idx]
	item.Stock -= qty
	if item.Stock < 0 {
		item.Stock = 0
	}
	item.History = append([]models.InventoryTransaction{{
		ID:          uuid.NewString(),
		Type:        "Issue",
		Quantity:    qty,
		UserName:    userName,
		Destination: destination,
		Timestamp:   time.Now(),
	}}, item.History...)

	err := saveList(s.kv, tenant.KeyFor(ColInventory, s.tenantID), s.inventory)
	s.mu.Unlock()
	if err != nil {
		log.Error().Err(err).Str("collection", ColInventory).Msg("Failed to persist collection")
		return err
	}
	s.notify(ColInventory)
	return nil
}

// SearchInventory returns items whose name, SKU, or category matches
// the wildcard pattern (case-insensitive).
func (s *Store) SearchInventory(pattern string) []models.InventoryItem {
	pattern = strings.ToLower(pattern)
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.InventoryItem
	for _, item := range s.inventory {
		if wildcard.Match(pattern, strings.ToLower(item.Name)) ||
			wildcard.Match(pattern, strings.ToLower(item.SKU)) ||
			wildcard.Match(pattern, strings.ToLower(item.Category)) {
			out = append(out, item)
		}
	}
	return out
}
