package store

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/garagedesk/garagedesk/internal/kvstore"
	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/tenant"
)

// activityCap bounds each tenant's feed to the most recent entries.
const activityCap = 50

func (s *Store) Activities() []models.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyList(s.activities)
}

// LogActivity prepends an entry to the active tenant's feed. The id
// and timestamp are filled in here; ULIDs keep the feed sortable by
// creation time.
func (s *Store) LogActivity(a models.Activity) error {
	a.ID = ulid.Make().String()
	a.Timestamp = time.Now()
	return mutate(s, ColActivity, &s.activities, func(items []models.Activity) []models.Activity {
		return capActivities(prependItem(items, a))
	})
}

// AppendActivity writes an activity entry directly to a tenant's
// stored feed, bypassing any in-memory Store. Used by platform
// workflows (payment approval) that act on tenants other than the one
// currently loaded.
func AppendActivity(kv kvstore.Store, tenantID string, a models.Activity) error {
	a.ID = ulid.Make().String()
	a.Timestamp = time.Now()

	key := tenant.KeyFor(ColActivity, tenantID)
	items := loadList[models.Activity](kv, key)
	items = capActivities(prependItem(items, a))
	return saveList(kv, key, items)
}

func capActivities(items []models.Activity) []models.Activity {
	if len(items) > activityCap {
		items = items[:activityCap]
	}
	return items
}
