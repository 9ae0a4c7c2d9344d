// Package tenant maps an authenticated user to their workshop's data
// partition. A workshop is identified by its owning user's id; staff
// accounts resolve to their owner, so everyone in the same workshop
// observes the same collections.
package tenant

import (
	"fmt"

	"github.com/garagedesk/garagedesk/internal/models"
)

// Namespace prefixes every storage key this application writes.
const Namespace = "garagedesk"

// ID resolves the tenant id for a user: the owner's id for staff, the
// user's own id for owners, "guest" when no user is present.
func ID(u *models.User) string {
	if u == nil {
		return "guest"
	}
	if u.OwnerID != "" {
		return u.OwnerID
	}
	if u.ID != "" {
		return u.ID
	}
	return "guest"
}

// Key composes the storage key for one of a user's collections.
func Key(collection string, u *models.User) string {
	return KeyFor(collection, ID(u))
}

// KeyFor composes the storage key for a collection under an explicit
// tenant id.
func KeyFor(collection, tenantID string) string {
	return fmt.Sprintf("%s_%s_%s", Namespace, collection, tenantID)
}

// GlobalKey composes the storage key for a cross-tenant collection.
func GlobalKey(collection string) string {
	return Namespace + "_" + collection
}

// ValidID rejects tenant ids that could not have been issued by the
// directory (empty, dot segments, separators). File-backed storage
// composes paths from these ids, so malformed ones are refused before
// they reach a key.
func ValidID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	for _, r := range id {
		switch r {
		case '/', '\\', 0:
			return false
		}
	}
	return true
}
