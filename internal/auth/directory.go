// Package auth owns the global user directory, credential checks, and
// the per-email login lockout counters. Session issuance and transport
// live outside the core; this package only answers "who is this user
// and may they log in".
package auth

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/garagedesk/garagedesk/internal/kvstore"
	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/store"
	"github.com/garagedesk/garagedesk/internal/tenant"
)

var ErrEmailTaken = errors.New("email already registered")

// Directory is the persisted global user list.
type Directory struct {
	mu    sync.RWMutex
	kv    kvstore.Store
	users []models.User
}

// NewDirectory loads the user directory from storage.
func NewDirectory(kv kvstore.Store) *Directory {
	d := &Directory{kv: kv}
	d.users = loadUsers(kv)
	return d
}

func loadUsers(kv kvstore.Store) []models.User {
	data, ok, err := kv.Get(tenant.GlobalKey(store.ColUsers))
	if err != nil || !ok {
		return nil
	}
	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		log.Warn().Err(err).Msg("Malformed user directory, falling back to empty")
		return nil
	}
	return users
}

func (d *Directory) persist() error {
	users := d.users
	if users == nil {
		users = []models.User{}
	}
	data, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return d.kv.Set(tenant.GlobalKey(store.ColUsers), data)
}

// Users returns a copy of the directory.
func (d *Directory) Users() []models.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.User, len(d.users))
	copy(out, d.users)
	return out
}

// FindByID returns the user with the given id.
func (d *Directory) FindByID(id string) (models.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// FindByEmail is case-insensitive on the email address.
func (d *Directory) FindByEmail(email string) (models.User, bool) {
	email = normalizeEmail(email)
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if normalizeEmail(u.Email) == email {
			return u, true
		}
	}
	return models.User{}, false
}

// FindOwner returns the user record that owns the given workshop, i.e.
// the account whose own id is the tenant id.
func (d *Directory) FindOwner(workshopID string) (models.User, bool) {
	return d.FindByID(workshopID)
}

// Update replaces the user record with a matching id and persists the
// directory. Missing ids are a silent no-op.
func (d *Directory) Update(u models.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.users {
		if d.users[i].ID == u.ID {
			d.users[i] = u
			break
		}
	}
	return d.persist()
}

// Signup creates a workshop owner account: hashed password, trial
// started now, and a pending seed marker so the first login populates
// demo data.
func (d *Directory) Signup(name, email, password string, now time.Time) (models.User, error) {
	if err := ValidatePassword(password); err != nil {
		return models.User{}, err
	}
	if _, exists := d.FindByEmail(email); exists {
		return models.User{}, ErrEmailTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	trialStart := now
	user := models.User{
		ID:             uuid.NewString(),
		Email:          normalizeEmail(email),
		Name:           name,
		PasswordHash:   hash,
		Role:           models.RoleOwner,
		TrialStartDate: &trialStart,
		CreatedAt:      now,
	}

	d.mu.Lock()
	d.users = append(d.users, user)
	err = d.persist()
	d.mu.Unlock()
	if err != nil {
		return models.User{}, err
	}

	if err := store.MarkSeedPending(d.kv, user.ID); err != nil {
		log.Error().Err(err).Str("user", user.ID).Msg("Failed to write seed marker")
		return models.User{}, err
	}

	log.Info().Str("user", user.ID).Msg("Workshop owner registered")
	return user, nil
}

// AddStaff creates a staff account under an owner's workshop.
func (d *Directory) AddStaff(ownerID, name, email, password string, role models.Role, now time.Time) (models.User, error) {
	if err := ValidatePassword(password); err != nil {
		return models.User{}, err
	}
	if _, exists := d.FindByEmail(email); exists {
		return models.User{}, ErrEmailTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(email),
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		OwnerID:      ownerID,
		CreatedAt:    now,
	}

	d.mu.Lock()
	d.users = append(d.users, user)
	err = d.persist()
	d.mu.Unlock()
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
