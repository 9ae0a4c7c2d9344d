package auth

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/tenant"
)

const (
	maxFailedAttempts = 3
	lockoutDuration   = 2 * time.Minute
)

// LoginResult is the structured outcome of a login attempt. Failures
// are reported here, never as an error value; only storage faults
// escape as errors elsewhere.
type LoginResult struct {
	Success bool         `json:"success"`
	Error   string       `json:"error,omitempty"`
	User    *models.User `json:"user,omitempty"`
}

// lockoutRecord is persisted per email address so repeated failures
// survive a restart.
type lockoutRecord struct {
	Count       int       `json:"count"`
	LockedUntil time.Time `json:"lockedUntil"`
}

func lockoutKey(email string) string {
	// Addresses never legitimately contain path separators; replacing
	// them is a backstop so a hostile input cannot form a bad key.
	return tenant.GlobalKey("lockout_" + strings.ReplaceAll(normalizeEmail(email), "/", "_"))
}

// Login checks credentials against the directory, enforcing the
// per-email lockout: three failed attempts lock the address for two
// minutes. A successful login clears the counter.
func (d *Directory) Login(email, password string, now time.Time) LoginResult {
	email = normalizeEmail(email)

	if until, locked := d.lockedUntil(email, now); locked {
		remaining := until.Sub(now).Round(time.Second)
		return LoginResult{Error: fmt.Sprintf("Too many failed attempts. Try again in %s.", remaining)}
	}

	user, found := d.FindByEmail(email)
	if !found || !CheckPasswordHash(password, user.PasswordHash) {
		d.recordFailure(email, now)
		return LoginResult{Error: "Incorrect email or password."}
	}

	d.clearFailures(email)
	return LoginResult{Success: true, User: &user}
}

func (d *Directory) lockedUntil(email string, now time.Time) (time.Time, bool) {
	rec := d.loadLockout(email)
	if rec == nil {
		return time.Time{}, false
	}
	if rec.Count >= maxFailedAttempts && now.Before(rec.LockedUntil) {
		return rec.LockedUntil, true
	}
	if !rec.LockedUntil.IsZero() && !now.Before(rec.LockedUntil) {
		// Cool-down elapsed; the counter starts over.
		d.clearFailures(email)
	}
	return time.Time{}, false
}

func (d *Directory) recordFailure(email string, now time.Time) {
	rec := d.loadLockout(email)
	if rec == nil {
		rec = &lockoutRecord{}
	}
	rec.Count++
	if rec.Count >= maxFailedAttempts {
		rec.LockedUntil = now.Add(lockoutDuration)
		log.Warn().Str("email", email).Int("attempts", rec.Count).
			Time("locked_until", rec.LockedUntil).
			Msg("Login locked after repeated failures")
	}

	data, err := json.Marshal(rec)
	if err == nil {
		err = d.kv.Set(lockoutKey(email), data)
	}
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to persist lockout counter")
	}
}

func (d *Directory) clearFailures(email string) {
	if err := d.kv.Delete(lockoutKey(email)); err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to clear lockout counter")
	}
}

func (d *Directory) loadLockout(email string) *lockoutRecord {
	data, ok, err := d.kv.Get(lockoutKey(email))
	if err != nil || !ok {
		return nil
	}
	var rec lockoutRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil
	}
	return &rec
}
