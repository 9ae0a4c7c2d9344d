package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garagedesk/garagedesk/internal/kvstore"
	"github.com/garagedesk/garagedesk/internal/models"
)

func newTestDirectory(t *testing.T) (*Directory, kvstore.Store) {
	t.Helper()
	kv, err := kvstore.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewDirectory(kv), kv
}

var signupTime = time.Date(2026, time.May, 4, 9, 0, 0, 0, time.UTC)

func TestSignupCreatesOwnerWithTrial(t *testing.T) {
	d, _ := newTestDirectory(t)

	user, err := d.Signup("Thandi", "Thandi@Example.com ", "correct-horse", signupTime)
	require.NoError(t, err)

	assert.Equal(t, models.RoleOwner, user.Role)
	assert.Equal(t, "thandi@example.com", user.Email)
	require.NotNil(t, user.TrialStartDate)
	assert.Equal(t, signupTime, *user.TrialStartDate)
	assert.Empty(t, user.OwnerID)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	d, _ := newTestDirectory(t)

	_, err := d.Signup("Thandi", "thandi@example.com", "correct-horse", signupTime)
	require.NoError(t, err)

	_, err = d.Signup("Imposter", "THANDI@example.com", "other-password", signupTime)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignupRejectsShortPassword(t *testing.T) {
	d, _ := newTestDirectory(t)
	_, err := d.Signup("Thandi", "thandi@example.com", "short", signupTime)
	assert.Error(t, err)
}

func TestDirectorySurvivesReload(t *testing.T) {
	d, kv := newTestDirectory(t)
	user, err := d.Signup("Thandi", "thandi@example.com", "correct-horse", signupTime)
	require.NoError(t, err)

	reloaded := NewDirectory(kv)
	got, ok := reloaded.FindByID(user.ID)
	require.True(t, ok)
	assert.Equal(t, user.Email, got.Email)
}

func TestAddStaffSharesOwnerTenant(t *testing.T) {
	d, _ := newTestDirectory(t)
	owner, err := d.Signup("Thandi", "thandi@example.com", "correct-horse", signupTime)
	require.NoError(t, err)

	staff, err := d.AddStaff(owner.ID, "Sipho", "sipho@example.com", "another-pass", models.RoleTechnician, signupTime)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, staff.OwnerID)
	assert.Nil(t, staff.TrialStartDate)
}

func TestLoginSuccess(t *testing.T) {
	d, _ := newTestDirectory(t)
	_, err := d.Signup("Thandi", "thandi@example.com", "correct-horse", signupTime)
	require.NoError(t, err)

	res := d.Login("thandi@example.com", "correct-horse", signupTime)
	require.True(t, res.Success)
	require.NotNil(t, res.User)
	assert.Equal(t, "thandi@example.com", res.User.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	d, _ := newTestDirectory(t)
	_, err := d.Signup("Thandi", "thandi@example.com", "correct-horse", signupTime)
	require.NoError(t, err)

	res := d.Login("thandi@example.com", "wrong", signupTime)
	assert.False(t, res.Success)
	assert.Equal(t, "Incorrect email or password.", res.Error)
}

func TestLockoutAfterThreeFailures(t *testing.T) {
	d, _ := newTestDirectory(t)
	_, err := d.Signup("Thandi", "thandi@example.com", "correct-horse", signupTime)
	require.NoError(t, err)

	now := signupTime
	for i := 0; i < 3; i++ {
		res := d.Login("thandi@example.com", "wrong", now)
		assert.False(t, res.Success)
	}

	// Even the correct password is refused while locked.
	res := d.Login("thandi@example.com", "correct-horse", now.Add(30*time.Second))
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "Too many failed attempts")
}

func TestLockoutExpiresAfterCooldown(t *testing.T) {
	d, _ := newTestDirectory(t)
	_, err := d.Signup("Thandi", "thandi@example.com", "correct-horse", signupTime)
	require.NoError(t, err)

	now := signupTime
	for i := 0; i < 3; i++ {
		d.Login("thandi@example.com", "wrong", now)
	}

	res := d.Login("thandi@example.com", "correct-horse", now.Add(2*time.Minute+time.Second))
	assert.True(t, res.Success)
}

func TestLockoutClearedBySuccess(t *testing.T) {
	d, _ := newTestDirectory(t)
	_, err := d.Signup("Thandi", "thandi@example.com", "correct-horse", signupTime)
	require.NoError(t, err)

	now := signupTime
	d.Login("thandi@example.com", "wrong", now)
	d.Login("thandi@example.com", "wrong", now)

	res := d.Login("thandi@example.com", "correct-horse", now)
	require.True(t, res.Success)

	// The counter restarted, so two more failures do not lock.
	d.Login("thandi@example.com", "wrong", now)
	d.Login("thandi@example.com", "wrong", now)
	res = d.Login("thandi@example.com", "correct-horse", now)
	assert.True(t, res.Success)
}

func TestLockoutSurvivesRestart(t *testing.T) {
	d, kv := newTestDirectory(t)
	_, err := d.Signup("Thandi", "thandi@example.com", "correct-horse", signupTime)
	require.NoError(t, err)

	now := signupTime
	for i := 0; i < 3; i++ {
		d.Login("thandi@example.com", "wrong", now)
	}

	reloaded := NewDirectory(kv)
	res := reloaded.Login("thandi@example.com", "correct-horse", now.Add(10*time.Second))
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "Too many failed attempts")
}

func TestLoginUnknownEmailCountsTowardLockout(t *testing.T) {
	d, _ := newTestDirectory(t)

	now := signupTime
	for i := 0; i < 3; i++ {
		res := d.Login("nobody@example.com", "whatever", now)
		assert.False(t, res.Success)
	}
	res := d.Login("nobody@example.com", "whatever", now)
	assert.Contains(t, res.Error, "Too many failed attempts")
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("1234567"))
	assert.NoError(t, ValidatePassword("12345678"))
}
