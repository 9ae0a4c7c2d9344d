package tenant

import (
	"testing"

	"github.com/garagedesk/garagedesk/internal/models"
)

func TestIDResolvesOwnerForStaff(t *testing.T) {
	owner := &models.User{ID: "u-owner", Role: models.RoleOwner}
	staff := &models.User{ID: "u-staff", OwnerID: "u-owner", Role: models.RoleStaff}

	if got := ID(owner); got != "u-owner" {
		t.Fatalf("owner tenant = %q", got)
	}
	if got := ID(staff); got != "u-owner" {
		t.Fatalf("staff tenant = %q, want owner's id", got)
	}
	// Staff and owner must land in the same partition.
	if ID(owner) != ID(staff) {
		t.Fatal("owner and staff resolved to different tenants")
	}
}

func TestIDFallsBackToGuest(t *testing.T) {
	if got := ID(nil); got != "guest" {
		t.Fatalf("nil user tenant = %q", got)
	}
	if got := ID(&models.User{}); got != "guest" {
		t.Fatalf("empty user tenant = %q", got)
	}
}

func TestKeyComposition(t *testing.T) {
	staff := &models.User{ID: "u-staff", OwnerID: "u-owner"}

	if got := Key("quotes", staff); got != "garagedesk_quotes_u-owner" {
		t.Fatalf("Key = %q", got)
	}
	if got := GlobalKey("users"); got != "garagedesk_users" {
		t.Fatalf("GlobalKey = %q", got)
	}
}

func TestValidID(t *testing.T) {
	for _, id := range []string{"u-1", "6e9c0f58", "guest"} {
		if !ValidID(id) {
			t.Errorf("ValidID(%q) = false", id)
		}
	}
	for _, id := range []string{"", ".", "..", "a/b", `a\b`} {
		if ValidID(id) {
			t.Errorf("ValidID(%q) = true", id)
		}
	}
}
