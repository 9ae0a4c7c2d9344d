package models

import "time"

// Role identifies what a user can do inside their workshop.
type Role string

const (
	RoleOwner          Role = "Owner"
	RoleStaff          Role = "Staff"
	RoleServiceAdvisor Role = "Service Advisor"
	RoleTechnician     Role = "Technician"
	RoleAdmin          Role = "Admin" // platform back-office, not tenant-scoped
)

// User is an account in the global directory. Staff accounts carry the
// owning user's id in OwnerID; owners leave it empty. TrialStartDate is
// stamped at signup and cleared permanently once a payment is verified.
type User struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	Name               string     `json:"name"`
	PasswordHash       string     `json:"passwordHash,omitempty"`
	Role               Role       `json:"role"`
	OwnerID            string     `json:"ownerId,omitempty"`
	TrialStartDate     *time.Time `json:"trialStartDate,omitempty"`
	SubscriptionPlanID string     `json:"subscriptionPlanId,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// Sanitized returns a copy safe to hand to the UI layer.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
