package models

import "time"

// PlanDuration is the billing term of a subscription plan.
type PlanDuration string

const (
	DurationMonthly   PlanDuration = "Monthly"
	DurationYearly    PlanDuration = "Yearly"
	DurationThreeYear PlanDuration = "3-Year"
)

// SubscriptionPlan is a platform-level plan offered to workshops.
// Plans are created and edited by platform admins and never deleted
// automatically.
type SubscriptionPlan struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Price    string       `json:"price"` // decimal, string-encoded
	Duration PlanDuration `json:"duration"`
	Features []string     `json:"features"`
	Popular  bool         `json:"popular"`
	Status   string       `json:"status"` // Active, Inactive
}

// PlatformInvoice records a verified subscription payment. It is
// created exclusively by approving a payment verification and is
// immutable afterwards; plan name and duration are snapshots taken at
// approval time, not live references.
type PlatformInvoice struct {
	ID         string       `json:"id"`
	WorkshopID string       `json:"workshopId"`
	Date       string       `json:"date"` // YYYY-MM-DD
	PlanName   string       `json:"planName"`
	Duration   PlanDuration `json:"duration"`
	Amount     string       `json:"amount"`
	Status     string       `json:"status"` // always created as Paid
}

const InvoicePaid = "Paid"

// VerificationStatus is the lifecycle of a proof-of-payment record.
// Pending is the only non-terminal state.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "Pending"
	VerificationApproved VerificationStatus = "Approved"
	VerificationRejected VerificationStatus = "Rejected"
)

// PaymentVerification is a tenant-submitted claim of payment awaiting
// an admin decision.
type PaymentVerification struct {
	ID         string             `json:"id"`
	WorkshopID string             `json:"workshopId"`
	PlanID     string             `json:"planId"`
	Amount     string             `json:"amount"`
	Status     VerificationStatus `json:"status"`
	Timestamp  time.Time          `json:"timestamp"`
	Notes      string             `json:"notes,omitempty"`
}

// TicketStatus is the workflow state of a support ticket.
type TicketStatus string

const (
	TicketOpen            TicketStatus = "Open"
	TicketPendingResponse TicketStatus = "Pending Response"
	TicketInProgress      TicketStatus = "In Progress"
	TicketResolved        TicketStatus = "Resolved"
)

// SupportTicket is a cross-tenant conversation between a workshop and
// platform support. Messages are append-only.
type SupportTicket struct {
	ID         string          `json:"id"`
	WorkshopID string          `json:"workshopId"`
	Subject    string          `json:"subject"`
	Status     TicketStatus    `json:"status"`
	Messages   []TicketMessage `json:"messages"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// TicketMessage is one entry in a support ticket thread.
type TicketMessage struct {
	SenderName string    `json:"senderName"`
	Role       Role      `json:"role"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

// BankDetails is the platform account tenants pay subscriptions into.
type BankDetails struct {
	BankName      string `json:"bankName"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	BranchCode    string `json:"branchCode,omitempty"`
	Reference     string `json:"reference,omitempty"`
}

// DisplayConfig holds admin-editable presentation settings for the
// public pricing page.
type DisplayConfig struct {
	Currency        string `json:"currency"`
	HighlightPlanID string `json:"highlightPlanId,omitempty"`
	ShowYearly      bool   `json:"showYearly"`
}
