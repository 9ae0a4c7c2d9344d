package models

import "time"

// Quote is a priced proposal for workshop services, owned by one tenant.
type Quote struct {
	ID           string      `json:"id"`
	CustomerID   string      `json:"customerId"`
	CustomerName string      `json:"customerName"`
	Vehicle      string      `json:"vehicle"`
	Items        []LineItem  `json:"items"`
	Total        float64     `json:"total"`
	Status       QuoteStatus `json:"status"`
	Date         string      `json:"date"` // YYYY-MM-DD
	CreatedAt    time.Time   `json:"createdAt"`
}

type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "Draft"
	QuoteSent     QuoteStatus = "Sent"
	QuoteAccepted QuoteStatus = "Accepted"
	QuoteRejected QuoteStatus = "Rejected"
)

// LineItem is a single billed row on a quote or invoice.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// JobCard tracks a vehicle through the workshop floor.
type JobCard struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customerId"`
	CustomerName string    `json:"customerName"`
	Vehicle      string    `json:"vehicle"`
	Description  string    `json:"description"`
	Status       JobStatus `json:"status"`
	TechnicianID string    `json:"technicianId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type JobStatus string

const (
	JobOpen       JobStatus = "Open"
	JobInProgress JobStatus = "In Progress"
	JobAwaiting   JobStatus = "Awaiting Parts"
	JobCompleted  JobStatus = "Completed"
)

// Invoice is a customer-facing bill raised by the workshop.
type Invoice struct {
	ID           string     `json:"id"`
	CustomerID   string     `json:"customerId"`
	CustomerName string     `json:"customerName"`
	JobCardID    string     `json:"jobCardId,omitempty"`
	Items        []LineItem `json:"items"`
	Total        float64    `json:"total"`
	Status       string     `json:"status"` // Unpaid, Paid, Overdue
	Date         string     `json:"date"`   // YYYY-MM-DD
	CreatedAt    time.Time  `json:"createdAt"`
}

// InventoryItem is a stocked part. Stock never goes below zero;
// issues are recorded in History, newest first.
type InventoryItem struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	SKU      string                 `json:"sku"`
	Category string                 `json:"category"`
	Stock    int                    `json:"stock"`
	MinStock int                    `json:"minStock"`
	Price    float64                `json:"price"`
	History  []InventoryTransaction `json:"history,omitempty"`
}

// InventoryTransaction is an immutable record of stock movement.
type InventoryTransaction struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"` // Issue
	Quantity    int       `json:"quantity"`
	UserName    string    `json:"userName"`
	Destination string    `json:"destination"`
	Timestamp   time.Time `json:"timestamp"`
}

// Customer is a workshop client and their vehicles.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Vehicles  []string  `json:"vehicles,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Technician is a member of the workshop floor staff.
type Technician struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty,omitempty"`
	Active    bool   `json:"active"`
}

// Category labels inventory items and services.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Activity is one entry in the tenant's append-only activity feed.
// Feeds are capped at the 50 most recent entries.
type Activity struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Icon        string    `json:"icon,omitempty"`
	Color       string    `json:"color,omitempty"`
	Link        string    `json:"link,omitempty"`
}
