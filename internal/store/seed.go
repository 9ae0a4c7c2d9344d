package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"github.com/garagedesk/garagedesk/internal/kvstore"
	"github.com/garagedesk/garagedesk/internal/models"
	"github.com/garagedesk/garagedesk/internal/tenant"
)

// SeedMarkerKey is the storage key of the one-shot marker that makes a
// user's first login seed demo data. Written at signup, deleted after
// seeding, so the seed fires exactly once.
func SeedMarkerKey(userID string) string {
	return tenant.GlobalKey("seed_pending_" + userID)
}

// MarkSeedPending records that the user's first login should seed demo
// data into their workshop.
func MarkSeedPending(kv kvstore.Store, userID string) error {
	return kv.Set(SeedMarkerKey(userID), []byte(`{"pending":true}`))
}

// seedIfPending checks the user's seed marker and, when present, bulk
// loads demo data into the tenant's empty collections. The marker is
// deleted before returning; a collection that already has data is left
// alone.
func (s *Store) seedIfPending(user *models.User) error {
	key := SeedMarkerKey(user.ID)
	_, pending, err := s.kv.Get(key)
	if err != nil || !pending {
		return err
	}

	log.Info().Str("tenant", s.tenantID).Msg("Seeding demo data for first login")

	s.mu.Lock()
	now := time.Now()
	today := now.Format("2006-01-02")

	if len(s.customers) == 0 {
		s.customers = demoCustomers(now)
	}
	if len(s.inventory) == 0 {
		s.inventory = demoInventory()
	}
	if len(s.technicians) == 0 {
		s.technicians = demoTechnicians()
	}
	if len(s.categories) == 0 {
		s.categories = demoCategories()
	}
	if len(s.jobCards) == 0 && len(s.customers) > 0 {
		s.jobCards = demoJobCards(s.customers, now)
	}
	if len(s.quotes) == 0 && len(s.customers) > 0 {
		s.quotes = demoQuotes(s.customers, today, now)
	}
	if len(s.invoices) == 0 && len(s.customers) > 0 {
		s.invoices = demoInvoices(s.customers, today, now)
	}
	if len(s.activities) == 0 {
		s.activities = []models.Activity{{
			ID:          ulid.Make().String(),
			Type:        "welcome",
			Title:       "Welcome to GarageDesk",
			Description: "Your workshop has been set up with sample data. Explore, then replace it with your own.",
			Timestamp:   now,
			Icon:        "sparkles",
			Color:       "blue",
		}}
	}

	id := s.tenantID
	var firstErr error
	for _, save := range []func() error{
		func() error { return saveList(s.kv, tenant.KeyFor(ColCustomers, id), s.customers) },
		func() error { return saveList(s.kv, tenant.KeyFor(ColInventory, id), s.inventory) },
		func() error { return saveList(s.kv, tenant.KeyFor(ColTechnicians, id), s.technicians) },
		func() error { return saveList(s.kv, tenant.KeyFor(ColCategories, id), s.categories) },
		func() error { return saveList(s.kv, tenant.KeyFor(ColJobCards, id), s.jobCards) },
		func() error { return saveList(s.kv, tenant.KeyFor(ColQuotes, id), s.quotes) },
		func() error { return saveList(s.kv, tenant.KeyFor(ColInvoices, id), s.invoices) },
		func() error { return saveList(s.kv, tenant.KeyFor(ColActivity, id), s.activities) },
	} {
		if err := save(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.mu.Unlock()

	if err := s.kv.Delete(key); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func demoCustomers(now time.Time) []models.Customer {
	return []models.Customer{
		{ID: uuid.NewString(), Name: "Thandi Mokoena", Email: "thandi@example.com", Phone: "082 555 0101", Vehicles: []string{"2018 VW Polo"}, CreatedAt: now},
		{ID: uuid.NewString(), Name: "Pieter van Wyk", Email: "pieter@example.com", Phone: "083 555 0102", Vehicles: []string{"2015 Toyota Hilux"}, CreatedAt: now},
		{ID: uuid.NewString(), Name: "Ayesha Khan", Email: "ayesha@example.com", Phone: "084 555 0103", Vehicles: []string{"2020 Ford Ranger", "2012 Honda Jazz"}, CreatedAt: now},
	}
}

func demoInventory() []models.InventoryItem {
	return []models.InventoryItem{
		{ID: uuid.NewString(), Name: "Oil Filter", SKU: "OF-1042", Category: "Filters", Stock: 24, MinStock: 5, Price: 89.50},
		{ID: uuid.NewString(), Name: "Brake Pads (Front)", SKU: "BP-2201", Category: "Brakes", Stock: 12, MinStock: 4, Price: 450.00},
		{ID: uuid.NewString(), Name: "5W-30 Engine Oil 5L", SKU: "EO-5530", Category: "Lubricants", Stock: 18, MinStock: 6, Price: 320.00},
		{ID: uuid.NewString(), Name: "Wiper Blade Set", SKU: "WB-0310", Category: "Exterior", Stock: 9, MinStock: 3, Price: 150.00},
	}
}

func demoTechnicians() []models.Technician {
	return []models.Technician{
		{ID: uuid.NewString(), Name: "Sipho Dlamini", Specialty: "Engine & Drivetrain", Active: true},
		{ID: uuid.NewString(), Name: "Marius Botha", Specialty: "Electrical", Active: true},
	}
}

func demoCategories() []models.Category {
	return []models.Category{
		{ID: uuid.NewString(), Name: "Filters"},
		{ID: uuid.NewString(), Name: "Brakes"},
		{ID: uuid.NewString(), Name: "Lubricants"},
		{ID: uuid.NewString(), Name: "Exterior"},
	}
}

func demoJobCards(customers []models.Customer, now time.Time) []models.JobCard {
	return []models.JobCard{
		{ID: uuid.NewString(), CustomerID: customers[0].ID, CustomerName: customers[0].Name, Vehicle: customers[0].Vehicles[0], Description: "60k km service", Status: models.JobInProgress, CreatedAt: now},
		{ID: uuid.NewString(), CustomerID: customers[1].ID, CustomerName: customers[1].Name, Vehicle: customers[1].Vehicles[0], Description: "Brake squeal, inspect front pads", Status: models.JobOpen, CreatedAt: now},
	}
}

func demoQuotes(customers []models.Customer, today string, now time.Time) []models.Quote {
	return []models.Quote{
		{
			ID: uuid.NewString(), CustomerID: customers[2].ID, CustomerName: customers[2].Name,
			Vehicle: customers[2].Vehicles[0], Status: models.QuoteSent, Date: today, CreatedAt: now,
			Items: []models.LineItem{{Description: "Clutch replacement", Quantity: 1, UnitPrice: 6800}},
			Total: 6800,
		},
		{
			ID: uuid.NewString(), CustomerID: customers[0].ID, CustomerName: customers[0].Name,
			Vehicle: customers[0].Vehicles[0], Status: models.QuoteDraft, Date: today, CreatedAt: now,
			Items: []models.LineItem{{Description: "Cambelt kit", Quantity: 1, UnitPrice: 3200}, {Description: "Labour", Quantity: 3, UnitPrice: 550}},
			Total: 4850,
		},
	}
}

func demoInvoices(customers []models.Customer, today string, now time.Time) []models.Invoice {
	return []models.Invoice{
		{
			ID: uuid.NewString(), CustomerID: customers[1].ID, CustomerName: customers[1].Name,
			Status: "Paid", Date: today, CreatedAt: now,
			Items: []models.LineItem{{Description: "Minor service", Quantity: 1, UnitPrice: 1450}},
			Total: 1450,
		},
		{
			ID: uuid.NewString(), CustomerID: customers[2].ID, CustomerName: customers[2].Name,
			Status: "Unpaid", Date: today, CreatedAt: now,
			Items: []models.LineItem{{Description: "Aircon regas", Quantity: 1, UnitPrice: 850}},
			Total: 850,
		},
	}
}
