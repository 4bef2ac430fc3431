package main

import (
	"context"
	"errors"
	"log"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"servicedesk/internal/config"
	"servicedesk/internal/db"
	"servicedesk/internal/model"
	"servicedesk/internal/repository"
)

const seedPassword = "ChangeMe123!"

type seedUser struct {
	FirstName string
	LastName  string
	Email     string
	Position  string
	Role      model.Role
	Specialty string
}

var seedUsers = []seedUser{
	{"Alice", "Admin", "admin@example.com", "System Administrator", model.RoleAdmin, ""},
	{"Mark", "Mercer", "manager@example.com", "Operations Manager", model.RoleManager, ""},
	{"Carla", "Chen", "ceo@example.com", "Chief Executive", model.RoleCEO, ""},
	{"Tariq", "Torres", "plumber@example.com", "Field Technician", model.RoleTechnician, "plumbing"},
	{"Elena", "Edison", "electrician@example.com", "Field Technician", model.RoleTechnician, "electrical"},
	{"Sami", "Sales", "sales@example.com", "Account Executive", model.RoleSales, ""},
	{"Uma", "User", "user@example.com", "", model.RoleUser, ""},
}

var seedItems = []model.InventoryItem{
	{Name: "Copper pipe 22mm", Category: "plumbing", Quantity: 120, MinStockLevel: 20, UnitPrice: decimal.NewFromFloat(4.50), Supplier: "PipeCo", Location: "Warehouse A"},
	{Name: "Circuit breaker 16A", Category: "electrical", Quantity: 8, MinStockLevel: 10, UnitPrice: decimal.NewFromFloat(12.90), Supplier: "VoltSupply", Location: "Warehouse A"},
	{Name: "Thermostat unit", Category: "hvac", Quantity: 0, MinStockLevel: 5, UnitPrice: decimal.NewFromFloat(38.00), Supplier: "ClimateParts", Location: "Warehouse B"},
	{Name: "Door hinge set", Category: "carpentry", Quantity: 64, MinStockLevel: 15, UnitPrice: decimal.NewFromFloat(6.25), Supplier: "WoodWorks", Location: "Warehouse B"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.Profile{},
		&model.RoleAssignment{},
		&model.InventoryItem{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	profileRepo := repository.NewProfileRepository(gormDB)
	roleRepo := repository.NewRoleRepository(gormDB)
	inventoryRepo := repository.NewInventoryRepository(gormDB)

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), 10)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	created := 0
	for _, u := range seedUsers {
		existing, err := profileRepo.FindByEmail(ctx, u.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Failed to look up %s: %v", u.Email, err)
		}
		profile := existing
		if profile == nil {
			profile = &model.Profile{
				FirstName:    u.FirstName,
				LastName:     u.LastName,
				Email:        u.Email,
				PasswordHash: string(hash),
				Position:     u.Position,
			}
			if err := profileRepo.Create(ctx, profile); err != nil {
				log.Fatalf("Failed to create profile %s: %v", u.Email, err)
			}
			created++
		}
		if err := roleRepo.Upsert(ctx, &model.RoleAssignment{
			UserID:    profile.ID,
			Role:      u.Role,
			Specialty: u.Specialty,
		}); err != nil {
			log.Fatalf("Failed to assign role for %s: %v", u.Email, err)
		}
	}
	log.Printf("Profiles seeded (%d new, password %q)", created, seedPassword)

	existing, err := inventoryRepo.List(ctx, repository.InventoryFilter{})
	if err != nil {
		log.Fatalf("Failed to list inventory: %v", err)
	}
	if len(existing) == 0 {
		for i := range seedItems {
			if err := inventoryRepo.Create(ctx, &seedItems[i]); err != nil {
				log.Fatalf("Failed to create inventory item %q: %v", seedItems[i].Name, err)
			}
		}
		log.Printf("Inventory seeded (%d items)", len(seedItems))
	} else {
		log.Printf("Inventory already populated (%d items), skipping", len(existing))
	}

	log.Println("Seed completed successfully!")
}
