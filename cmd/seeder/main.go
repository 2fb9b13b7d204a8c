package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/dumu-tech/duka-pos/internal/config"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// SeedTender represents a payment method in the seed data JSON
type SeedTender struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Color          string `json:"color"`
	TillOrder      int    `json:"till_order"`
	Classification string `json:"classification"`
}

// TenderData holds the default tenders every fresh store starts with
var TenderData = []byte(`[
  { "name": "Cash", "description": "Cash drawer payments", "color": "#2e7d32", "till_order": 1, "classification": "cash" },
  { "name": "M-Pesa", "description": "Safaricom M-Pesa till payments", "color": "#1b5e20", "till_order": 2, "classification": "mobile_money" },
  { "name": "Airtel Money", "description": "Airtel Money payments", "color": "#c62828", "till_order": 3, "classification": "mobile_money" },
  { "name": "Card", "description": "Debit and credit card payments", "color": "#1565c0", "till_order": 4, "classification": "card" },
  { "name": "Voucher", "description": "Gift vouchers and store credit", "color": "#6a1b9a", "till_order": 5, "classification": "voucher" },
  { "name": "online", "description": "Online store checkout", "color": "#37474f", "till_order": 99, "classification": "online" }
]`)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.DBURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()

	seedTenders(ctx, db)
	seedAdminStaff(ctx, db)
}

func seedTenders(ctx context.Context, db *gorm.DB) {
	var tenders []SeedTender
	if err := json.Unmarshal(TenderData, &tenders); err != nil {
		log.Fatalf("Failed to parse tender data: %v", err)
	}

	inserted := 0
	updated := 0

	// Upsert tenders (update if exists by name, insert if not)
	for _, tender := range tenders {
		var existingID string
		result := db.WithContext(ctx).Table("tenders").
			Select("id").
			Where("name = ?", tender.Name).
			Limit(1).
			Scan(&existingID)

		if result.Error != nil && result.Error != gorm.ErrRecordNotFound {
			log.Fatalf("Failed to check existing tender %s: %v", tender.Name, result.Error)
		}

		if existingID != "" {
			if err := db.WithContext(ctx).Table("tenders").
				Where("id = ?", existingID).
				Updates(map[string]interface{}{
					"description":    tender.Description,
					"color":          tender.Color,
					"till_order":     tender.TillOrder,
					"classification": tender.Classification,
				}).Error; err != nil {
				log.Fatalf("Failed to update tender %s: %v", tender.Name, err)
			}
			updated++
		} else {
			if err := db.WithContext(ctx).Table("tenders").Create(map[string]interface{}{
				"id":             uuid.New().String(),
				"name":           tender.Name,
				"description":    tender.Description,
				"color":          tender.Color,
				"till_order":     tender.TillOrder,
				"classification": tender.Classification,
			}).Error; err != nil {
				log.Fatalf("Failed to insert tender %s: %v", tender.Name, err)
			}
			inserted++
		}
	}

	log.Printf("Tenders seeded: %d inserted, %d updated", inserted, updated)
}

func seedAdminStaff(ctx context.Context, db *gorm.DB) {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	pin := os.Getenv("SEED_ADMIN_PIN")
	if email == "" || pin == "" {
		log.Println("SEED_ADMIN_EMAIL / SEED_ADMIN_PIN not set, skipping admin seed")
		return
	}

	var existingID string
	result := db.WithContext(ctx).Table("staff").
		Select("id").
		Where("LOWER(email) = LOWER(?)", email).
		Limit(1).
		Scan(&existingID)
	if result.Error != nil && result.Error != gorm.ErrRecordNotFound {
		log.Fatalf("Failed to check existing admin: %v", result.Error)
	}
	if existingID != "" {
		log.Printf("Admin %s already exists, skipping", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin PIN: %v", err)
	}

	if err := db.WithContext(ctx).Table("staff").Create(map[string]interface{}{
		"id":        uuid.New().String(),
		"name":      "Store Admin",
		"email":     email,
		"pin_hash":  string(hash),
		"role":      "ADMIN",
		"is_active": true,
	}).Error; err != nil {
		log.Fatalf("Failed to insert admin staff: %v", err)
	}

	log.Printf("Admin staff %s created", email)
}
