package database

import (
	"fmt"
	"log"
	"os"

	"juriszap-app/internal/domain/billing"
	"juriszap-app/internal/domain/plans"
	"juriszap-app/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("❌ DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}

	DB = db

	if err := DB.AutoMigrate(
		// core
		&users.User{},
		&users.VerificationToken{},
		&plans.Plan{},

		// billing
		&billing.Payment{},
		&billing.StripeEvent{},
	); err != nil {
		log.Fatal("❌ AutoMigrate error:", err)
	}

	fmt.Println("✅ Connected and migrated successfully")
}
