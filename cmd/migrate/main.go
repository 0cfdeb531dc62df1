package main

import (
	"log"
	"os"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cookiegate/internal/consentlog"
)

func main() {
	// Missing .env is the normal production case.
	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal(err)
	}

	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20260215_create_consent_log",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&consentlog.Entry{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("consent_log")
			},
		},
		{
			ID: "20260216_consent_log_action_check",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec(`ALTER TABLE consent_log ADD CONSTRAINT consent_log_action_check CHECK (action_type IN ('accept_all','reject_all','customize','revoke'));`).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Exec(`ALTER TABLE consent_log DROP CONSTRAINT IF EXISTS consent_log_action_check;`).Error
			},
		},
	})

	if err := m.Migrate(); err != nil {
		log.Fatal(err)
	}
	log.Println("Migrations applied")
}
