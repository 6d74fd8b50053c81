package main

import (
	"log"
	"os"

	"digestly-be/internal/model"
	"digestly-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: Extensions
	log.Println("Step 1: Setting up Extensions...")
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	models := model.All()
	log.Printf("Step 2: Running AutoMigrate for %d Tables...", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: constraints AutoMigrate cannot express
	log.Println("Step 3: Creating Indexes...")
	postMigrationSQL := []string{
		// A live digest slug is unique per team; soft-deleted rows keep theirs reserved in the service.
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_digests_team_slug ON digests (team_id, slug);`,
		// A team saves a link at most once.
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_bookmarks_team_link ON bookmarks (team_id, link_id);`,
	}
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
