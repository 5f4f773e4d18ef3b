package main

import (
	"log"

	"bookbodh-be/internal/config"
	"bookbodh-be/internal/model"
	"bookbodh-be/pkg/database"

	"gorm.io/gorm/logger"
)

func main() {
	cfg := config.Load()

	// 1. Connect using the configured driver
	db, err := database.Open(cfg.Database.Driver, cfg.Database.Connection, logger.Info)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// 2. Pre-Migration (Postgres only)
	if cfg.Database.Driver != database.DriverSQLite {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
			log.Printf("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
		}
	}

	// 3. AutoMigrate
	models := model.Models()
	log.Printf("Running AutoMigrate for %d tables...", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("✅ Success: Database migration completed.")
}
