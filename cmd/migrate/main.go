package main

import (
	"github.com/PRASANNA3300/BuyNow/internal/config"     // Custom import path (Config)
	dbsetup "github.com/PRASANNA3300/BuyNow/internal/db" // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
)

// Main entry point for migration and seeding
func main() {
	cfg := config.LoadConfig() // Load configuration

	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := dbsetup.Migrate(db); err != nil {
		logrus.Fatalf("failed to migrate DB: %v", err)
	}
	if err := dbsetup.Seed(db); err != nil {
		logrus.Fatalf("failed to seed DB: %v", err)
	}
	logrus.Info("Migration and seed complete")
}
