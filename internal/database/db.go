package database

import (
	"fmt"

	"clinicpro-backend/internal/config"
	"clinicpro-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the Postgres connection and runs migrations.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Student{},
		&models.Treatment{},
		&models.Booking{},
		&models.Course{},
		&models.Enrollment{},
		&models.Assessment{},
		&models.Certification{},
		&models.Supplier{},
		&models.InventoryItem{},
		&models.StockMovement{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderItem{},
		&models.Equipment{},
		&models.MaintenanceRecord{},
		&models.Alert{},
		&models.ConsentTemplate{},
		&models.ConsentForm{},
		&models.Message{},
		&models.Payment{},
		&models.AuditLog{},
	)
	if err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return db, nil
}
