package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventoryItem struct {
	ID            uint            `gorm:"primaryKey"`
	Name          string          `gorm:"size:100;not null"`
	SKU           string          `gorm:"size:50;uniqueIndex;not null"`
	Category      string          `gorm:"size:50;index"`
	Location      string          `gorm:"size:50;index"`
	Unit          string          `gorm:"size:20;not null"` // ml, unit, box
	CurrentStock  int             `gorm:"not null;default:0"`
	MinStockLevel int             `gorm:"not null;default:0"`
	MaxStockLevel int             `gorm:"not null;default:0"`
	ExpiryDate    *time.Time      `gorm:"index"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(10,2)"`
	SupplierID    *uint
	Supplier      *Supplier
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
