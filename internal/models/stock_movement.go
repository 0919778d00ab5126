package models

import "time"

type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
)

// StockMovement is an append-only ledger row. The item's CurrentStock must
// always equal the NewQuantity of its most recent movement.
type StockMovement struct {
	ID               uint          `gorm:"primaryKey"`
	ItemID           uint          `gorm:"index;not null"`
	Item             InventoryItem `gorm:"foreignKey:ItemID"`
	Type             MovementType  `gorm:"size:20;not null"`
	Quantity         int           `gorm:"not null"` // positive magnitude, direction carried by Type
	PreviousQuantity int           `gorm:"not null"`
	NewQuantity      int           `gorm:"not null"`
	Reason           string        `gorm:"size:255;not null"`
	Reference        string        `gorm:"size:100"`
	ActorID          uint          `gorm:"not null"`
	CreatedAt        time.Time
}
