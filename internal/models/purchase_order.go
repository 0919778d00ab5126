package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseOrderStatus string

const (
	PurchaseOrderDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderOrdered   PurchaseOrderStatus = "ordered"
	PurchaseOrderReceived  PurchaseOrderStatus = "received"
	PurchaseOrderCancelled PurchaseOrderStatus = "cancelled"
)

type PurchaseOrder struct {
	ID         uint   `gorm:"primaryKey"`
	Reference  string `gorm:"size:36;uniqueIndex;not null"`
	SupplierID uint   `gorm:"index;not null"`
	Supplier   Supplier
	Status     PurchaseOrderStatus `gorm:"size:20;not null;default:draft"`
	OrderedAt  *time.Time
	ReceivedAt *time.Time
	Notes      string `gorm:"size:500"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Items []PurchaseOrderItem
}

type PurchaseOrderItem struct {
	ID              uint            `gorm:"primaryKey"`
	PurchaseOrderID uint            `gorm:"index;not null"`
	ItemID          uint            `gorm:"index;not null"`
	Item            InventoryItem   `gorm:"foreignKey:ItemID"`
	Quantity        int             `gorm:"not null"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(10,2)"`
}
