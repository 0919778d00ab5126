package models

import "time"

type AlertType string

const (
	AlertLowStock           AlertType = "low_stock"
	AlertOutOfStock         AlertType = "out_of_stock"
	AlertExpiring           AlertType = "expiring"
	AlertMaintenanceDue     AlertType = "maintenance_due"
	AlertMaintenanceOverdue AlertType = "maintenance_overdue"
)

type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// Alert rows are append-only: a condition that re-triggers creates a new row.
// Only the Read and Dismissed flags are ever mutated.
type Alert struct {
	ID           uint          `gorm:"primaryKey"`
	Type         AlertType     `gorm:"size:30;index;not null"`
	Severity     AlertSeverity `gorm:"size:20;not null"`
	ResourceType string        `gorm:"size:30;index;not null"` // inventory_item, equipment
	ResourceID   uint          `gorm:"index;not null"`
	Message      string        `gorm:"size:255;not null"`
	Read         bool          `gorm:"not null;default:false"`
	Dismissed    bool          `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
