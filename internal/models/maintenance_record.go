package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MaintenanceStatus string

const (
	MaintenanceScheduled MaintenanceStatus = "scheduled"
	MaintenanceCompleted MaintenanceStatus = "completed"
)

// MaintenanceRecord is created in "scheduled" state and transitions once to
// "completed", which is terminal. Completion propagates the service dates to
// the owning equipment.
type MaintenanceRecord struct {
	ID               uint `gorm:"primaryKey"`
	EquipmentID      uint `gorm:"index;not null"`
	Equipment        Equipment
	Type             string            `gorm:"size:50;not null"` // routine, repair, calibration
	Description      string            `gorm:"size:500"`
	PerformedBy      string            `gorm:"size:100;not null"`
	Status           MaintenanceStatus `gorm:"size:20;not null;default:scheduled"`
	ScheduledFor     *time.Time
	CompletedAt      *time.Time
	IssuesFound      string          `gorm:"size:500"`
	ActionsPerformed string          `gorm:"size:500"`
	Cost             decimal.Decimal `gorm:"type:decimal(10,2)"`
	NextServiceDate  *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
