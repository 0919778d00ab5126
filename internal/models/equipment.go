package models

import "time"

type EquipmentStatus string

const (
	EquipmentOperational         EquipmentStatus = "operational"
	EquipmentMaintenanceRequired EquipmentStatus = "maintenance_required"
	EquipmentOutOfService        EquipmentStatus = "out_of_service"
)

type Equipment struct {
	ID                  uint   `gorm:"primaryKey"`
	Name                string `gorm:"size:100;not null"`
	SerialNumber        string `gorm:"size:100;uniqueIndex;not null"`
	Category            string `gorm:"size:50;index"`
	Location            string `gorm:"size:50;index"`
	PurchasedAt         *time.Time
	LastServiceDate     *time.Time
	NextServiceDate     *time.Time      `gorm:"index"`
	ServiceIntervalDays int             `gorm:"not null;default:0"`
	Status              EquipmentStatus `gorm:"size:30;not null;default:operational"`
	Notes               string          `gorm:"size:500"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
