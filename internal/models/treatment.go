package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Treatment struct {
	ID              uint            `gorm:"primaryKey"`
	Name            string          `gorm:"size:100;not null;unique"`
	Category        string          `gorm:"size:50;index"`
	DurationMinutes int             `gorm:"not null"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	RequiresConsent bool            `gorm:"not null;default:false"`
	Active          bool            `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
