package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Course struct {
	ID           uint            `gorm:"primaryKey"`
	Title        string          `gorm:"size:150;not null;unique"`
	Description  string          `gorm:"size:1000"`
	Level        string          `gorm:"size:50;index"` // foundation, advanced, masterclass
	DurationDays int             `gorm:"not null"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MaxStudents  int             `gorm:"not null;default:12"`
	Active       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
