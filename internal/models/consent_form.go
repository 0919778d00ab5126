package models

import (
	"time"

	"gorm.io/datatypes"
)

type ConsentTemplate struct {
	ID        uint           `gorm:"primaryKey"`
	Name      string         `gorm:"size:150;not null"`
	Version   int            `gorm:"not null;default:1"`
	Content   string         `gorm:"type:text;not null"`
	Fields    datatypes.JSON // field definitions rendered by the frontend
	Active    bool           `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ConsentStatus string

const (
	ConsentActive    ConsentStatus = "active"
	ConsentExpired   ConsentStatus = "expired"
	ConsentWithdrawn ConsentStatus = "withdrawn"
)

// ConsentForm is a signed instance of a template. Once SignedAt is set the
// responses are immutable; only Status may change afterwards.
type ConsentForm struct {
	ID         uint            `gorm:"primaryKey"`
	TemplateID uint            `gorm:"index;not null"`
	Template   ConsentTemplate `gorm:"foreignKey:TemplateID"`
	ClientID   uint            `gorm:"index;not null"`
	Client     Client
	Responses  datatypes.JSON
	SignedAt   *time.Time
	SignedBy   string        `gorm:"size:100"`
	Status     ConsentStatus `gorm:"size:20;not null;default:active"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
