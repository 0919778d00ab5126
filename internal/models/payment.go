package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment mirrors a processor-side intent, keyed by the processor's intent id.
type Payment struct {
	ID            uint `gorm:"primaryKey"`
	ClientID      uint `gorm:"index;not null"`
	Client        Client
	BookingID     *uint
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Currency      string          `gorm:"size:3;not null;default:GBP"`
	Status        PaymentStatus   `gorm:"size:20;not null;default:pending"`
	IntentID      string          `gorm:"size:100;uniqueIndex;not null"`
	AgeVerified   bool            `gorm:"not null;default:false"`
	AgeVerifiedBy *uint
	AgeVerifiedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
