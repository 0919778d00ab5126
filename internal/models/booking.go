package models

import "time"

type BookingStatus string

const (
	BookingScheduled BookingStatus = "scheduled"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
	BookingNoShow    BookingStatus = "no_show"
)

type Booking struct {
	ID             uint   `gorm:"primaryKey"`
	Reference      string `gorm:"size:36;uniqueIndex;not null"`
	ClientID       uint   `gorm:"index;not null"`
	Client         Client
	TreatmentID    uint `gorm:"index;not null"`
	Treatment      Treatment
	PractitionerID uint          `gorm:"index;not null"`
	Practitioner   User          `gorm:"foreignKey:PractitionerID"`
	StartsAt       time.Time     `gorm:"index;not null"`
	EndsAt         time.Time     `gorm:"not null"`
	Status         BookingStatus `gorm:"size:20;not null;default:scheduled"`
	Notes          string        `gorm:"size:500"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
