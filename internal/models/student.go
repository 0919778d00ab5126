package models

import "time"

type StudentStatus string

const (
	StudentActive    StudentStatus = "active"
	StudentGraduated StudentStatus = "graduated"
	StudentWithdrawn StudentStatus = "withdrawn"
)

type Student struct {
	ID         uint   `gorm:"primaryKey"`
	FirstName  string `gorm:"size:100;not null"`
	LastName   string `gorm:"size:100;not null"`
	Email      string `gorm:"size:100;uniqueIndex;not null"`
	Phone      string `gorm:"size:50"`
	EnrolledAt time.Time
	CPDHours   float64       `gorm:"not null;default:0"` // accumulated continuing-development hours
	Status     StudentStatus `gorm:"size:20;not null;default:active"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
