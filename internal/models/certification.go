package models

import "time"

type Certification struct {
	ID                uint `gorm:"primaryKey"`
	StudentID         uint `gorm:"index;not null"`
	Student           Student
	Name              string     `gorm:"size:150;not null"`
	IssuedBy          string     `gorm:"size:150;not null"`
	CertificateNumber string     `gorm:"size:36;uniqueIndex;not null"`
	IssueDate         time.Time  `gorm:"not null"`
	ExpiryDate        *time.Time `gorm:"index"`
	CPDHours          float64    `gorm:"not null;default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
