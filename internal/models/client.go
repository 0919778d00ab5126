package models

import "time"

type Client struct {
	ID          uint   `gorm:"primaryKey"`
	FirstName   string `gorm:"size:100;not null"`
	LastName    string `gorm:"size:100;not null"`
	Email       string `gorm:"size:100;index"`
	Phone       string `gorm:"size:50"`
	DateOfBirth *time.Time
	Notes       string `gorm:"size:1000"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
