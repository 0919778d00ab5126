package models

import "time"

type Message struct {
	ID          uint   `gorm:"primaryKey"`
	SenderID    uint   `gorm:"index;not null"`
	Sender      User   `gorm:"foreignKey:SenderID"`
	RecipientID uint   `gorm:"index;not null"`
	Recipient   User   `gorm:"foreignKey:RecipientID"`
	Subject     string `gorm:"size:200;not null"`
	Body        string `gorm:"type:text;not null"`
	Read        bool   `gorm:"not null;default:false"`
	ReadAt      *time.Time
	CreatedAt   time.Time
}
