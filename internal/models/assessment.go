package models

import "time"

type AssessmentStatus string

const (
	AssessmentPending AssessmentStatus = "pending"
	AssessmentGraded  AssessmentStatus = "graded"
)

type Assessment struct {
	ID         uint `gorm:"primaryKey"`
	StudentID  uint `gorm:"index;not null"`
	Student    Student
	CourseID   uint `gorm:"index;not null"`
	Course     Course
	Title      string           `gorm:"size:150;not null"`
	Score      float64          `gorm:"not null;default:0"` // 0-100
	Passed     bool             `gorm:"not null;default:false"`
	Status     AssessmentStatus `gorm:"size:20;not null;default:pending"`
	AssessedOn *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
