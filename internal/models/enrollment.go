package models

import "time"

type EnrollmentStatus string

const (
	EnrollmentEnrolled  EnrollmentStatus = "enrolled"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentWithdrawn EnrollmentStatus = "withdrawn"
)

type Enrollment struct {
	ID         uint `gorm:"primaryKey"`
	StudentID  uint `gorm:"index;not null"`
	Student    Student
	CourseID   uint `gorm:"index;not null"`
	Course     Course
	EnrolledOn time.Time        `gorm:"not null"`
	Status     EnrollmentStatus `gorm:"size:20;not null;default:enrolled"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
