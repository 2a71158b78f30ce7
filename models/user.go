package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AccountTypeStudent    = "Student"
	AccountTypeInstructor = "Instructor"
	AccountTypeAdmin      = "Admin"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName    string    `gorm:"not null" json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	AccountType  string    `gorm:"default:Student" json:"account_type"`
	ImageURL     string    `json:"image_url"`

	// Enrollment and bookmark edges. The reverse side lives on Course via the
	// same join tables; authored courses are derived from courses.instructor_id.
	EnrolledCourses []*Course `gorm:"many2many:course_enrollments" json:"enrolled_courses,omitempty"`
	SavedCourses    []*Course `gorm:"many2many:saved_courses" json:"saved_courses,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
