package models

import (
	"time"

	"github.com/google/uuid"
)

// RatingAndReview is a single user's verdict on a course. A user may rate a
// course once; the unique index enforces it at the storage boundary.
type RatingAndReview struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_rating_user_course;not null" json:"user_id"`
	User      *User     `json:"user,omitempty"`
	CourseID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_rating_user_course;not null" json:"course_id"`
	Rating    int       `gorm:"check:rating >= 1 AND rating <= 5;not null" json:"rating"`
	Review    string    `json:"review"`
	CreatedAt time.Time `json:"created_at"`
}
