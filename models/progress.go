package models

import (
	"time"

	"github.com/google/uuid"
)

// CourseProgress tracks one user's completion state for one course. There is
// at most one row per (user, course); the completed set lives in
// ProgressCompletion rows so insertion stays idempotent.
type CourseProgress struct {
	ID          uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID            `gorm:"type:uuid;uniqueIndex:idx_progress_user_course;not null" json:"user_id"`
	CourseID    uuid.UUID            `gorm:"type:uuid;uniqueIndex:idx_progress_user_course;not null" json:"course_id"`
	Completions []ProgressCompletion `gorm:"foreignKey:CourseProgressID" json:"completions,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// ProgressCompletion marks one sub-section as completed within a progress
// record. The composite primary key gives set semantics.
type ProgressCompletion struct {
	CourseProgressID uuid.UUID `gorm:"type:uuid;primaryKey" json:"course_progress_id"`
	SubSectionID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"sub_section_id"`
	CreatedAt        time.Time `json:"created_at"`
}
