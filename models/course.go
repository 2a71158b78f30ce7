package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	CourseStatusDraft     = "Draft"
	CourseStatusPublished = "Published"
)

// Course is the top-level catalog entity. It exclusively owns its Sections
// (forward ownership, ordered by position); AverageRating is a cache that is
// always recomputable from the rating rows.
type Course struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string         `gorm:"not null" json:"name"`
	Description      string         `gorm:"not null" json:"description"`
	WhatYouWillLearn datatypes.JSON `json:"what_you_will_learn"`
	Price            float64        `gorm:"check:price >= 0" json:"price"`
	CategoryID       uuid.UUID      `gorm:"type:uuid;index" json:"category_id"`
	Category         *Category      `json:"category,omitempty"`
	InstructorID     uuid.UUID      `gorm:"type:uuid;index" json:"instructor_id"`
	Instructor       *User          `json:"instructor,omitempty"`
	ThumbnailURL     string         `json:"thumbnail_url"`
	Status           string         `gorm:"default:Draft" json:"status"`
	Tags             datatypes.JSON `json:"tags"`
	Instructions     datatypes.JSON `json:"instructions"`
	AverageRating    float64        `gorm:"default:0" json:"average_rating"`

	Sections []Section         `gorm:"foreignKey:CourseID" json:"sections,omitempty"`
	Students []*User           `gorm:"many2many:course_enrollments" json:"students,omitempty"`
	Ratings  []RatingAndReview `gorm:"foreignKey:CourseID" json:"ratings,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Section groups sub-sections inside a course. CourseID is a parent pointer,
// not ownership; the course owns the section.
type Section struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID    `gorm:"type:uuid;index;not null" json:"course_id"`
	Title       string       `gorm:"not null" json:"title"`
	Position    int          `gorm:"not null;default:0" json:"position"`
	SubSections []SubSection `gorm:"foreignKey:SectionID" json:"sub_sections,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// SubSection is the atomic content unit: one video plus metadata.
type SubSection struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SectionID       uuid.UUID `gorm:"type:uuid;index;not null" json:"section_id"`
	Title           string    `gorm:"not null" json:"title"`
	Description     string    `json:"description"`
	VideoURL        string    `json:"video_url"`
	DurationSeconds int       `gorm:"check:duration_seconds >= 0" json:"duration_seconds"`
	Position        int       `gorm:"not null;default:0" json:"position"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// EncodeStringList stores a string slice as a JSON column value.
func EncodeStringList(items []string) datatypes.JSON {
	raw, _ := json.Marshal(items)
	return datatypes.JSON(raw)
}

// DecodeStringList reads a JSON column back into a string slice.
func DecodeStringList(raw datatypes.JSON) []string {
	var items []string
	_ = json.Unmarshal(raw, &items)
	return items
}
