package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studyhub/apperr"
	"studyhub/models"
)

// SectionRepo persists sections. Deletes are idempotent so a partially
// finished cascade can be retried.
type SectionRepo interface {
	Create(ctx context.Context, section *models.Section) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Section, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Section, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByCourse(ctx context.Context, courseID uuid.UUID) (int64, error)
}

type sectionRepo struct {
	db *gorm.DB
}

func NewSectionRepo(db *gorm.DB) SectionRepo {
	return &sectionRepo{db: db}
}

func (r *sectionRepo) Create(ctx context.Context, section *models.Section) error {
	if section.ID == uuid.Nil {
		section.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(section).Error; err != nil {
		return apperr.Dependency("create section", err)
	}
	return nil
}

func (r *sectionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Section, error) {
	var section models.Section
	err := r.db.WithContext(ctx).
		Preload("SubSections", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		First(&section, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("section", id.String())
	}
	if err != nil {
		return nil, apperr.Dependency("query section", err)
	}
	return &section, nil
}

func (r *sectionRepo) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Section, error) {
	var sections []models.Section
	err := r.db.WithContext(ctx).
		Preload("SubSections", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Where("course_id = ?", courseID).
		Order("position asc").
		Find(&sections).Error
	if err != nil {
		return nil, apperr.Dependency("list sections", err)
	}
	return sections, nil
}

func (r *sectionRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.Section{}).
		Where("id = ?", id).
		Updates(fields).Error
	if err != nil {
		return apperr.Dependency("update section", err)
	}
	return nil
}

func (r *sectionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&models.Section{}, "id = ?", id).Error; err != nil {
		return apperr.Dependency("delete section", err)
	}
	return nil
}

func (r *sectionRepo) CountByCourse(ctx context.Context, courseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Section{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	if err != nil {
		return 0, apperr.Dependency("count sections", err)
	}
	return count, nil
}

// SubSectionRepo persists sub-sections.
type SubSectionRepo interface {
	Create(ctx context.Context, subSection *models.SubSection) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SubSection, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountBySection(ctx context.Context, sectionID uuid.UUID) (int64, error)
	// CountByCourse counts every sub-section reachable under the course's
	// current section chain; the denominator of the progress percentage.
	CountByCourse(ctx context.Context, courseID uuid.UUID) (int64, error)
}

type subSectionRepo struct {
	db *gorm.DB
}

func NewSubSectionRepo(db *gorm.DB) SubSectionRepo {
	return &subSectionRepo{db: db}
}

func (r *subSectionRepo) Create(ctx context.Context, subSection *models.SubSection) error {
	if subSection.ID == uuid.Nil {
		subSection.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(subSection).Error; err != nil {
		return apperr.Dependency("create sub-section", err)
	}
	return nil
}

func (r *subSectionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SubSection, error) {
	var subSection models.SubSection
	err := r.db.WithContext(ctx).First(&subSection, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("sub-section", id.String())
	}
	if err != nil {
		return nil, apperr.Dependency("query sub-section", err)
	}
	return &subSection, nil
}

func (r *subSectionRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.SubSection{}).
		Where("id = ?", id).
		Updates(fields).Error
	if err != nil {
		return apperr.Dependency("update sub-section", err)
	}
	return nil
}

func (r *subSectionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&models.SubSection{}, "id = ?", id).Error; err != nil {
		return apperr.Dependency("delete sub-section", err)
	}
	return nil
}

func (r *subSectionRepo) CountBySection(ctx context.Context, sectionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SubSection{}).
		Where("section_id = ?", sectionID).
		Count(&count).Error
	if err != nil {
		return 0, apperr.Dependency("count sub-sections", err)
	}
	return count, nil
}

func (r *subSectionRepo) CountByCourse(ctx context.Context, courseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SubSection{}).
		Joins("JOIN sections ON sections.id = sub_sections.section_id").
		Where("sections.course_id = ?", courseID).
		Count(&count).Error
	if err != nil {
		return 0, apperr.Dependency("count course sub-sections", err)
	}
	return count, nil
}
