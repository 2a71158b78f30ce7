package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studyhub/apperr"
	"studyhub/models"
)

// ProgressRepo persists per-(user, course) completion records.
type ProgressRepo interface {
	// GetByUserCourse returns (nil, nil) when no record exists yet; the
	// tracker creates it lazily on the first completion event.
	GetByUserCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseProgress, error)
	Create(ctx context.Context, progress *models.CourseProgress) error
	// AddCompletion inserts into the completed set; repeats are no-ops.
	AddCompletion(ctx context.Context, progressID, subSectionID uuid.UUID) error
	CountCompletions(ctx context.Context, userID, courseID uuid.UUID) (int64, error)
	ListCompletedSubSectionIDs(ctx context.Context, userID, courseID uuid.UUID) ([]uuid.UUID, error)
	DeleteByUserCourse(ctx context.Context, userID, courseID uuid.UUID) error
	DeleteByCourse(ctx context.Context, courseID uuid.UUID) error
}

type progressRepo struct {
	db *gorm.DB
}

func NewProgressRepo(db *gorm.DB) ProgressRepo {
	return &progressRepo{db: db}
}

func (r *progressRepo) GetByUserCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseProgress, error) {
	var progress models.CourseProgress
	err := r.db.WithContext(ctx).
		First(&progress, "user_id = ? AND course_id = ?", userID, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Dependency("query course progress", err)
	}
	return &progress, nil
}

func (r *progressRepo) Create(ctx context.Context, progress *models.CourseProgress) error {
	if progress.ID == uuid.Nil {
		progress.ID = uuid.New()
	}
	// Two concurrent first completions race on the unique (user, course)
	// index; losing the race means the record exists, which is fine.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(progress).Error
	if err != nil {
		return apperr.Dependency("create course progress", err)
	}
	return nil
}

func (r *progressRepo) AddCompletion(ctx context.Context, progressID, subSectionID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProgressCompletion{
			CourseProgressID: progressID,
			SubSectionID:     subSectionID,
		}).Error
	if err != nil {
		return apperr.Dependency("record completion", err)
	}
	return nil
}

func (r *progressRepo) CountCompletions(ctx context.Context, userID, courseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProgressCompletion{}).
		Joins("JOIN course_progresses ON course_progresses.id = progress_completions.course_progress_id").
		Where("course_progresses.user_id = ? AND course_progresses.course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return 0, apperr.Dependency("count completions", err)
	}
	return count, nil
}

func (r *progressRepo) ListCompletedSubSectionIDs(ctx context.Context, userID, courseID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.ProgressCompletion{}).
		Joins("JOIN course_progresses ON course_progresses.id = progress_completions.course_progress_id").
		Where("course_progresses.user_id = ? AND course_progresses.course_id = ?", userID, courseID).
		Pluck("progress_completions.sub_section_id", &ids).Error
	if err != nil {
		return nil, apperr.Dependency("list completions", err)
	}
	return ids, nil
}

func (r *progressRepo) DeleteByUserCourse(ctx context.Context, userID, courseID uuid.UUID) error {
	return r.deleteWhere(ctx, "user_id = ? AND course_id = ?", userID, courseID)
}

func (r *progressRepo) DeleteByCourse(ctx context.Context, courseID uuid.UUID) error {
	return r.deleteWhere(ctx, "course_id = ?", courseID)
}

func (r *progressRepo) deleteWhere(ctx context.Context, query string, args ...interface{}) error {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.CourseProgress{}).
		Where(query, args...).
		Pluck("id", &ids).Error
	if err != nil {
		return apperr.Dependency("query course progress", err)
	}
	if len(ids) == 0 {
		return nil
	}

	// Completions first so a failure in between leaves a progress row the
	// retry can still find.
	err = r.db.WithContext(ctx).
		Where("course_progress_id IN ?", ids).
		Delete(&models.ProgressCompletion{}).Error
	if err != nil {
		return apperr.Dependency("delete completions", err)
	}
	err = r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.CourseProgress{}).Error
	if err != nil {
		return apperr.Dependency("delete course progress", err)
	}
	return nil
}
