package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"studyhub/apperr"
	"studyhub/logger"
	"studyhub/models"
)

const courseDetailTTL = time.Hour

// CourseRepo persists courses and maintains the course-level aggregates.
type CourseRepo interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	// GetDetail loads the full hierarchy: category, instructor, ratings and
	// sections with sub-sections in authored order.
	GetDetail(ctx context.Context, id uuid.UUID) (*models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	// SetAverageRating recomputes the cached average from the rating rows in
	// a single atomic UPDATE. Empty rating set yields 0.
	SetAverageRating(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	// InvalidateDetail drops the cached detail payload after hierarchy
	// writes that bypass this repo (section and sub-section changes).
	InvalidateDetail(ctx context.Context, id uuid.UUID)
}

type courseRepo struct {
	db  *gorm.DB
	rdb *redis.Client // nil disables caching
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, rdb *redis.Client, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, rdb: rdb, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) Create(ctx context.Context, course *models.Course) error {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return apperr.Dependency("create course", err)
	}
	return nil
}

func (r *courseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("course", id.String())
	}
	if err != nil {
		return nil, apperr.Dependency("query course", err)
	}
	return &course, nil
}

func (r *courseRepo) GetDetail(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	key := detailKey(id)
	if r.rdb != nil {
		if val, err := r.rdb.Get(ctx, key).Result(); err == nil {
			var cached models.Course
			if json.Unmarshal([]byte(val), &cached) == nil {
				return &cached, nil
			}
		}
	}

	var course models.Course
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Instructor").
		Preload("Ratings").
		Preload("Ratings.User").
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Preload("Sections.SubSections", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		First(&course, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("course", id.String())
	}
	if err != nil {
		return nil, apperr.Dependency("query course detail", err)
	}

	if r.rdb != nil {
		if data, err := json.Marshal(course); err == nil {
			if err := r.rdb.Set(ctx, key, data, courseDetailTTL).Err(); err != nil {
				r.log.Warn("failed to cache course detail", "course_id", id, "error", err)
			}
		}
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Instructor").
		Order("created_at desc").
		Find(&courses).Error
	if err != nil {
		return nil, apperr.Dependency("list courses", err)
	}
	return courses, nil
}

func (r *courseRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", id).
		Updates(fields).Error
	if err != nil {
		return apperr.Dependency("update course", err)
	}
	r.InvalidateDetail(ctx, id)
	return nil
}

func (r *courseRepo) SetAverageRating(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Exec(
		`UPDATE courses
		 SET average_rating = COALESCE(
		     (SELECT AVG(rating) FROM rating_and_reviews WHERE course_id = ?), 0)
		 WHERE id = ?`, id, id).Error
	if err != nil {
		return apperr.Dependency("recompute average rating", err)
	}
	r.InvalidateDetail(ctx, id)
	return nil
}

func (r *courseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&models.Course{}, "id = ?", id).Error; err != nil {
		return apperr.Dependency("delete course", err)
	}
	r.InvalidateDetail(ctx, id)
	return nil
}

func (r *courseRepo) InvalidateDetail(ctx context.Context, id uuid.UUID) {
	if r.rdb == nil {
		return
	}
	if err := r.rdb.Del(ctx, detailKey(id)).Err(); err != nil {
		r.log.Warn("failed to invalidate course detail cache", "course_id", id, "error", err)
	}
}

func detailKey(id uuid.UUID) string {
	return "course:detail:" + id.String()
}

// CategoryRepo persists course categories.
type CategoryRepo interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepo {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Create(category).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("category", "category name already exists")
	}
	if err != nil {
		return apperr.Dependency("create category", err)
	}
	return nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("category", id.String())
	}
	if err != nil {
		return nil, apperr.Dependency("query category", err)
	}
	return &category, nil
}

func (r *categoryRepo) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&categories).Error; err != nil {
		return nil, apperr.Dependency("list categories", err)
	}
	return categories, nil
}
