package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studyhub/apperr"
	"studyhub/models"
)

// RatingRepo persists ratings and reviews.
type RatingRepo interface {
	// Create inserts the rating; the unique (user, course) index turns a
	// concurrent duplicate into a conflict.
	Create(ctx context.Context, rating *models.RatingAndReview) error
	Exists(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	Average(ctx context.Context, courseID uuid.UUID) (float64, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.RatingAndReview, error)
	ListAll(ctx context.Context) ([]models.RatingAndReview, error)
	DeleteByCourse(ctx context.Context, courseID uuid.UUID) error
}

type ratingRepo struct {
	db *gorm.DB
}

func NewRatingRepo(db *gorm.DB) RatingRepo {
	return &ratingRepo{db: db}
}

func (r *ratingRepo) Create(ctx context.Context, rating *models.RatingAndReview) error {
	if rating.ID == uuid.Nil {
		rating.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Create(rating).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("rating", "course already rated by this user")
	}
	if err != nil {
		return apperr.Dependency("create rating", err)
	}
	return nil
}

func (r *ratingRepo) Exists(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RatingAndReview{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return false, apperr.Dependency("check rating", err)
	}
	return count > 0, nil
}

func (r *ratingRepo) Average(ctx context.Context, courseID uuid.UUID) (float64, error) {
	var average float64
	err := r.db.WithContext(ctx).
		Model(&models.RatingAndReview{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&average).Error
	if err != nil {
		return 0, apperr.Dependency("average rating", err)
	}
	return average, nil
}

func (r *ratingRepo) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.RatingAndReview, error) {
	var ratings []models.RatingAndReview
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("course_id = ?", courseID).
		Order("rating desc").
		Find(&ratings).Error
	if err != nil {
		return nil, apperr.Dependency("list ratings", err)
	}
	return ratings, nil
}

func (r *ratingRepo) ListAll(ctx context.Context) ([]models.RatingAndReview, error) {
	var ratings []models.RatingAndReview
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("rating desc").
		Find(&ratings).Error
	if err != nil {
		return nil, apperr.Dependency("list ratings", err)
	}
	return ratings, nil
}

func (r *ratingRepo) DeleteByCourse(ctx context.Context, courseID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&models.RatingAndReview{}).Error
	if err != nil {
		return apperr.Dependency("delete ratings", err)
	}
	return nil
}
