package services

import (
	"context"

	"github.com/google/uuid"

	"studyhub/apperr"
	"studyhub/logger"
	"studyhub/models"
	"studyhub/repository"
)

// RatingService maintains the ratings and the per-course average cache. The
// average is always a full recomputation over the rating rows, applied with a
// single atomic UPDATE after the rating insert is durable.
type RatingService struct {
	ratings repository.RatingRepo
	courses repository.CourseRepo
	log     *logger.Logger
}

func NewRatingService(
	ratings repository.RatingRepo,
	courses repository.CourseRepo,
	baseLog *logger.Logger,
) *RatingService {
	return &RatingService{
		ratings: ratings,
		courses: courses,
		log:     baseLog.With("service", "RatingService"),
	}
}

// SubmitRating records a user's one-shot rating for a course. A second rating
// for the same pair is a conflict; there is no update-in-place.
func (s *RatingService) SubmitRating(ctx context.Context, userID, courseID uuid.UUID, rating int, review string) (*models.RatingAndReview, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.Validationf("rating must be between 1 and 5, got %d", rating)
	}

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	exists, err := s.ratings.Exists(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("rating", "course already rated by this user")
	}

	record := &models.RatingAndReview{
		UserID:   userID,
		CourseID: courseID,
		Rating:   rating,
		Review:   review,
	}
	if err := s.ratings.Create(ctx, record); err != nil {
		return nil, err
	}

	if err := s.courses.SetAverageRating(ctx, courseID); err != nil {
		// The rating row is durable; the cache catches up on the next
		// submit or recompute.
		s.log.Error("failed to refresh average rating", "course_id", courseID, "error", err)
		return nil, err
	}

	s.log.Info("rating submitted", "course_id", courseID, "user_id", userID, "rating", rating)
	return record, nil
}

// AverageRating recomputes the mean from the current rating set. An empty set
// is 0, not an error.
func (s *RatingService) AverageRating(ctx context.Context, courseID uuid.UUID) (float64, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return 0, err
	}
	return s.ratings.Average(ctx, courseID)
}

func (s *RatingService) ListCourseReviews(ctx context.Context, courseID uuid.UUID) ([]models.RatingAndReview, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.ratings.ListByCourse(ctx, courseID)
}

func (s *RatingService) ListAllReviews(ctx context.Context) ([]models.RatingAndReview, error) {
	return s.ratings.ListAll(ctx)
}
