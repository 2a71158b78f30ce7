package services

import (
	"context"

	"github.com/google/uuid"

	"studyhub/logger"
	"studyhub/models"
	"studyhub/repository"
)

// Saved-set toggle outcomes.
const (
	SavedActionSaved   = "saved"
	SavedActionUnsaved = "unsaved"
)

// EnrollmentService keeps the user↔course membership edges mutually
// consistent and owns the saved-course bookmark set.
type EnrollmentService struct {
	users       repository.UserRepo
	courses     repository.CourseRepo
	enrollments repository.EnrollmentRepo
	progress    repository.ProgressRepo
	log         *logger.Logger
}

func NewEnrollmentService(
	users repository.UserRepo,
	courses repository.CourseRepo,
	enrollments repository.EnrollmentRepo,
	progress repository.ProgressRepo,
	baseLog *logger.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		users:       users,
		courses:     courses,
		enrollments: enrollments,
		progress:    progress,
		log:         baseLog.With("service", "EnrollmentService"),
	}
}

// Enroll adds the user to the course. Enrolling twice is a no-op success.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID uuid.UUID) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return err
	}
	if err := s.enrollments.Enroll(ctx, userID, courseID); err != nil {
		return err
	}
	s.log.Info("user enrolled", "user_id", userID, "course_id", courseID)
	return nil
}

// Unenroll removes the membership edge and the user's progress record for
// the course; progress has no meaning without enrollment. Safe to repeat.
func (s *EnrollmentService) Unenroll(ctx context.Context, userID, courseID uuid.UUID) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return err
	}
	if err := s.enrollments.Unenroll(ctx, userID, courseID); err != nil {
		return err
	}
	if err := s.progress.DeleteByUserCourse(ctx, userID, courseID); err != nil {
		return err
	}
	s.log.Info("user unenrolled", "user_id", userID, "course_id", courseID)
	return nil
}

func (s *EnrollmentService) IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	return s.enrollments.IsEnrolled(ctx, userID, courseID)
}

// ToggleSaved flips the course's membership in the user's saved set and
// reports which way it went plus the resulting state.
func (s *EnrollmentService) ToggleSaved(ctx context.Context, userID, courseID uuid.UUID) (string, bool, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return "", false, err
	}
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return "", false, err
	}

	saved, err := s.enrollments.IsSaved(ctx, userID, courseID)
	if err != nil {
		return "", false, err
	}
	if saved {
		if err := s.enrollments.RemoveSaved(ctx, userID, courseID); err != nil {
			return "", false, err
		}
		return SavedActionUnsaved, false, nil
	}
	if err := s.enrollments.AddSaved(ctx, userID, courseID); err != nil {
		return "", false, err
	}
	return SavedActionSaved, true, nil
}

func (s *EnrollmentService) ListEnrolledUsers(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.enrollments.ListEnrolledUserIDs(ctx, courseID)
}

func (s *EnrollmentService) ListEnrolledCourses(ctx context.Context, userID uuid.UUID) ([]models.Course, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.enrollments.ListEnrolledCourses(ctx, userID)
}
