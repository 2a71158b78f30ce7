package services

import (
	"context"
	"math"

	"github.com/google/uuid"

	"studyhub/apperr"
	"studyhub/logger"
	"studyhub/models"
	"studyhub/repository"
	"studyhub/utils"
)

// ProgressService records which sub-sections a user has completed and derives
// the completion percentage. The percentage is never stored: it is recomputed
// from the current hierarchy, so it self-heals when content changes.
type ProgressService struct {
	courses     repository.CourseRepo
	sections    repository.SectionRepo
	subSections repository.SubSectionRepo
	progress    repository.ProgressRepo
	enrollments repository.EnrollmentRepo
	log         *logger.Logger
}

func NewProgressService(
	courses repository.CourseRepo,
	sections repository.SectionRepo,
	subSections repository.SubSectionRepo,
	progress repository.ProgressRepo,
	enrollments repository.EnrollmentRepo,
	baseLog *logger.Logger,
) *ProgressService {
	return &ProgressService{
		courses:     courses,
		sections:    sections,
		subSections: subSections,
		progress:    progress,
		enrollments: enrollments,
		log:         baseLog.With("service", "ProgressService"),
	}
}

// MarkComplete adds a sub-section to the user's completed set. Only enrolled
// users accumulate progress; the record is created lazily on the first event
// and repeated calls are no-ops.
func (s *ProgressService) MarkComplete(ctx context.Context, userID, courseID, subSectionID uuid.UUID) error {
	enrolled, err := s.enrollments.IsEnrolled(ctx, userID, courseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return apperr.Validation("user is not enrolled in this course")
	}

	subSection, err := s.subSections.GetByID(ctx, subSectionID)
	if err != nil {
		return err
	}
	section, err := s.sections.GetByID(ctx, subSection.SectionID)
	if err != nil {
		return err
	}
	if section.CourseID != courseID {
		return apperr.Validation("sub-section does not belong to this course")
	}

	progress, err := s.progress.GetByUserCourse(ctx, userID, courseID)
	if err != nil {
		return err
	}
	if progress == nil {
		progress = &models.CourseProgress{UserID: userID, CourseID: courseID}
		if err := s.progress.Create(ctx, progress); err != nil {
			return err
		}
		// A concurrent first completion may have won the insert race.
		if existing, err := s.progress.GetByUserCourse(ctx, userID, courseID); err == nil && existing != nil {
			progress = existing
		}
	}

	return s.progress.AddCompletion(ctx, progress.ID, subSectionID)
}

// ProgressPercentage recomputes the user's completion percentage for the
// course. A course with no sub-sections is vacuously complete.
func (s *ProgressService) ProgressPercentage(ctx context.Context, userID, courseID uuid.UUID) (float64, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return 0, err
	}

	total, err := s.subSections.CountByCourse(ctx, courseID)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 100, nil
	}

	completed, err := s.progress.CountCompletions(ctx, userID, courseID)
	if err != nil {
		return 0, err
	}
	return round2(float64(completed) / float64(total) * 100), nil
}

// CourseDuration sums the sub-section durations over the section chain in
// stored order. The integer seconds total is canonical; the string is for
// display.
func (s *ProgressService) CourseDuration(ctx context.Context, courseID uuid.UUID) (int, string, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return 0, "", err
	}

	sections, err := s.sections.ListByCourse(ctx, courseID)
	if err != nil {
		return 0, "", err
	}

	totalSeconds := 0
	for _, section := range sections {
		for _, subSection := range section.SubSections {
			if subSection.DurationSeconds < 0 {
				return 0, "", apperr.Validationf(
					"sub-section %s has a negative duration", subSection.ID)
			}
			totalSeconds += subSection.DurationSeconds
		}
	}
	return totalSeconds, utils.FormatDuration(totalSeconds), nil
}

// EnrolledCourse pairs a course with the caller's completion percentage.
type EnrolledCourse struct {
	Course             models.Course `json:"course"`
	ProgressPercentage float64       `json:"progress_percentage"`
}

func (s *ProgressService) EnrolledCourses(ctx context.Context, userID uuid.UUID) ([]EnrolledCourse, error) {
	courses, err := s.enrollments.ListEnrolledCourses(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]EnrolledCourse, 0, len(courses))
	for _, course := range courses {
		percentage, err := s.ProgressPercentage(ctx, userID, course.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, EnrolledCourse{Course: course, ProgressPercentage: percentage})
	}
	return result, nil
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
