package services

import (
	"context"
	"encoding/json"
	"io"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"studyhub/apperr"
	"studyhub/assetstore"
	"studyhub/logger"
	"studyhub/models"
	"studyhub/repository"
	"studyhub/utils"
)

const (
	thumbnailFolder = "thumbnails"
	videoFolder     = "videos"
)

// CourseService owns the course/section/sub-section lifecycle: validated
// creation, partial edits and the ordered cascade delete that keeps records,
// media assets and enrollment edges consistent.
type CourseService struct {
	courses     repository.CourseRepo
	categories  repository.CategoryRepo
	sections    repository.SectionRepo
	subSections repository.SubSectionRepo
	ratings     repository.RatingRepo
	progress    repository.ProgressRepo
	enrollments repository.EnrollmentRepo
	assets      assetstore.Store
	log         *logger.Logger
}

func NewCourseService(
	courses repository.CourseRepo,
	categories repository.CategoryRepo,
	sections repository.SectionRepo,
	subSections repository.SubSectionRepo,
	ratings repository.RatingRepo,
	progress repository.ProgressRepo,
	enrollments repository.EnrollmentRepo,
	assets assetstore.Store,
	baseLog *logger.Logger,
) *CourseService {
	return &CourseService{
		courses:     courses,
		categories:  categories,
		sections:    sections,
		subSections: subSections,
		ratings:     ratings,
		progress:    progress,
		enrollments: enrollments,
		assets:      assets,
		log:         baseLog.With("service", "CourseService"),
	}
}

// CreateCourseInput carries the authoring form for a new course. The list
// fields arrive as JSON-encoded strings and are parsed before validation.
type CreateCourseInput struct {
	Name             string
	Description      string
	WhatYouWillLearn string
	Price            float64
	CategoryID       uuid.UUID
	InstructorID     uuid.UUID
	Status           string
	Tags             string
	Instructions     string
	Thumbnail        io.Reader
}

func (s *CourseService) CreateCourse(ctx context.Context, input CreateCourseInput) (*models.Course, error) {
	if input.Name == "" || input.Description == "" {
		return nil, apperr.Validation("course name and description are required")
	}
	if input.Price < 0 {
		return nil, apperr.Validation("price must not be negative")
	}
	if input.Thumbnail == nil {
		return nil, apperr.Validation("thumbnail image is required")
	}
	if input.CategoryID == uuid.Nil {
		return nil, apperr.Validation("category is required")
	}

	outcomes, err := parseStringList(input.WhatYouWillLearn, "learning outcomes")
	if err != nil {
		return nil, err
	}
	tags, err := parseStringList(input.Tags, "tag")
	if err != nil {
		return nil, err
	}
	instructions, err := parseStringList(input.Instructions, "instruction")
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.CourseStatusDraft
	}
	if status != models.CourseStatusDraft && status != models.CourseStatusPublished {
		return nil, apperr.Validationf("invalid course status %q", status)
	}

	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	thumbnailURL, err := s.assets.Put(ctx, input.Thumbnail, thumbnailFolder)
	if err != nil {
		return nil, apperr.Dependency("upload thumbnail", err)
	}

	course := &models.Course{
		Name:             input.Name,
		Description:      input.Description,
		WhatYouWillLearn: models.EncodeStringList(outcomes),
		Price:            input.Price,
		CategoryID:       input.CategoryID,
		InstructorID:     input.InstructorID,
		ThumbnailURL:     thumbnailURL,
		Status:           status,
		Tags:             models.EncodeStringList(tags),
		Instructions:     models.EncodeStringList(instructions),
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}

	s.log.Info("course created", "course_id", course.ID, "instructor_id", input.InstructorID)
	return s.courses.GetDetail(ctx, course.ID)
}

// UpdateCourseInput lists every editable course field. Nil pointers leave the
// stored value untouched; a present field is validated and applied.
type UpdateCourseInput struct {
	Name             *string
	Description      *string
	WhatYouWillLearn *string
	Price            *float64
	CategoryID       *uuid.UUID
	Status           *string
	Tags             *string
	Instructions     *string
	Thumbnail        io.Reader
}

func (s *CourseService) EditCourse(ctx context.Context, courseID uuid.UUID, input UpdateCourseInput) (*models.Course, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperr.Validation("course name must not be empty")
		}
		fields["name"] = *input.Name
	}
	if input.Description != nil {
		if *input.Description == "" {
			return nil, apperr.Validation("course description must not be empty")
		}
		fields["description"] = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperr.Validation("price must not be negative")
		}
		fields["price"] = *input.Price
	}
	if input.Status != nil {
		if *input.Status != models.CourseStatusDraft && *input.Status != models.CourseStatusPublished {
			return nil, apperr.Validationf("invalid course status %q", *input.Status)
		}
		fields["status"] = *input.Status
	}
	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		fields["category_id"] = *input.CategoryID
	}
	if input.WhatYouWillLearn != nil {
		outcomes, err := parseStringList(*input.WhatYouWillLearn, "learning outcomes")
		if err != nil {
			return nil, err
		}
		fields["what_you_will_learn"] = models.EncodeStringList(outcomes)
	}
	if input.Tags != nil {
		tags, err := parseStringList(*input.Tags, "tag")
		if err != nil {
			return nil, err
		}
		fields["tags"] = models.EncodeStringList(tags)
	}
	if input.Instructions != nil {
		instructions, err := parseStringList(*input.Instructions, "instruction")
		if err != nil {
			return nil, err
		}
		fields["instructions"] = models.EncodeStringList(instructions)
	}
	if input.Thumbnail != nil {
		// The previous thumbnail is left in the asset store: a cached course
		// payload may still reference it. An offline sweep reclaims leaks.
		thumbnailURL, err := s.assets.Put(ctx, input.Thumbnail, thumbnailFolder)
		if err != nil {
			return nil, apperr.Dependency("upload thumbnail", err)
		}
		fields["thumbnail_url"] = thumbnailURL
	}

	if err := s.courses.UpdateFields(ctx, courseID, fields); err != nil {
		return nil, err
	}
	return s.courses.GetDetail(ctx, courseID)
}

// DeleteCourse removes a course and everything it owns. Order matters: the
// course row goes last, so an interrupted cascade leaves a discoverable
// course with leftover children rather than orphaned sections. Every step is
// idempotent and the whole operation can be re-issued to resume.
func (s *CourseService) DeleteCourse(ctx context.Context, courseID uuid.UUID) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	userIDs, err := s.enrollments.ListEnrolledUserIDs(ctx, courseID)
	if err != nil {
		return err
	}
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.enrollments.Unenroll(ctx, userID, courseID); err != nil {
			return err
		}
	}

	if err := s.assets.Delete(ctx, course.ThumbnailURL); err != nil {
		s.log.Warn("failed to delete course thumbnail", "course_id", courseID, "error", err)
	}

	sections, err := s.sections.ListByCourse(ctx, courseID)
	if err != nil {
		return err
	}

	// Sections are independent of each other; their sub-trees can go down in
	// parallel. Within a sub-section, the asset delete happens before the
	// record delete.
	g, gctx := errgroup.WithContext(ctx)
	for _, section := range sections {
		section := section
		g.Go(func() error {
			return s.deleteSectionTree(gctx, &section)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := s.ratings.DeleteByCourse(ctx, courseID); err != nil {
		return err
	}
	if err := s.progress.DeleteByCourse(ctx, courseID); err != nil {
		return err
	}
	if err := s.enrollments.RemoveSavedByCourse(ctx, courseID); err != nil {
		return err
	}

	if err := s.courses.Delete(ctx, courseID); err != nil {
		return err
	}
	s.log.Info("course deleted", "course_id", courseID, "sections", len(sections), "unenrolled", len(userIDs))
	return nil
}

func (s *CourseService) deleteSectionTree(ctx context.Context, section *models.Section) error {
	for _, subSection := range section.SubSections {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.assets.Delete(ctx, subSection.VideoURL); err != nil {
			s.log.Warn("failed to delete sub-section video",
				"sub_section_id", subSection.ID, "error", err)
		}
		if err := s.subSections.Delete(ctx, subSection.ID); err != nil {
			return err
		}
	}
	return s.sections.Delete(ctx, section.ID)
}

// CourseDetail bundles the expanded hierarchy with the rendered total length.
type CourseDetail struct {
	Course               *models.Course `json:"course"`
	TotalDurationSeconds int            `json:"total_duration_seconds"`
	TotalDuration        string         `json:"total_duration"`
}

func (s *CourseService) GetCourseDetails(ctx context.Context, courseID uuid.UUID) (*CourseDetail, error) {
	course, err := s.courses.GetDetail(ctx, courseID)
	if err != nil {
		return nil, err
	}

	totalSeconds := 0
	for _, section := range course.Sections {
		for _, subSection := range section.SubSections {
			totalSeconds += subSection.DurationSeconds
		}
	}

	return &CourseDetail{
		Course:               course,
		TotalDurationSeconds: totalSeconds,
		TotalDuration:        utils.FormatDuration(totalSeconds),
	}, nil
}

func (s *CourseService) ListCourses(ctx context.Context) ([]models.Course, error) {
	return s.courses.List(ctx)
}

func (s *CourseService) CreateSection(ctx context.Context, courseID uuid.UUID, title string) (*models.Section, error) {
	if title == "" {
		return nil, apperr.Validation("section title is required")
	}
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	count, err := s.sections.CountByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	section := &models.Section{
		CourseID: courseID,
		Title:    title,
		Position: int(count) + 1,
	}
	if err := s.sections.Create(ctx, section); err != nil {
		return nil, err
	}
	s.courses.InvalidateDetail(ctx, courseID)
	return section, nil
}

func (s *CourseService) UpdateSection(ctx context.Context, sectionID uuid.UUID, title *string, position *int) (*models.Section, error) {
	section, err := s.sections.GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if title != nil {
		if *title == "" {
			return nil, apperr.Validation("section title must not be empty")
		}
		fields["title"] = *title
	}
	if position != nil {
		if *position < 1 {
			return nil, apperr.Validation("section position must be positive")
		}
		fields["position"] = *position
	}

	if err := s.sections.UpdateFields(ctx, sectionID, fields); err != nil {
		return nil, err
	}
	s.courses.InvalidateDetail(ctx, section.CourseID)
	return s.sections.GetByID(ctx, sectionID)
}

// DeleteSection cascades over the section's sub-sections: each video asset is
// deleted best-effort before its record, the section row last.
func (s *CourseService) DeleteSection(ctx context.Context, sectionID uuid.UUID) error {
	section, err := s.sections.GetByID(ctx, sectionID)
	if err != nil {
		return err
	}
	if err := s.deleteSectionTree(ctx, section); err != nil {
		return err
	}
	s.courses.InvalidateDetail(ctx, section.CourseID)
	return nil
}

// CreateSubSectionInput carries the authoring form for a new sub-section.
// Duration arrives as text and must parse to whole seconds.
type CreateSubSectionInput struct {
	SectionID   uuid.UUID
	Title       string
	Description string
	Duration    string
	Video       io.Reader
}

func (s *CourseService) CreateSubSection(ctx context.Context, input CreateSubSectionInput) (*models.SubSection, error) {
	if input.Title == "" {
		return nil, apperr.Validation("sub-section title is required")
	}
	if input.Video == nil {
		return nil, apperr.Validation("video file is required")
	}
	durationSeconds, err := utils.ParseDurationSeconds(input.Duration)
	if err != nil {
		return nil, err
	}

	section, err := s.sections.GetByID(ctx, input.SectionID)
	if err != nil {
		return nil, err
	}

	videoURL, err := s.assets.Put(ctx, input.Video, videoFolder)
	if err != nil {
		return nil, apperr.Dependency("upload video", err)
	}

	count, err := s.subSections.CountBySection(ctx, input.SectionID)
	if err != nil {
		return nil, err
	}

	subSection := &models.SubSection{
		SectionID:       input.SectionID,
		Title:           input.Title,
		Description:     input.Description,
		VideoURL:        videoURL,
		DurationSeconds: durationSeconds,
		Position:        int(count) + 1,
	}
	if err := s.subSections.Create(ctx, subSection); err != nil {
		return nil, err
	}
	s.courses.InvalidateDetail(ctx, section.CourseID)
	return subSection, nil
}

// UpdateSubSectionInput mirrors UpdateCourseInput: nil means untouched.
type UpdateSubSectionInput struct {
	Title       *string
	Description *string
	Duration    *string
	Video       io.Reader
}

func (s *CourseService) UpdateSubSection(ctx context.Context, subSectionID uuid.UUID, input UpdateSubSectionInput) (*models.SubSection, error) {
	subSection, err := s.subSections.GetByID(ctx, subSectionID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		if *input.Title == "" {
			return nil, apperr.Validation("sub-section title must not be empty")
		}
		fields["title"] = *input.Title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Duration != nil {
		durationSeconds, err := utils.ParseDurationSeconds(*input.Duration)
		if err != nil {
			return nil, err
		}
		fields["duration_seconds"] = durationSeconds
	}
	if input.Video != nil {
		videoURL, err := s.assets.Put(ctx, input.Video, videoFolder)
		if err != nil {
			return nil, apperr.Dependency("upload video", err)
		}
		// Unlike thumbnails, nothing cacheable references the old video.
		if err := s.assets.Delete(ctx, subSection.VideoURL); err != nil {
			s.log.Warn("failed to delete replaced video",
				"sub_section_id", subSectionID, "error", err)
		}
		fields["video_url"] = videoURL
	}

	if err := s.subSections.UpdateFields(ctx, subSectionID, fields); err != nil {
		return nil, err
	}
	s.invalidateBySection(ctx, subSection.SectionID)
	return s.subSections.GetByID(ctx, subSectionID)
}

func (s *CourseService) DeleteSubSection(ctx context.Context, subSectionID uuid.UUID) error {
	subSection, err := s.subSections.GetByID(ctx, subSectionID)
	if err != nil {
		return err
	}
	if err := s.assets.Delete(ctx, subSection.VideoURL); err != nil {
		s.log.Warn("failed to delete sub-section video",
			"sub_section_id", subSectionID, "error", err)
	}
	if err := s.subSections.Delete(ctx, subSectionID); err != nil {
		return err
	}
	s.invalidateBySection(ctx, subSection.SectionID)
	return nil
}

func (s *CourseService) invalidateBySection(ctx context.Context, sectionID uuid.UUID) {
	section, err := s.sections.GetByID(ctx, sectionID)
	if err != nil {
		return
	}
	s.courses.InvalidateDetail(ctx, section.CourseID)
}

func parseStringList(raw, field string) ([]string, error) {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, apperr.Validationf("invalid %s list", field)
	}
	if len(items) == 0 {
		return nil, apperr.Validationf("%s list must not be empty", field)
	}
	return items, nil
}
