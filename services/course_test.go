package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhub/apperr"
	"studyhub/models"
)

func TestCreateCourseValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Programming")
	instructor := env.seedUser(t, "instructor@example.com")

	base := func() CreateCourseInput {
		return CreateCourseInput{
			Name:             "Course",
			Description:      "Desc",
			WhatYouWillLearn: `["a"]`,
			Price:            10,
			CategoryID:       category.ID,
			InstructorID:     instructor.ID,
			Tags:             `["t"]`,
			Instructions:     `["i"]`,
			Thumbnail:        strings.NewReader("img"),
		}
	}

	t.Run("missing name", func(t *testing.T) {
		input := base()
		input.Name = ""
		_, err := env.courseService.CreateCourse(ctx, input)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("negative price", func(t *testing.T) {
		input := base()
		input.Price = -1
		_, err := env.courseService.CreateCourse(ctx, input)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("missing thumbnail", func(t *testing.T) {
		input := base()
		input.Thumbnail = nil
		_, err := env.courseService.CreateCourse(ctx, input)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("malformed tags", func(t *testing.T) {
		input := base()
		input.Tags = "not json"
		_, err := env.courseService.CreateCourse(ctx, input)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("empty tag list", func(t *testing.T) {
		input := base()
		input.Tags = "[]"
		_, err := env.courseService.CreateCourse(ctx, input)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("invalid status", func(t *testing.T) {
		input := base()
		input.Status = "Archived"
		_, err := env.courseService.CreateCourse(ctx, input)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("unknown category", func(t *testing.T) {
		input := base()
		input.CategoryID = uuid.New()
		_, err := env.courseService.CreateCourse(ctx, input)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestCreateCourse(t *testing.T) {
	env := newTestEnv(t)
	category := env.seedCategory(t, "Programming")
	instructor := env.seedUser(t, "instructor@example.com")

	course := env.seedCourse(t, category.ID, instructor.ID)

	assert.Equal(t, "Go from Scratch", course.Name)
	assert.Equal(t, models.CourseStatusDraft, course.Status)
	assert.NotEmpty(t, course.ThumbnailURL)
	assert.Equal(t, []string{"go", "backend"}, models.DecodeStringList(course.Tags))
	assert.Equal(t, []string{"syntax", "tooling"}, models.DecodeStringList(course.WhatYouWillLearn))
	require.NotNil(t, course.Category)
	assert.Equal(t, "Programming", course.Category.Name)
}

func TestEditCoursePartial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Programming")
	instructor := env.seedUser(t, "instructor@example.com")
	course := env.seedCourse(t, category.ID, instructor.ID)

	newName := "Go, Revisited"
	newPrice := 19.99
	updated, err := env.courseService.EditCourse(ctx, course.ID, UpdateCourseInput{
		Name:  &newName,
		Price: &newPrice,
	})
	require.NoError(t, err)

	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, newPrice, updated.Price)
	// Untouched fields keep their stored values.
	assert.Equal(t, course.Description, updated.Description)
	assert.Equal(t, models.DecodeStringList(course.Tags), models.DecodeStringList(updated.Tags))
	assert.Equal(t, course.ThumbnailURL, updated.ThumbnailURL)

	empty := ""
	_, err = env.courseService.EditCourse(ctx, course.ID, UpdateCourseInput{Name: &empty})
	assert.True(t, apperr.IsValidation(err))

	_, err = env.courseService.EditCourse(ctx, uuid.New(), UpdateCourseInput{Name: &newName})
	assert.True(t, apperr.IsNotFound(err))
}

func TestCreateSectionPositions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Programming")
	instructor := env.seedUser(t, "instructor@example.com")
	course := env.seedCourse(t, category.ID, instructor.ID)

	first, err := env.courseService.CreateSection(ctx, course.ID, "Basics")
	require.NoError(t, err)
	second, err := env.courseService.CreateSection(ctx, course.ID, "Advanced")
	require.NoError(t, err)

	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 2, second.Position)

	_, err = env.courseService.CreateSection(ctx, course.ID, "")
	assert.True(t, apperr.IsValidation(err))

	_, err = env.courseService.CreateSection(ctx, uuid.New(), "Orphan")
	assert.True(t, apperr.IsNotFound(err))
}

func TestCreateSubSection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Programming")
	instructor := env.seedUser(t, "instructor@example.com")
	course := env.seedCourse(t, category.ID, instructor.ID)
	section, err := env.courseService.CreateSection(ctx, course.ID, "Basics")
	require.NoError(t, err)

	subSection := env.seedSubSection(t, section.ID, "Hello World", "300")
	assert.Equal(t, 300, subSection.DurationSeconds)
	assert.Equal(t, 1, subSection.Position)
	assert.NotEmpty(t, subSection.VideoURL)

	_, err = env.courseService.CreateSubSection(ctx, CreateSubSectionInput{
		SectionID: section.ID,
		Title:     "Bad duration",
		Duration:  "soon",
		Video:     strings.NewReader("video"),
	})
	assert.True(t, apperr.IsValidation(err))

	_, err = env.courseService.CreateSubSection(ctx, CreateSubSectionInput{
		SectionID: section.ID,
		Title:     "No video",
		Duration:  "60",
	})
	assert.True(t, apperr.IsValidation(err))
}

func TestUpdateSubSectionReplacesVideo(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Programming")
	instructor := env.seedUser(t, "instructor@example.com")
	course := env.seedCourse(t, category.ID, instructor.ID)
	section, err := env.courseService.CreateSection(ctx, course.ID, "Basics")
	require.NoError(t, err)
	subSection := env.seedSubSection(t, section.ID, "Hello World", "300")
	oldVideoURL := subSection.VideoURL

	updated, err := env.courseService.UpdateSubSection(ctx, subSection.ID, UpdateSubSectionInput{
		Video: strings.NewReader("replacement"),
	})
	require.NoError(t, err)

	assert.NotEqual(t, oldVideoURL, updated.VideoURL)
	assert.True(t, env.assets.wasDeleted(oldVideoURL))
}

func TestDeleteCourseCascade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Programming")
	instructor := env.seedUser(t, "instructor@example.com")
	student := env.seedUser(t, "student@example.com")
	course := env.seedCourse(t, category.ID, instructor.ID)

	var videoURLs []string
	for _, sectionTitle := range []string{"Basics", "Advanced"} {
		section, err := env.courseService.CreateSection(ctx, course.ID, sectionTitle)
		require.NoError(t, err)
		for _, title := range []string{"One", "Two"} {
			subSection := env.seedSubSection(t, section.ID, sectionTitle+" "+title, "120")
			videoURLs = append(videoURLs, subSection.VideoURL)
		}
	}

	require.NoError(t, env.enrollmentService.Enroll(ctx, student.ID, course.ID))
	detail, err := env.courseService.GetCourseDetails(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, detail.Course.Sections, 2)

	firstSubSection := detail.Course.Sections[0].SubSections[0]
	require.NoError(t, env.progressService.MarkComplete(ctx, student.ID, course.ID, firstSubSection.ID))
	_, err = env.ratingService.SubmitRating(ctx, student.ID, course.ID, 5, "great")
	require.NoError(t, err)
	_, _, err = env.enrollmentService.ToggleSaved(ctx, student.ID, course.ID)
	require.NoError(t, err)

	require.NoError(t, env.courseService.DeleteCourse(ctx, course.ID))

	_, err = env.courses.GetByID(ctx, course.ID)
	assert.True(t, apperr.IsNotFound(err))

	remainingSubSections, err := env.subSections.CountByCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Zero(t, remainingSubSections)

	sections, err := env.sections.ListByCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Empty(t, sections)

	enrolled, err := env.enrollments.IsEnrolled(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)

	saved, err := env.enrollments.IsSaved(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	reviews, err := env.ratings.ListByCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)

	progress, err := env.progress.GetByUserCourse(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.Nil(t, progress)

	assert.True(t, env.assets.wasDeleted(course.ThumbnailURL))
	for _, videoURL := range videoURLs {
		assert.True(t, env.assets.wasDeleted(videoURL), videoURL)
	}
}

func TestDeleteSection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Programming")
	instructor := env.seedUser(t, "instructor@example.com")
	course := env.seedCourse(t, category.ID, instructor.ID)
	section, err := env.courseService.CreateSection(ctx, course.ID, "Basics")
	require.NoError(t, err)
	subSection := env.seedSubSection(t, section.ID, "Hello World", "60")

	require.NoError(t, env.courseService.DeleteSection(ctx, section.ID))

	_, err = env.sections.GetByID(ctx, section.ID)
	assert.True(t, apperr.IsNotFound(err))
	_, err = env.subSections.GetByID(ctx, subSection.ID)
	assert.True(t, apperr.IsNotFound(err))
	assert.True(t, env.assets.wasDeleted(subSection.VideoURL))
}
