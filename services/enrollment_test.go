package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhub/apperr"
)

func TestEnrollIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Programming")
	instructor := env.seedUser(t, "instructor@example.com")
	student := env.seedUser(t, "student@example.com")
	course := env.seedCourse(t, category.ID, instructor.ID)

	require.NoError(t, env.enrollmentService.Enroll(ctx, student.ID, course.ID))
	require.NoError(t, env.enrollmentService.Enroll(ctx, student.ID, course.ID))

	userIDs, err := env.enrollmentService.ListEnrolledUsers(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{student.ID}, userIDs)
}

func TestEnrollUnknownEntities(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Programming")
	instructor := env.seedUser(t, "instructor@example.com")
	student := env.seedUser(t, "student@example.com")
	course := env.seedCourse(t, category.ID, instructor.ID)

	err := env.enrollmentService.Enroll(ctx, student.ID, uuid.New())
	assert.True(t, apperr.IsNotFound(err))

	err = env.enrollmentService.Enroll(ctx, uuid.New(), course.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestUnenrollDeletesProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Programming")
	instructor := env.seedUser(t, "instructor@example.com")
	student := env.seedUser(t, "student@example.com")
	course := env.seedCourse(t, category.ID, instructor.ID)
	section, err := env.courseService.CreateSection(ctx, course.ID, "Basics")
	require.NoError(t, err)
	subSection := env.seedSubSection(t, section.ID, "One", "60")

	require.NoError(t, env.enrollmentService.Enroll(ctx, student.ID, course.ID))
	require.NoError(t, env.progressService.MarkComplete(ctx, student.ID, course.ID, subSection.ID))

	require.NoError(t, env.enrollmentService.Unenroll(ctx, student.ID, course.ID))

	enrolled, err := env.enrollmentService.IsEnrolled(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)

	progress, err := env.progress.GetByUserCourse(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.Nil(t, progress)

	// Repeated unenroll stays a success.
	require.NoError(t, env.enrollmentService.Unenroll(ctx, student.ID, course.ID))
}

func TestToggleSaved(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Programming")
	instructor := env.seedUser(t, "instructor@example.com")
	student := env.seedUser(t, "student@example.com")
	course := env.seedCourse(t, category.ID, instructor.ID)

	action, saved, err := env.enrollmentService.ToggleSaved(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, SavedActionSaved, action)
	assert.True(t, saved)

	action, saved, err = env.enrollmentService.ToggleSaved(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, SavedActionUnsaved, action)
	assert.False(t, saved)
}
