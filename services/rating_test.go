package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhub/apperr"
)

func TestSubmitRatingUpdatesAverage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Programming")
	instructor := env.seedUser(t, "instructor@example.com")
	alice := env.seedUser(t, "alice@example.com")
	bob := env.seedUser(t, "bob@example.com")
	course := env.seedCourse(t, category.ID, instructor.ID)

	_, err := env.ratingService.SubmitRating(ctx, alice.ID, course.ID, 4, "solid")
	require.NoError(t, err)
	_, err = env.ratingService.SubmitRating(ctx, bob.ID, course.ID, 5, "excellent")
	require.NoError(t, err)

	stored, err := env.courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, stored.AverageRating)

	average, err := env.ratingService.AverageRating(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, average)
}

func TestDuplicateRatingConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Programming")
	instructor := env.seedUser(t, "instructor@example.com")
	alice := env.seedUser(t, "alice@example.com")
	course := env.seedCourse(t, category.ID, instructor.ID)

	_, err := env.ratingService.SubmitRating(ctx, alice.ID, course.ID, 3, "fine")
	require.NoError(t, err)

	_, err = env.ratingService.SubmitRating(ctx, alice.ID, course.ID, 5, "changed my mind")
	assert.True(t, apperr.IsConflict(err))

	// The rejected submission leaves the average untouched.
	stored, err := env.courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, stored.AverageRating)
}

func TestRatingRangeValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Programming")
	instructor := env.seedUser(t, "instructor@example.com")
	alice := env.seedUser(t, "alice@example.com")
	course := env.seedCourse(t, category.ID, instructor.ID)

	for _, rating := range []int{0, 6, -1} {
		_, err := env.ratingService.SubmitRating(ctx, alice.ID, course.ID, rating, "")
		assert.True(t, apperr.IsValidation(err), "rating %d", rating)
	}

	_, err := env.ratingService.SubmitRating(ctx, alice.ID, uuid.New(), 4, "")
	assert.True(t, apperr.IsNotFound(err))
}

func TestAverageRatingEmpty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Programming")
	instructor := env.seedUser(t, "instructor@example.com")
	course := env.seedCourse(t, category.ID, instructor.ID)

	average, err := env.ratingService.AverageRating(ctx, course.ID)
	require.NoError(t, err)
	assert.Zero(t, average)
}

func TestListCourseReviews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Programming")
	instructor := env.seedUser(t, "instructor@example.com")
	alice := env.seedUser(t, "alice@example.com")
	bob := env.seedUser(t, "bob@example.com")
	course := env.seedCourse(t, category.ID, instructor.ID)

	_, err := env.ratingService.SubmitRating(ctx, alice.ID, course.ID, 2, "meh")
	require.NoError(t, err)
	_, err = env.ratingService.SubmitRating(ctx, bob.ID, course.ID, 5, "loved it")
	require.NoError(t, err)

	reviews, err := env.ratingService.ListCourseReviews(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	// Highest rating first.
	assert.Equal(t, 5, reviews[0].Rating)
	require.NotNil(t, reviews[0].User)
	assert.Equal(t, bob.ID, reviews[0].User.ID)
}
