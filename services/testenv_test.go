package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"studyhub/logger"
	"studyhub/models"
	"studyhub/repository"
)

var testDBSeq int64

// testEnv wires the services over a fresh in-memory database and a fake
// asset store that records every put and delete.
type testEnv struct {
	db          *gorm.DB
	assets      *fakeAssetStore
	users       repository.UserRepo
	categories  repository.CategoryRepo
	courses     repository.CourseRepo
	sections    repository.SectionRepo
	subSections repository.SubSectionRepo
	ratings     repository.RatingRepo
	progress    repository.ProgressRepo
	enrollments repository.EnrollmentRepo

	courseService     *CourseService
	progressService   *ProgressService
	ratingService     *RatingService
	enrollmentService *EnrollmentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:svc_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Serialize access: the shared-cache in-memory database does not tolerate
	// concurrent writers.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, repository.AutoMigrate(db))

	log := logger.NewNop()
	env := &testEnv{
		db:          db,
		assets:      newFakeAssetStore(),
		users:       repository.NewUserRepo(db),
		categories:  repository.NewCategoryRepo(db),
		courses:     repository.NewCourseRepo(db, nil, log),
		sections:    repository.NewSectionRepo(db),
		subSections: repository.NewSubSectionRepo(db),
		ratings:     repository.NewRatingRepo(db),
		progress:    repository.NewProgressRepo(db),
		enrollments: repository.NewEnrollmentRepo(db),
	}
	env.courseService = NewCourseService(
		env.courses, env.categories, env.sections, env.subSections,
		env.ratings, env.progress, env.enrollments, env.assets, log)
	env.progressService = NewProgressService(
		env.courses, env.sections, env.subSections, env.progress, env.enrollments, log)
	env.ratingService = NewRatingService(env.ratings, env.courses, log)
	env.enrollmentService = NewEnrollmentService(
		env.users, env.courses, env.enrollments, env.progress, log)
	return env
}

func (e *testEnv) seedUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: "x",
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) seedCategory(t *testing.T, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	require.NoError(t, e.categories.Create(context.Background(), category))
	return category
}

func (e *testEnv) seedCourse(t *testing.T, categoryID, instructorID uuid.UUID) *models.Course {
	t.Helper()
	course, err := e.courseService.CreateCourse(context.Background(), CreateCourseInput{
		Name:             "Go from Scratch",
		Description:      "A complete introduction",
		WhatYouWillLearn: `["syntax","tooling"]`,
		Price:            49.99,
		CategoryID:       categoryID,
		InstructorID:     instructorID,
		Tags:             `["go","backend"]`,
		Instructions:     `["watch the videos"]`,
		Thumbnail:        strings.NewReader("thumbnail-bytes"),
	})
	require.NoError(t, err)
	return course
}

func (e *testEnv) seedSubSection(t *testing.T, sectionID uuid.UUID, title, duration string) *models.SubSection {
	t.Helper()
	subSection, err := e.courseService.CreateSubSection(context.Background(), CreateSubSectionInput{
		SectionID: sectionID,
		Title:     title,
		Duration:  duration,
		Video:     strings.NewReader("video-bytes-" + title),
	})
	require.NoError(t, err)
	return subSection
}

// fakeAssetStore keeps uploads in memory and records deletions.
type fakeAssetStore struct {
	mu      sync.Mutex
	seq     int
	stored  map[string]bool
	deleted []string
}

func newFakeAssetStore() *fakeAssetStore {
	return &fakeAssetStore{stored: map[string]bool{}}
}

func (f *fakeAssetStore) Put(ctx context.Context, r io.Reader, folder string) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	url := fmt.Sprintf("mem://%s/%d", folder, f.seq)
	f.stored[url] = true
	return url, nil
}

func (f *fakeAssetStore) Delete(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stored, url)
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeAssetStore) wasDeleted(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, deleted := range f.deleted {
		if deleted == url {
			return true
		}
	}
	return false
}
