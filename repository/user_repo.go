package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studyhub/apperr"
	"studyhub/models"
)

// UserRepo persists user accounts.
type UserRepo interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("user", "email already registered")
	}
	if err != nil {
		return apperr.Dependency("create user", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user", id.String())
	}
	if err != nil {
		return nil, apperr.Dependency("query user", err)
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user", email)
	}
	if err != nil {
		return nil, apperr.Dependency("query user", err)
	}
	return &user, nil
}

// courseEnrollment mirrors the many2many join table declared on the models.
type courseEnrollment struct {
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (courseEnrollment) TableName() string { return "course_enrollments" }

type savedCourse struct {
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (savedCourse) TableName() string { return "saved_courses" }

// EnrollmentRepo maintains the user↔course membership edges. Every write is
// idempotent: duplicate enrolls are swallowed by ON CONFLICT DO NOTHING and
// removals of absent edges succeed.
type EnrollmentRepo interface {
	Enroll(ctx context.Context, userID, courseID uuid.UUID) error
	Unenroll(ctx context.Context, userID, courseID uuid.UUID) error
	IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	ListEnrolledUserIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error)
	ListEnrolledCourses(ctx context.Context, userID uuid.UUID) ([]models.Course, error)
	AddSaved(ctx context.Context, userID, courseID uuid.UUID) error
	RemoveSaved(ctx context.Context, userID, courseID uuid.UUID) error
	IsSaved(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	RemoveSavedByCourse(ctx context.Context, courseID uuid.UUID) error
}

type enrollmentRepo struct {
	db *gorm.DB
}

func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepo {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) Enroll(ctx context.Context, userID, courseID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&courseEnrollment{UserID: userID, CourseID: courseID}).Error
	if err != nil {
		return apperr.Dependency("enroll user", err)
	}
	return nil
}

func (r *enrollmentRepo) Unenroll(ctx context.Context, userID, courseID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&courseEnrollment{}).Error
	if err != nil {
		return apperr.Dependency("unenroll user", err)
	}
	return nil
}

func (r *enrollmentRepo) IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&courseEnrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return false, apperr.Dependency("check enrollment", err)
	}
	return count > 0, nil
}

func (r *enrollmentRepo) ListEnrolledUserIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&courseEnrollment{}).
		Where("course_id = ?", courseID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, apperr.Dependency("list enrolled users", err)
	}
	return ids, nil
}

func (r *enrollmentRepo) ListEnrolledCourses(ctx context.Context, userID uuid.UUID) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.WithContext(ctx).
		Joins("JOIN course_enrollments ON course_enrollments.course_id = courses.id").
		Where("course_enrollments.user_id = ?", userID).
		Preload("Instructor").
		Find(&courses).Error
	if err != nil {
		return nil, apperr.Dependency("list enrolled courses", err)
	}
	return courses, nil
}

func (r *enrollmentRepo) AddSaved(ctx context.Context, userID, courseID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&savedCourse{UserID: userID, CourseID: courseID}).Error
	if err != nil {
		return apperr.Dependency("save course", err)
	}
	return nil
}

func (r *enrollmentRepo) RemoveSaved(ctx context.Context, userID, courseID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&savedCourse{}).Error
	if err != nil {
		return apperr.Dependency("unsave course", err)
	}
	return nil
}

func (r *enrollmentRepo) IsSaved(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&savedCourse{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return false, apperr.Dependency("check saved course", err)
	}
	return count > 0, nil
}

func (r *enrollmentRepo) RemoveSavedByCourse(ctx context.Context, courseID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&savedCourse{}).Error
	if err != nil {
		return apperr.Dependency("remove saved bookmarks", err)
	}
	return nil
}
