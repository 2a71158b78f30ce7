package routes

import (
	"github.com/gofiber/fiber/v2"

	"studyhub/config"
	"studyhub/controllers"
	"studyhub/middleware"
	"studyhub/repository"
	"studyhub/services"
)

// Controllers bundles everything SetupRoutes wires onto the app.
type Controllers struct {
	Auth       *controllers.AuthController
	Course     *controllers.CourseController
	Progress   *controllers.ProgressController
	Rating     *controllers.RatingController
	Enrollment *controllers.EnrollmentController
	Category   *controllers.CategoryController
}

// NewControllers builds the controller set over the service layer.
func NewControllers(
	users repository.UserRepo,
	categories repository.CategoryRepo,
	courseService *services.CourseService,
	progressService *services.ProgressService,
	ratingService *services.RatingService,
	enrollmentService *services.EnrollmentService,
	cfg *config.Config,
) *Controllers {
	return &Controllers{
		Auth:       controllers.NewAuthController(users, cfg),
		Course:     controllers.NewCourseController(courseService),
		Progress:   controllers.NewProgressController(progressService),
		Rating:     controllers.NewRatingController(ratingService),
		Enrollment: controllers.NewEnrollmentController(enrollmentService),
		Category:   controllers.NewCategoryController(categories),
	}
}

func SetupRoutes(app *fiber.App, ctrl *Controllers, users repository.UserRepo, cfg *config.Config) {
	// Auth routes
	app.Post("/api/auth/register", ctrl.Auth.Register)
	app.Post("/api/auth/login", ctrl.Auth.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	instructorMiddleware := middleware.InstructorMiddleware(users)
	adminMiddleware := middleware.AdminMiddleware(users)

	// Public catalog routes
	app.Get("/api/courses", ctrl.Course.ListCourses)
	app.Get("/api/courses/:id", ctrl.Course.GetCourseDetails)
	app.Get("/api/courses/:id/duration", ctrl.Progress.GetCourseDuration)
	app.Get("/api/courses/:id/rating", ctrl.Rating.GetAverageRating)
	app.Get("/api/courses/:id/reviews", ctrl.Rating.ListCourseReviews)
	app.Get("/api/reviews", ctrl.Rating.ListAllReviews)
	app.Get("/api/categories", ctrl.Category.ListCategories)

	// Student routes
	student := app.Group("/api", authMiddleware)
	student.Post("/courses/:id/enroll", ctrl.Enrollment.Enroll)
	student.Delete("/courses/:id/enroll", ctrl.Enrollment.Unenroll)
	student.Post("/courses/:id/save", ctrl.Enrollment.ToggleSaved)
	student.Post("/courses/:id/rating", ctrl.Rating.SubmitRating)
	student.Get("/courses/:id/progress", ctrl.Progress.GetProgress)
	student.Post("/progress/complete", ctrl.Progress.MarkComplete)
	student.Get("/profile/courses", ctrl.Progress.EnrolledCourses)

	// Instructor routes for content authoring
	instructor := app.Group("/api/instructor", authMiddleware, instructorMiddleware)
	instructor.Post("/courses", ctrl.Course.CreateCourse)
	instructor.Put("/courses/:id", ctrl.Course.EditCourse)
	instructor.Delete("/courses/:id", ctrl.Course.DeleteCourse)
	instructor.Get("/courses/:id/students", ctrl.Enrollment.ListEnrolledUsers)
	instructor.Post("/courses/:id/sections", ctrl.Course.CreateSection)
	instructor.Put("/sections/:id", ctrl.Course.UpdateSection)
	instructor.Delete("/sections/:id", ctrl.Course.DeleteSection)
	instructor.Post("/sub-sections", ctrl.Course.CreateSubSection)
	instructor.Put("/sub-sections/:id", ctrl.Course.UpdateSubSection)
	instructor.Delete("/sub-sections/:id", ctrl.Course.DeleteSubSection)

	// Admin routes
	admin := app.Group("/api/admin", authMiddleware, adminMiddleware)
	admin.Post("/categories", ctrl.Category.CreateCategory)
}
