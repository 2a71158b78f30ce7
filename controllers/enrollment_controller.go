package controllers

import (
	"github.com/gofiber/fiber/v2"

	"studyhub/services"
	"studyhub/utils"
)

type EnrollmentController struct {
	Enrollments *services.EnrollmentService
}

func NewEnrollmentController(enrollments *services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{Enrollments: enrollments}
}

func (ec *EnrollmentController) Enroll(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.FromError(c, err)
	}
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.FromError(c, err)
	}

	if err := ec.Enrollments.Enroll(c.UserContext(), userID, courseID); err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"enrolled": courseID})
}

func (ec *EnrollmentController) Unenroll(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.FromError(c, err)
	}
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.FromError(c, err)
	}

	if err := ec.Enrollments.Unenroll(c.UserContext(), userID, courseID); err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"unenrolled": courseID})
}

func (ec *EnrollmentController) ToggleSaved(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.FromError(c, err)
	}
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.FromError(c, err)
	}

	action, saved, err := ec.Enrollments.ToggleSaved(c.UserContext(), userID, courseID)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"course_id": courseID,
		"action":    action,
		"saved":     saved,
	})
}

func (ec *EnrollmentController) ListEnrolledUsers(c *fiber.Ctx) error {
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.FromError(c, err)
	}

	userIDs, err := ec.Enrollments.ListEnrolledUsers(c.UserContext(), courseID)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"course_id": courseID,
		"user_ids":  userIDs,
	})
}
