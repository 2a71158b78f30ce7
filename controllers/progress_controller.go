package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"studyhub/apperr"
	"studyhub/services"
	"studyhub/utils"
)

type ProgressController struct {
	Progress *services.ProgressService
}

func NewProgressController(progress *services.ProgressService) *ProgressController {
	return &ProgressController{Progress: progress}
}

func (pc *ProgressController) MarkComplete(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.FromError(c, err)
	}

	type MarkInput struct {
		CourseID     string `json:"course_id"`
		SubSectionID string `json:"sub_section_id"`
	}
	var input MarkInput
	if err := c.BodyParser(&input); err != nil {
		return utils.FromError(c, apperr.Validation("cannot parse JSON"))
	}
	courseID, err := uuid.Parse(input.CourseID)
	if err != nil {
		return utils.FromError(c, apperr.Validation("invalid course id"))
	}
	subSectionID, err := uuid.Parse(input.SubSectionID)
	if err != nil {
		return utils.FromError(c, apperr.Validation("invalid sub-section id"))
	}

	if err := pc.Progress.MarkComplete(c.UserContext(), userID, courseID, subSectionID); err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"completed": subSectionID})
}

func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.FromError(c, err)
	}
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.FromError(c, err)
	}

	percentage, err := pc.Progress.ProgressPercentage(c.UserContext(), userID, courseID)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"course_id":           courseID,
		"progress_percentage": percentage,
	})
}

func (pc *ProgressController) GetCourseDuration(c *fiber.Ctx) error {
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.FromError(c, err)
	}

	seconds, rendered, err := pc.Progress.CourseDuration(c.UserContext(), courseID)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"course_id":              courseID,
		"total_duration_seconds": seconds,
		"total_duration":         rendered,
	})
}

func (pc *ProgressController) EnrolledCourses(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.FromError(c, err)
	}

	courses, err := pc.Progress.EnrolledCourses(c.UserContext(), userID)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, courses)
}
