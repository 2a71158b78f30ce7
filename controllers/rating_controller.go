package controllers

import (
	"github.com/gofiber/fiber/v2"

	"studyhub/apperr"
	"studyhub/services"
	"studyhub/utils"
)

type RatingController struct {
	Ratings *services.RatingService
}

func NewRatingController(ratings *services.RatingService) *RatingController {
	return &RatingController{Ratings: ratings}
}

func (rc *RatingController) SubmitRating(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return utils.FromError(c, err)
	}

	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.FromError(c, err)
	}

	type RatingInput struct {
		Rating int    `json:"rating"`
		Review string `json:"review"`
	}
	var input RatingInput
	if err := c.BodyParser(&input); err != nil {
		return utils.FromError(c, apperr.Validation("cannot parse JSON"))
	}

	record, err := rc.Ratings.SubmitRating(c.UserContext(), userID, courseID, input.Rating, input.Review)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Created(c, record)
}

func (rc *RatingController) GetAverageRating(c *fiber.Ctx) error {
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.FromError(c, err)
	}

	average, err := rc.Ratings.AverageRating(c.UserContext(), courseID)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"course_id":      courseID,
		"average_rating": average,
	})
}

func (rc *RatingController) ListCourseReviews(c *fiber.Ctx) error {
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.FromError(c, err)
	}

	reviews, err := rc.Ratings.ListCourseReviews(c.UserContext(), courseID)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, reviews)
}

func (rc *RatingController) ListAllReviews(c *fiber.Ctx) error {
	reviews, err := rc.Ratings.ListAllReviews(c.UserContext())
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, reviews)
}
