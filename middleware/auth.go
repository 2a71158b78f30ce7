package middleware

import (
	"github.com/gofiber/fiber/v2"

	"studyhub/config"
	"studyhub/models"
	"studyhub/repository"
	"studyhub/utils"
)

// AuthMiddleware verifies the bearer token and stores the caller's ID in
// c.Locals("userID") for downstream handlers.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		c.Locals("userID", userID)
		return c.Next()
	}
}

// InstructorMiddleware restricts a route to instructor or admin accounts.
// It assumes AuthMiddleware already ran.
func InstructorMiddleware(users repository.UserRepo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.UserIDFromLocals(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		user, err := users.GetByID(c.UserContext(), userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		if user.AccountType != models.AccountTypeInstructor && user.AccountType != models.AccountTypeAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden - Instructor access required",
			})
		}
		return c.Next()
	}
}

// AdminMiddleware restricts a route to admin accounts.
func AdminMiddleware(users repository.UserRepo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.UserIDFromLocals(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		user, err := users.GetByID(c.UserContext(), userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		if user.AccountType != models.AccountTypeAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden - Admin access required",
			})
		}
		return c.Next()
	}
}
