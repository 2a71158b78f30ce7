package controllers

import (
	"github.com/gofiber/fiber/v2"

	"studyhub/apperr"
	"studyhub/models"
	"studyhub/repository"
	"studyhub/utils"
)

type CategoryController struct {
	Categories repository.CategoryRepo
}

func NewCategoryController(categories repository.CategoryRepo) *CategoryController {
	return &CategoryController{Categories: categories}
}

func (cc *CategoryController) CreateCategory(c *fiber.Ctx) error {
	type CategoryInput struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	var input CategoryInput
	if err := c.BodyParser(&input); err != nil {
		return utils.FromError(c, apperr.Validation("cannot parse JSON"))
	}
	if input.Name == "" {
		return utils.FromError(c, apperr.Validation("category name is required"))
	}

	category := &models.Category{Name: input.Name, Description: input.Description}
	if err := cc.Categories.Create(c.UserContext(), category); err != nil {
		return utils.FromError(c, err)
	}
	return utils.Created(c, category)
}

func (cc *CategoryController) ListCategories(c *fiber.Ctx) error {
	categories, err := cc.Categories.List(c.UserContext())
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, categories)
}
