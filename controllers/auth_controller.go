package controllers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"studyhub/apperr"
	"studyhub/config"
	"studyhub/models"
	"studyhub/repository"
	"studyhub/utils"
)

type AuthController struct {
	Users repository.UserRepo
	Cfg   *config.Config
}

func NewAuthController(users repository.UserRepo, cfg *config.Config) *AuthController {
	return &AuthController{Users: users, Cfg: cfg}
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	type RegisterInput struct {
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		AccountType string `json:"account_type"`
	}

	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, apperr.Validation("cannot parse JSON"))
	}
	if input.FirstName == "" || input.Email == "" || input.Password == "" {
		return utils.Error(c, fiber.StatusBadRequest,
			apperr.Validation("first name, email and password are required"))
	}

	accountType := input.AccountType
	if accountType == "" {
		accountType = models.AccountTypeStudent
	}
	switch accountType {
	case models.AccountTypeStudent, models.AccountTypeInstructor, models.AccountTypeAdmin:
	default:
		return utils.Error(c, fiber.StatusBadRequest,
			apperr.Validationf("invalid account type %q", accountType))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, err)
	}

	user := &models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		AccountType:  accountType,
	}
	if err := ac.Users.Create(c.UserContext(), user); err != nil {
		return utils.FromError(c, err)
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"token": token,
		"user":  user,
	})
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, apperr.Validation("cannot parse JSON"))
	}

	user, err := ac.Users.GetByEmail(c.UserContext(), input.Email)
	if err != nil {
		return utils.Error(c, fiber.StatusUnauthorized, apperr.Validation("invalid credentials"))
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return utils.Error(c, fiber.StatusUnauthorized, apperr.Validation("invalid credentials"))
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"token": token,
		"user":  user,
	})
}
