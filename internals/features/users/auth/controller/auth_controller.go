package controller

import (
	"github.com/gofiber/fiber/v2"

	"poolbooking_backend/internals/apperrors"
	"poolbooking_backend/internals/features/users/auth/service"
	userDTO "poolbooking_backend/internals/features/users/user/dto"
	helper "poolbooking_backend/internals/helpers"
)

type AuthController struct {
	Auth *service.AuthService
}

func NewAuthController(auth *service.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// POST /api/auth/register
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var in service.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	user, err := ac.Auth.Register(c.UserContext(), in)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Registration successful", userDTO.FromModel(user))
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	res, err := ac.Auth.Login(c.UserContext(), in.Email, in.Password)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Login successful", fiber.Map{
		"access_token": res.AccessToken,
		"expires_at":   res.ExpiresAt,
		"user":         userDTO.FromModel(res.User),
	})
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	raw := helper.GetRawAccessToken(c)
	if raw == "" {
		return helper.FromError(c, apperrors.Unauthenticated("no token provided"))
	}
	if err := ac.Auth.Logout(c.UserContext(), raw); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Logged out", nil)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	user, err := ac.Auth.Me(c.UserContext(), userID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "", userDTO.FromModel(user))
}

// POST /api/auth/change-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	var in struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ac.Auth.ChangePassword(c.UserContext(), userID, in.CurrentPassword, in.NewPassword); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Password changed", nil)
}
