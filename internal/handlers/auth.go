package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"cardvault/internal/services/auth"
	"cardvault/internal/utils"
)

// AuthHandler exposes registration and login.
type AuthHandler struct {
	auth auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{auth: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input auth.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	user, err := h.auth.Register(c.Context(), input)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			return utils.Conflict(c, err.Error())
		}
		return utils.BadRequest(c, err.Error())
	}
	return utils.Created(c, user)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	token, user, err := h.auth.Login(c.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return utils.Unauthorized(c, err.Error())
		}
		return utils.InternalError(c, "failed to login")
	}

	return utils.Success(c, fiber.Map{
		"token": token,
		"user":  user,
	})
}
