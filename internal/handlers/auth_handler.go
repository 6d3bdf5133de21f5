package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mkolesnikov/titledb/internal/dto"
	"github.com/mkolesnikov/titledb/internal/models"
)

// AuthFlow is the signup/activation/token surface consumed by this handler.
type AuthFlow interface {
	Signup(req *dto.SignupRequest) (*models.User, error)
	Confirm(req *dto.TokenRequest) (*dto.AuthResponse, error)
	Refresh(refreshToken string) (*dto.AuthResponse, error)
	Logout(refreshToken string) error
}

type AuthHandler struct {
	flow AuthFlow
}

func NewAuthHandler(flow AuthFlow) *AuthHandler {
	return &AuthHandler{flow: flow}
}

// Signup creates a pending account and dispatches its confirmation code.
// The response echoes the identity fields only; the code travels out of
// band.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.flow.Signup(&req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SignupResponse{
		Username: user.Username,
		Email:    user.Email,
	})
}

// Token exchanges username + confirmation code for a credential pair.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.flow.Confirm(&req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.flow.Refresh(req.RefreshToken)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.flow.Logout(req.RefreshToken); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}
