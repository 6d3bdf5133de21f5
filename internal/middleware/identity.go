package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkolesnikov/titledb/internal/dto"
	"github.com/mkolesnikov/titledb/internal/models"
	"github.com/mkolesnikov/titledb/internal/rbac"
)

const identityKey = "identity"

// LoadIdentity resolves the JWT subject against the identity store and puts
// an rbac.Identity in locals. Reading the role from the store on every
// request means admin-made role changes take effect immediately, not at the
// next token refresh. Must run after JWTProtected.
func LoadIdentity(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := subjectFromToken(c)
		if err != nil {
			return unauthorized(c)
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return unauthorized(c)
		}

		role, err := rbac.ParseRole(user.Role)
		if err != nil {
			// a row with an out-of-enum role is corrupt, not a caller error
			return unauthorized(c)
		}

		c.Locals(identityKey, &rbac.Identity{
			ID:       user.ID,
			Username: user.Username,
			Role:     role,
		})
		return c.Next()
	}
}

// Identity returns the caller loaded by LoadIdentity, nil for anonymous
// requests.
func Identity(c *fiber.Ctx) *rbac.Identity {
	ident, _ := c.Locals(identityKey).(*rbac.Identity)
	return ident
}

func subjectFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return uuid.Parse(sub)
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Unauthorized",
	})
}
