package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/mkolesnikov/titledb/internal/apperr"
	"github.com/mkolesnikov/titledb/internal/dto"
)

// fail translates a service error into the client response. Internal errors
// are logged and masked; everything in the apperr taxonomy passes through
// with its message.
func fail(c *fiber.Ctx, err error) error {
	status := apperr.HTTPStatus(err)
	message := err.Error()
	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		)
		message = "Internal server error"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// pagination clamps page/limit query args to sane windows.
func pagination(c *fiber.Ctx) (page, limit int) {
	page = c.QueryInt("page", 1)
	limit = c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func listPayload(items interface{}, page, limit int, total int64) fiber.Map {
	return fiber.Map{
		"results": items,
		"meta":    dto.ListMeta{Page: page, Limit: limit, Total: total},
	}
}
