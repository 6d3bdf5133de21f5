package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mkolesnikov/titledb/internal/dto"
	"github.com/mkolesnikov/titledb/internal/middleware"
	"github.com/mkolesnikov/titledb/internal/models"
	"github.com/mkolesnikov/titledb/internal/rbac"
)

// TitleStore is the title surface consumed by this handler.
type TitleStore interface {
	ListTitles(page, limit int) ([]models.Title, int64, error)
	GetTitle(id uuid.UUID) (*models.Title, error)
	CreateTitle(req *dto.TitleRequest) (*models.Title, error)
	UpdateTitle(id uuid.UUID, req *dto.TitleUpdateRequest) (*models.Title, error)
	DeleteTitle(id uuid.UUID) error
}

type TitleHandler struct {
	store TitleStore
}

func NewTitleHandler(store TitleStore) *TitleHandler {
	return &TitleHandler{store: store}
}

func (h *TitleHandler) List(c *fiber.Ctx) error {
	page, limit := pagination(c)
	titles, total, err := h.store.ListTitles(page, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(listPayload(titles, page, limit, total))
}

func (h *TitleHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("titleID"))
	if err != nil {
		return badRequest(c, "Invalid title id")
	}

	title, err := h.store.GetTitle(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(title)
}

func (h *TitleHandler) Create(c *fiber.Ctx) error {
	if err := rbac.Evaluate(rbac.ResourceTitle, rbac.ActionCreate, middleware.Identity(c), nil); err != nil {
		return fail(c, err)
	}

	var req dto.TitleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	title, err := h.store.CreateTitle(&req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(title)
}

func (h *TitleHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("titleID"))
	if err != nil {
		return badRequest(c, "Invalid title id")
	}
	if err := rbac.Evaluate(rbac.ResourceTitle, rbac.ActionUpdate, middleware.Identity(c), nil); err != nil {
		return fail(c, err)
	}

	var req dto.TitleUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	title, err := h.store.UpdateTitle(id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(title)
}

func (h *TitleHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("titleID"))
	if err != nil {
		return badRequest(c, "Invalid title id")
	}
	if err := rbac.Evaluate(rbac.ResourceTitle, rbac.ActionDelete, middleware.Identity(c), nil); err != nil {
		return fail(c, err)
	}

	if err := h.store.DeleteTitle(id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
