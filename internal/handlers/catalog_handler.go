package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mkolesnikov/titledb/internal/dto"
	"github.com/mkolesnikov/titledb/internal/middleware"
	"github.com/mkolesnikov/titledb/internal/models"
	"github.com/mkolesnikov/titledb/internal/rbac"
)

// ClassifierStore is the category/genre surface consumed by this handler.
type ClassifierStore interface {
	ListCategories(page, limit int) ([]models.Category, int64, error)
	CreateCategory(req *dto.ClassifierRequest) (*models.Category, error)
	DeleteCategory(slug string) error
	ListGenres(page, limit int) ([]models.Genre, int64, error)
	CreateGenre(req *dto.ClassifierRequest) (*models.Genre, error)
	DeleteGenre(slug string) error
}

// CatalogHandler serves categories and genres; both are pure role-gated
// classifiers with identical list/create/delete shapes.
type CatalogHandler struct {
	store ClassifierStore
}

func NewCatalogHandler(store ClassifierStore) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// --- Categories ---

func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	page, limit := pagination(c)
	categories, total, err := h.store.ListCategories(page, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(listPayload(categories, page, limit, total))
}

func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	if err := rbac.Evaluate(rbac.ResourceCategory, rbac.ActionCreate, middleware.Identity(c), nil); err != nil {
		return fail(c, err)
	}

	var req dto.ClassifierRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	category, err := h.store.CreateCategory(&req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := rbac.Evaluate(rbac.ResourceCategory, rbac.ActionDelete, middleware.Identity(c), nil); err != nil {
		return fail(c, err)
	}

	if err := h.store.DeleteCategory(c.Params("slug")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// --- Genres ---

func (h *CatalogHandler) ListGenres(c *fiber.Ctx) error {
	page, limit := pagination(c)
	genres, total, err := h.store.ListGenres(page, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(listPayload(genres, page, limit, total))
}

func (h *CatalogHandler) CreateGenre(c *fiber.Ctx) error {
	if err := rbac.Evaluate(rbac.ResourceGenre, rbac.ActionCreate, middleware.Identity(c), nil); err != nil {
		return fail(c, err)
	}

	var req dto.ClassifierRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	genre, err := h.store.CreateGenre(&req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(genre)
}

func (h *CatalogHandler) DeleteGenre(c *fiber.Ctx) error {
	if err := rbac.Evaluate(rbac.ResourceGenre, rbac.ActionDelete, middleware.Identity(c), nil); err != nil {
		return fail(c, err)
	}

	if err := h.store.DeleteGenre(c.Params("slug")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
