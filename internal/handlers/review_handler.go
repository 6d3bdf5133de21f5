package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mkolesnikov/titledb/internal/apperr"
	"github.com/mkolesnikov/titledb/internal/dto"
	"github.com/mkolesnikov/titledb/internal/middleware"
	"github.com/mkolesnikov/titledb/internal/models"
	"github.com/mkolesnikov/titledb/internal/rbac"
)

// ReviewStore is the review surface consumed by this handler. Every
// operation is scoped under the path title.
type ReviewStore interface {
	List(titleID uuid.UUID, page, limit int) ([]models.Review, int64, error)
	Get(titleID, reviewID uuid.UUID) (*models.Review, error)
	Create(titleID, authorID uuid.UUID, req *dto.ReviewRequest) (*models.Review, error)
	Update(titleID, reviewID uuid.UUID, req *dto.ReviewUpdateRequest) (*models.Review, error)
	Delete(titleID, reviewID uuid.UUID) error
}

type ReviewHandler struct {
	store ReviewStore
}

func NewReviewHandler(store ReviewStore) *ReviewHandler {
	return &ReviewHandler{store: store}
}

func (h *ReviewHandler) List(c *fiber.Ctx) error {
	titleID, err := uuid.Parse(c.Params("titleID"))
	if err != nil {
		return badRequest(c, "Invalid title id")
	}

	page, limit := pagination(c)
	reviews, total, err := h.store.List(titleID, page, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(listPayload(reviews, page, limit, total))
}

func (h *ReviewHandler) Get(c *fiber.Ctx) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return fail(c, err)
	}

	review, err := h.store.Get(titleID, reviewID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(review)
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	titleID, err := uuid.Parse(c.Params("titleID"))
	if err != nil {
		return badRequest(c, "Invalid title id")
	}

	ident := middleware.Identity(c)
	if err := rbac.Evaluate(rbac.ResourceReview, rbac.ActionCreate, ident, nil); err != nil {
		return fail(c, err)
	}

	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	review, err := h.store.Create(titleID, ident.ID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return fail(c, err)
	}

	// parent and target are resolved before the ownership question
	review, err := h.store.Get(titleID, reviewID)
	if err != nil {
		return fail(c, err)
	}
	if err := rbac.Evaluate(rbac.ResourceReview, rbac.ActionUpdate, middleware.Identity(c), &review.AuthorID); err != nil {
		return fail(c, err)
	}

	var req dto.ReviewUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updated, err := h.store.Update(titleID, reviewID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(updated)
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return fail(c, err)
	}

	review, err := h.store.Get(titleID, reviewID)
	if err != nil {
		return fail(c, err)
	}
	if err := rbac.Evaluate(rbac.ResourceReview, rbac.ActionDelete, middleware.Identity(c), &review.AuthorID); err != nil {
		return fail(c, err)
	}

	if err := h.store.Delete(titleID, reviewID); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func reviewPath(c *fiber.Ctx) (titleID, reviewID uuid.UUID, err error) {
	titleID, err = uuid.Parse(c.Params("titleID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, apperr.Validation("invalid title id")
	}
	reviewID, err = uuid.Parse(c.Params("reviewID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, apperr.Validation("invalid review id")
	}
	return titleID, reviewID, nil
}
