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

// CommentStore is the comment surface consumed by this handler. Every
// operation is scoped under the path title/review pair.
type CommentStore interface {
	List(titleID, reviewID uuid.UUID, page, limit int) ([]models.Comment, int64, error)
	Get(titleID, reviewID, commentID uuid.UUID) (*models.Comment, error)
	Create(titleID, reviewID, authorID uuid.UUID, req *dto.CommentRequest) (*models.Comment, error)
	Update(titleID, reviewID, commentID uuid.UUID, req *dto.CommentUpdateRequest) (*models.Comment, error)
	Delete(titleID, reviewID, commentID uuid.UUID) error
}

type CommentHandler struct {
	store CommentStore
}

func NewCommentHandler(store CommentStore) *CommentHandler {
	return &CommentHandler{store: store}
}

func (h *CommentHandler) List(c *fiber.Ctx) error {
	titleID, reviewID, err := commentParentPath(c)
	if err != nil {
		return fail(c, err)
	}

	page, limit := pagination(c)
	comments, total, err := h.store.List(titleID, reviewID, page, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(listPayload(comments, page, limit, total))
}

func (h *CommentHandler) Get(c *fiber.Ctx) error {
	titleID, reviewID, commentID, err := commentPath(c)
	if err != nil {
		return fail(c, err)
	}

	comment, err := h.store.Get(titleID, reviewID, commentID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(comment)
}

func (h *CommentHandler) Create(c *fiber.Ctx) error {
	titleID, reviewID, err := commentParentPath(c)
	if err != nil {
		return fail(c, err)
	}

	ident := middleware.Identity(c)
	if err := rbac.Evaluate(rbac.ResourceComment, rbac.ActionCreate, ident, nil); err != nil {
		return fail(c, err)
	}

	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	comment, err := h.store.Create(titleID, reviewID, ident.ID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *CommentHandler) Update(c *fiber.Ctx) error {
	titleID, reviewID, commentID, err := commentPath(c)
	if err != nil {
		return fail(c, err)
	}

	comment, err := h.store.Get(titleID, reviewID, commentID)
	if err != nil {
		return fail(c, err)
	}
	if err := rbac.Evaluate(rbac.ResourceComment, rbac.ActionUpdate, middleware.Identity(c), &comment.AuthorID); err != nil {
		return fail(c, err)
	}

	var req dto.CommentUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updated, err := h.store.Update(titleID, reviewID, commentID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(updated)
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	titleID, reviewID, commentID, err := commentPath(c)
	if err != nil {
		return fail(c, err)
	}

	comment, err := h.store.Get(titleID, reviewID, commentID)
	if err != nil {
		return fail(c, err)
	}
	if err := rbac.Evaluate(rbac.ResourceComment, rbac.ActionDelete, middleware.Identity(c), &comment.AuthorID); err != nil {
		return fail(c, err)
	}

	if err := h.store.Delete(titleID, reviewID, commentID); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func commentParentPath(c *fiber.Ctx) (titleID, reviewID uuid.UUID, err error) {
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

func commentPath(c *fiber.Ctx) (titleID, reviewID, commentID uuid.UUID, err error) {
	titleID, reviewID, err = commentParentPath(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, err
	}
	commentID, err = uuid.Parse(c.Params("commentID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, apperr.Validation("invalid comment id")
	}
	return titleID, reviewID, commentID, nil
}
