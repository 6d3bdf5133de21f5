package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mkolesnikov/titledb/internal/dto"
	"github.com/mkolesnikov/titledb/internal/middleware"
	"github.com/mkolesnikov/titledb/internal/models"
	"github.com/mkolesnikov/titledb/internal/rbac"
)

// UserStore is the account-management surface consumed by this handler.
type UserStore interface {
	List(page, limit int) ([]models.User, int64, error)
	GetByUsername(username string) (*models.User, error)
	Update(username string, req *dto.UserUpdateRequest, caller *rbac.Identity) (*models.User, error)
	Delete(username string) error
}

type UserHandler struct {
	store UserStore
}

func NewUserHandler(store UserStore) *UserHandler {
	return &UserHandler{store: store}
}

// --- /users/me (self-service) ---

func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	ident := middleware.Identity(c)
	if err := rbac.Evaluate(rbac.ResourceAccount, rbac.ActionRetrieve, ident, identityID(ident)); err != nil {
		return fail(c, err)
	}

	user, err := h.store.GetByUsername(ident.Username)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(userResponse(user))
}

// UpdateMe applies a partial self update. The role field is dropped for
// non-admin callers inside the store, so it cannot be used for escalation.
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	ident := middleware.Identity(c)
	if err := rbac.Evaluate(rbac.ResourceAccount, rbac.ActionUpdate, ident, identityID(ident)); err != nil {
		return fail(c, err)
	}

	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.store.Update(ident.Username, &req, ident)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(userResponse(user))
}

func (h *UserHandler) DeleteMe(c *fiber.Ctx) error {
	ident := middleware.Identity(c)
	if err := rbac.Evaluate(rbac.ResourceAccount, rbac.ActionDelete, ident, identityID(ident)); err != nil {
		return fail(c, err)
	}

	if err := h.store.Delete(ident.Username); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// --- /users (admin) ---

func (h *UserHandler) List(c *fiber.Ctx) error {
	if err := rbac.Evaluate(rbac.ResourceAccount, rbac.ActionList, middleware.Identity(c), nil); err != nil {
		return fail(c, err)
	}

	page, limit := pagination(c)
	users, total, err := h.store.List(page, limit)
	if err != nil {
		return fail(c, err)
	}

	out := make([]dto.UserResponse, len(users))
	for i := range users {
		out[i] = userResponse(&users[i])
	}
	return c.JSON(listPayload(out, page, limit, total))
}

// The /users/:username routes never pass an owner, so the self clause of
// the account policy cannot match and only admins get through. Self access
// goes through /users/me exclusively, own username included.

func (h *UserHandler) Get(c *fiber.Ctx) error {
	if err := rbac.Evaluate(rbac.ResourceAccount, rbac.ActionRetrieve, middleware.Identity(c), nil); err != nil {
		return fail(c, err)
	}

	target, err := h.store.GetByUsername(c.Params("username"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(userResponse(target))
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	if err := rbac.Evaluate(rbac.ResourceAccount, rbac.ActionUpdate, middleware.Identity(c), nil); err != nil {
		return fail(c, err)
	}

	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.store.Update(c.Params("username"), &req, middleware.Identity(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(userResponse(user))
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := rbac.Evaluate(rbac.ResourceAccount, rbac.ActionDelete, middleware.Identity(c), nil); err != nil {
		return fail(c, err)
	}

	if err := h.store.Delete(c.Params("username")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func identityID(ident *rbac.Identity) *uuid.UUID {
	if ident == nil {
		return nil
	}
	return &ident.ID
}

func userResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Active:   u.Active,
		Bio:      u.Bio,
	}
}
