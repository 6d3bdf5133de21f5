package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mkolesnikov/titledb/internal/apperr"
	"github.com/mkolesnikov/titledb/internal/dto"
	"github.com/mkolesnikov/titledb/internal/models"
	"github.com/mkolesnikov/titledb/internal/rbac"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) List(page, limit int) ([]models.User, int64, error) {
	args := m.Called(page, limit)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *mockUserStore) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserStore) Update(username string, req *dto.UserUpdateRequest, caller *rbac.Identity) (*models.User, error) {
	args := m.Called(username, req, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserStore) Delete(username string) error {
	return m.Called(username).Error(0)
}

func newUserApp(store UserStore, ident *rbac.Identity) *fiber.App {
	app := fiber.New()
	h := NewUserHandler(store)
	app.Get("/users/me", asIdentity(ident), h.GetMe)
	app.Patch("/users/me", asIdentity(ident), h.UpdateMe)
	app.Get("/users", asIdentity(ident), h.List)
	app.Get("/users/:username", asIdentity(ident), h.Get)
	app.Delete("/users/:username", asIdentity(ident), h.Delete)
	return app
}

func TestGetMeReturnsOwnAccount(t *testing.T) {
	ident := &rbac.Identity{ID: uuid.New(), Username: "alice", Role: rbac.RoleUser}

	store := new(mockUserStore)
	store.On("GetByUsername", "alice").
		Return(&models.User{ID: ident.ID, Username: "alice", Email: "alice@x.com", Role: "user", Active: true}, nil)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	resp, err := newUserApp(store, ident).Test(req)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.UserResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "alice", out.Username)
	assert.True(t, out.Active)
}

func TestGetMeAnonymousUnauthorized(t *testing.T) {
	store := new(mockUserStore)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	resp, err := newUserApp(store, nil).Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	store.AssertNotCalled(t, "GetByUsername", mock.Anything)
}

func TestListUsersRequiresAdmin(t *testing.T) {
	store := new(mockUserStore)
	ident := &rbac.Identity{ID: uuid.New(), Username: "mod", Role: rbac.RoleModerator}

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	resp, err := newUserApp(store, ident).Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	store.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestGetUserByAdminMissingIsNotFound(t *testing.T) {
	store := new(mockUserStore)
	store.On("GetByUsername", "ghost").Return(nil, apperr.NotFound("user not found"))
	ident := &rbac.Identity{ID: uuid.New(), Username: "root", Role: rbac.RoleAdmin}

	req := httptest.NewRequest(http.MethodGet, "/users/ghost", nil)
	resp, err := newUserApp(store, ident).Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetOtherUserForbidden(t *testing.T) {
	store := new(mockUserStore)
	ident := &rbac.Identity{ID: uuid.New(), Username: "bob", Role: rbac.RoleUser}

	req := httptest.NewRequest(http.MethodGet, "/users/carol", nil)
	resp, err := newUserApp(store, ident).Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	store.AssertNotCalled(t, "GetByUsername", mock.Anything)
}

func TestGetOwnUsernameRouteForbiddenForPlainUser(t *testing.T) {
	store := new(mockUserStore)
	ident := &rbac.Identity{ID: uuid.New(), Username: "bob", Role: rbac.RoleUser}

	req := httptest.NewRequest(http.MethodGet, "/users/bob", nil)
	resp, err := newUserApp(store, ident).Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	store.AssertNotCalled(t, "GetByUsername", mock.Anything)
}

func TestDeleteOwnUsernameRouteForbiddenForPlainUser(t *testing.T) {
	store := new(mockUserStore)
	ident := &rbac.Identity{ID: uuid.New(), Username: "bob", Role: rbac.RoleUser}

	req := httptest.NewRequest(http.MethodDelete, "/users/bob", nil)
	resp, err := newUserApp(store, ident).Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	store.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestUpdateMePassesCallerIdentity(t *testing.T) {
	ident := &rbac.Identity{ID: uuid.New(), Username: "alice", Role: rbac.RoleUser}
	bio := "reader"

	store := new(mockUserStore)
	store.On("Update", "alice", &dto.UserUpdateRequest{Bio: &bio}, ident).
		Return(&models.User{ID: ident.ID, Username: "alice", Bio: bio, Role: "user", Active: true}, nil)

	resp := patchJSON(t, newUserApp(store, ident), "/users/me",
		dto.UserUpdateRequest{Bio: &bio})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	store.AssertExpectations(t)
}

func TestDeleteUserByAdmin(t *testing.T) {
	ident := &rbac.Identity{ID: uuid.New(), Username: "root", Role: rbac.RoleAdmin}

	store := new(mockUserStore)
	store.On("Delete", "bob").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/users/bob", nil)
	resp, err := newUserApp(store, ident).Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	store.AssertExpectations(t)
}
