package handlers

import (
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

type mockTitleStore struct {
	mock.Mock
}

func (m *mockTitleStore) ListTitles(page, limit int) ([]models.Title, int64, error) {
	args := m.Called(page, limit)
	return args.Get(0).([]models.Title), args.Get(1).(int64), args.Error(2)
}

func (m *mockTitleStore) GetTitle(id uuid.UUID) (*models.Title, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Title), args.Error(1)
}

func (m *mockTitleStore) CreateTitle(req *dto.TitleRequest) (*models.Title, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Title), args.Error(1)
}

func (m *mockTitleStore) UpdateTitle(id uuid.UUID, req *dto.TitleUpdateRequest) (*models.Title, error) {
	args := m.Called(id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Title), args.Error(1)
}

func (m *mockTitleStore) DeleteTitle(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func newTitleApp(store TitleStore, ident *rbac.Identity) *fiber.App {
	app := fiber.New()
	h := NewTitleHandler(store)
	app.Get("/titles", h.List)
	app.Post("/titles", asIdentity(ident), h.Create)
	app.Get("/titles/:titleID", h.Get)
	app.Patch("/titles/:titleID", asIdentity(ident), h.Update)
	app.Delete("/titles/:titleID", asIdentity(ident), h.Delete)
	return app
}

func TestCreateTitleAdmin(t *testing.T) {
	store := new(mockTitleStore)
	req := dto.TitleRequest{Name: "Dune", Year: 1965, Category: "books", Genre: []string{"sci-fi"}}
	store.On("CreateTitle", &req).
		Return(&models.Title{ID: uuid.New(), Name: "Dune", Year: 1965}, nil)
	ident := &rbac.Identity{ID: uuid.New(), Username: "root", Role: rbac.RoleAdmin}

	resp := postJSON(t, newTitleApp(store, ident), "/titles", req)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	store.AssertExpectations(t)
}

func TestCreateTitleUnknownCategorySlug(t *testing.T) {
	store := new(mockTitleStore)
	store.On("CreateTitle", mock.Anything).
		Return(nil, apperr.Validation("unknown category slug %q", "nope"))
	ident := &rbac.Identity{ID: uuid.New(), Username: "root", Role: rbac.RoleAdmin}

	resp := postJSON(t, newTitleApp(store, ident), "/titles",
		dto.TitleRequest{Name: "Dune", Year: 1965, Category: "nope"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateTitleUserForbidden(t *testing.T) {
	store := new(mockTitleStore)
	ident := &rbac.Identity{ID: uuid.New(), Username: "bob", Role: rbac.RoleUser}

	name := "Dune Messiah"
	resp := patchJSON(t, newTitleApp(store, ident), "/titles/"+uuid.NewString(),
		dto.TitleUpdateRequest{Name: &name})

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	store.AssertNotCalled(t, "UpdateTitle", mock.Anything, mock.Anything)
}

func TestGetTitlePublic(t *testing.T) {
	id := uuid.New()
	store := new(mockTitleStore)
	store.On("GetTitle", id).
		Return(&models.Title{ID: id, Name: "Dune", Year: 1965}, nil)

	req := httptest.NewRequest(http.MethodGet, "/titles/"+id.String(), nil)
	resp, err := newTitleApp(store, nil).Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	store.AssertExpectations(t)
}

func TestDeleteTitleAnonymousUnauthorized(t *testing.T) {
	store := new(mockTitleStore)

	req := httptest.NewRequest(http.MethodDelete, "/titles/"+uuid.NewString(), nil)
	resp, err := newTitleApp(store, nil).Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	store.AssertNotCalled(t, "DeleteTitle", mock.Anything)
}
