package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindConflict, KindOf(Conflict("taken")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindPermissionDenied, KindOf(PermissionDenied("no")))
	assert.Equal(t, KindAuthRequired, KindOf(AuthRequired("login")))
	assert.Equal(t, KindInvalidCredential, KindOf(InvalidCredential("bad code")))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("handling request: %w", NotFound("title not found"))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestErrorsIsMatchesByKind(t *testing.T) {
	assert.ErrorIs(t, Conflict("username taken"), Conflict("any conflict"))
	assert.NotErrorIs(t, Conflict("username taken"), NotFound("missing"))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validation("bad"), fiber.StatusBadRequest},
		{InvalidCredential("bad code"), fiber.StatusBadRequest},
		{Conflict("dup"), fiber.StatusConflict},
		{NotFound("gone"), fiber.StatusNotFound},
		{PermissionDenied("no"), fiber.StatusForbidden},
		{AuthRequired("login"), fiber.StatusUnauthorized},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, HTTPStatus(tc.err), "for %v", tc.err)
	}
}

func TestMessageFormatting(t *testing.T) {
	err := NotFound("user %q not found", "alice")
	assert.Equal(t, `user "alice" not found`, err.Error())
}
