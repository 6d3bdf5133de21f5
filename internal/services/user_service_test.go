package services

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDeleteUserAbortsWhenChildDeleteFails(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewUserService(db)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "role", "active"}).
			AddRow(userID.String(), "bob", "bob@x.com", "user", true))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "refresh_tokens"`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := svc.Delete("bob")

	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
