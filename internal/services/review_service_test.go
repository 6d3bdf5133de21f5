package services

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkolesnikov/titledb/internal/apperr"
	"github.com/mkolesnikov/titledb/internal/dto"
)

func TestValidateScoreBounds(t *testing.T) {
	cases := []struct {
		score int
		valid bool
	}{
		{0, false},
		{1, true},
		{5, true},
		{10, true},
		{11, false},
		{-3, false},
	}

	for _, tc := range cases {
		err := validateScore(tc.score)
		if tc.valid {
			assert.NoError(t, err, "score %d", tc.score)
		} else {
			require.Error(t, err, "score %d", tc.score)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		}
	}
}

func TestCreateReviewRejectsScoreOutOfRange(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewReviewService(db)
	titleID, authorID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT "id" FROM "titles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(titleID.String()))

	_, err := svc.Create(titleID, authorID, &dto.ReviewRequest{Text: "great", Score: 11})

	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReviewAbortsWhenCommentDeleteFails(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewReviewService(db)
	titleID, reviewID, authorID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT "id" FROM "titles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(titleID.String()))
	mock.ExpectQuery(`SELECT .+ FROM "reviews"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "score", "title_id", "author_id"}).
			AddRow(reviewID.String(), "great", 9, titleID.String(), authorID.String()))
	mock.ExpectQuery(`SELECT .+ FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "comments"`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := svc.Delete(titleID, reviewID)

	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
