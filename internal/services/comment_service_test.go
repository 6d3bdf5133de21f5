package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkolesnikov/titledb/internal/apperr"
)

func expectTitleAndReview(mock sqlmock.Sqlmock, titleID, reviewID, storedTitleID uuid.UUID) {
	mock.ExpectQuery(`SELECT "id" FROM "titles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(titleID.String()))
	mock.ExpectQuery(`SELECT .+ FROM "reviews"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "score", "title_id", "author_id"}).
			AddRow(reviewID.String(), "great", 9, storedTitleID.String(), uuid.NewString()))
}

func TestRequireReviewRejectsForeignTitle(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCommentService(db)
	titleID, reviewID := uuid.New(), uuid.New()

	// The review exists, but under a different title than the path names.
	expectTitleAndReview(mock, titleID, reviewID, uuid.New())

	_, err := svc.requireReview(titleID, reviewID)

	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.EqualError(t, err, "review not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireReviewAcceptsMatchingTitle(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCommentService(db)
	titleID, reviewID := uuid.New(), uuid.New()

	expectTitleAndReview(mock, titleID, reviewID, titleID)

	review, err := svc.requireReview(titleID, reviewID)

	require.NoError(t, err)
	assert.Equal(t, reviewID, review.ID)
	assert.Equal(t, titleID, review.TitleID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListCommentsUnderForeignReviewNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCommentService(db)
	titleID, reviewID := uuid.New(), uuid.New()

	expectTitleAndReview(mock, titleID, reviewID, uuid.New())

	_, _, err := svc.List(titleID, reviewID, 1, 20)

	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
