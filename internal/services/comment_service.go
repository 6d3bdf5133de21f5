package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkolesnikov/titledb/internal/apperr"
	"github.com/mkolesnikov/titledb/internal/dto"
	"github.com/mkolesnikov/titledb/internal/models"
	"github.com/mkolesnikov/titledb/internal/scope"
)

// CommentService scopes every operation under a title/review pair. A comment
// is unreachable except through its review within its title.
type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// requireReview validates the full parent chain: the title exists, the
// review exists, and the review's stored parent title matches the path
// title. A mismatched pair is not-found, never a permission outcome.
func (s *CommentService) requireReview(titleID, reviewID uuid.UUID) (*models.Review, error) {
	var title models.Title
	if err := s.db.Select("id").First(&title, "id = ?", titleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("title not found")
		}
		return nil, fmt.Errorf("lookup title: %w", err)
	}

	var review models.Review
	if err := s.db.First(&review, "id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("review not found")
		}
		return nil, fmt.Errorf("lookup review: %w", err)
	}
	if review.TitleID != titleID {
		return nil, apperr.NotFound("review not found")
	}
	return &review, nil
}

func (s *CommentService) List(titleID, reviewID uuid.UUID, page, limit int) ([]models.Comment, int64, error) {
	if _, err := s.requireReview(titleID, reviewID); err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	var total int64

	if err := s.db.Model(&models.Comment{}).Scopes(scope.ForReview(reviewID)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}
	err := s.db.Preload("Author").
		Scopes(scope.ForReview(reviewID), scope.Paged(page, limit)).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	return comments, total, nil
}

func (s *CommentService) Get(titleID, reviewID, commentID uuid.UUID) (*models.Comment, error) {
	if _, err := s.requireReview(titleID, reviewID); err != nil {
		return nil, err
	}

	var comment models.Comment
	err := s.db.Preload("Author").
		Scopes(scope.ForReview(reviewID)).
		First(&comment, "id = ?", commentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("comment not found")
		}
		return nil, fmt.Errorf("lookup comment: %w", err)
	}
	return &comment, nil
}

func (s *CommentService) Create(titleID, reviewID, authorID uuid.UUID, req *dto.CommentRequest) (*models.Comment, error) {
	review, err := s.requireReview(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, apperr.Validation("comment text is required")
	}

	comment := &models.Comment{
		Text:     strings.TrimSpace(req.Text),
		TitleID:  review.TitleID,
		ReviewID: review.ID,
		AuthorID: authorID,
	}
	if err := s.db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return s.Get(titleID, reviewID, comment.ID)
}

func (s *CommentService) Update(titleID, reviewID, commentID uuid.UUID, req *dto.CommentUpdateRequest) (*models.Comment, error) {
	comment, err := s.Get(titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if req.Text != nil {
		if strings.TrimSpace(*req.Text) == "" {
			return nil, apperr.Validation("comment text is required")
		}
		if err := s.db.Model(comment).Update("text", strings.TrimSpace(*req.Text)).Error; err != nil {
			return nil, fmt.Errorf("update comment: %w", err)
		}
	}
	return comment, nil
}

func (s *CommentService) Delete(titleID, reviewID, commentID uuid.UUID) error {
	comment, err := s.Get(titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	return s.db.Delete(&models.Comment{}, "id = ?", comment.ID).Error
}
