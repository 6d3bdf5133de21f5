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

// ReviewService scopes every operation under a parent title. The parent
// lookup always runs first so that a bad path yields not-found before any
// permission question arises.
type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

func (s *ReviewService) requireTitle(titleID uuid.UUID) error {
	var title models.Title
	if err := s.db.Select("id").First(&title, "id = ?", titleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("title not found")
		}
		return fmt.Errorf("lookup title: %w", err)
	}
	return nil
}

func (s *ReviewService) List(titleID uuid.UUID, page, limit int) ([]models.Review, int64, error) {
	if err := s.requireTitle(titleID); err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	var total int64

	if err := s.db.Model(&models.Review{}).Scopes(scope.ForTitle(titleID)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}
	err := s.db.Preload("Author").
		Scopes(scope.ForTitle(titleID), scope.Paged(page, limit)).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, total, nil
}

// Get resolves a review strictly within its path title; a review id that
// exists under a different title is not reachable here.
func (s *ReviewService) Get(titleID, reviewID uuid.UUID) (*models.Review, error) {
	if err := s.requireTitle(titleID); err != nil {
		return nil, err
	}

	var review models.Review
	err := s.db.Preload("Author").
		Scopes(scope.ForTitle(titleID)).
		First(&review, "id = ?", reviewID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("review not found")
		}
		return nil, fmt.Errorf("lookup review: %w", err)
	}
	return &review, nil
}

// Create stamps the caller as author and the path title as parent; the
// payload can never set either.
func (s *ReviewService) Create(titleID, authorID uuid.UUID, req *dto.ReviewRequest) (*models.Review, error) {
	if err := s.requireTitle(titleID); err != nil {
		return nil, err
	}
	if err := validateReviewText(req.Text); err != nil {
		return nil, err
	}
	if err := validateScore(req.Score); err != nil {
		return nil, err
	}

	review := &models.Review{
		Text:     strings.TrimSpace(req.Text),
		Score:    req.Score,
		TitleID:  titleID,
		AuthorID: authorID,
	}
	if err := s.db.Create(review).Error; err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return s.Get(titleID, review.ID)
}

func (s *ReviewService) Update(titleID, reviewID uuid.UUID, req *dto.ReviewUpdateRequest) (*models.Review, error) {
	review, err := s.Get(titleID, reviewID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Text != nil {
		if err := validateReviewText(*req.Text); err != nil {
			return nil, err
		}
		updates["text"] = strings.TrimSpace(*req.Text)
	}
	if req.Score != nil {
		if err := validateScore(*req.Score); err != nil {
			return nil, err
		}
		updates["score"] = *req.Score
	}

	if len(updates) > 0 {
		if err := s.db.Model(review).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update review: %w", err)
		}
	}
	return review, nil
}

func (s *ReviewService) Delete(titleID, reviewID uuid.UUID) error {
	review, err := s.Get(titleID, reviewID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(scope.ForReview(review.ID)).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete review comments: %w", err)
		}
		return tx.Delete(&models.Review{}, "id = ?", review.ID).Error
	})
}

func validateReviewText(text string) error {
	if strings.TrimSpace(text) == "" {
		return apperr.Validation("review text is required")
	}
	return nil
}

// validateScore enforces the inclusive [1,10] bound.
func validateScore(score int) error {
	if score < 1 || score > 10 {
		return apperr.Validation("score must be between 1 and 10")
	}
	return nil
}
