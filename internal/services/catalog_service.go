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

// CatalogService owns the role-gated catalog entities: categories, genres
// and titles. Ownership never applies here; writes are admin-only and the
// handlers enforce that through the permission evaluator before calling in.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// --- Categories ---

func (s *CatalogService) ListCategories(page, limit int) ([]models.Category, int64, error) {
	var categories []models.Category
	var total int64

	if err := s.db.Model(&models.Category{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}
	err := s.db.Scopes(scope.ByNameAsc(), scope.Paged(page, limit)).Find(&categories).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	return categories, total, nil
}

func (s *CatalogService) CreateCategory(req *dto.ClassifierRequest) (*models.Category, error) {
	name, slug, err := validateClassifier(req)
	if err != nil {
		return nil, err
	}

	category := &models.Category{Name: name, Slug: slug}
	if err := s.db.Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("category slug %q already exists", slug)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category by slug and nulls the reference on every
// title that pointed at it. Titles are never cascade-deleted.
func (s *CatalogService) DeleteCategory(slug string) error {
	var category models.Category
	if err := s.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("category %q not found", slug)
		}
		return fmt.Errorf("lookup category: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Title{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
}

// --- Genres ---

func (s *CatalogService) ListGenres(page, limit int) ([]models.Genre, int64, error) {
	var genres []models.Genre
	var total int64

	if err := s.db.Model(&models.Genre{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count genres: %w", err)
	}
	err := s.db.Scopes(scope.ByNameAsc(), scope.Paged(page, limit)).Find(&genres).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list genres: %w", err)
	}
	return genres, total, nil
}

func (s *CatalogService) CreateGenre(req *dto.ClassifierRequest) (*models.Genre, error) {
	name, slug, err := validateClassifier(req)
	if err != nil {
		return nil, err
	}

	genre := &models.Genre{Name: name, Slug: slug}
	if err := s.db.Create(genre).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("genre slug %q already exists", slug)
		}
		return nil, fmt.Errorf("create genre: %w", err)
	}
	return genre, nil
}

func (s *CatalogService) DeleteGenre(slug string) error {
	var genre models.Genre
	if err := s.db.Where("slug = ?", slug).First(&genre).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("genre %q not found", slug)
		}
		return fmt.Errorf("lookup genre: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM title_genres WHERE genre_id = ?", genre.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&genre).Error
	})
}

// --- Titles ---

func (s *CatalogService) ListTitles(page, limit int) ([]models.Title, int64, error) {
	var titles []models.Title
	var total int64

	if err := s.db.Model(&models.Title{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}
	err := s.db.Preload("Category").Preload("Genres").
		Scopes(scope.ByNameAsc(), scope.Paged(page, limit)).
		Find(&titles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list titles: %w", err)
	}
	return titles, total, nil
}

func (s *CatalogService) GetTitle(id uuid.UUID) (*models.Title, error) {
	var title models.Title
	err := s.db.Preload("Category").Preload("Genres").First(&title, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("title not found")
		}
		return nil, fmt.Errorf("lookup title: %w", err)
	}
	return &title, nil
}

func (s *CatalogService) CreateTitle(req *dto.TitleRequest) (*models.Title, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("title name is required")
	}
	if req.Year <= 0 {
		return nil, apperr.Validation("year must be a positive integer")
	}

	title := &models.Title{
		Name:        name,
		Year:        req.Year,
		Description: req.Description,
	}

	if req.Category != "" {
		category, err := s.categoryBySlug(req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	genres, err := s.genresBySlugs(req.Genre)
	if err != nil {
		return nil, err
	}
	title.Genres = genres

	if err := s.db.Create(title).Error; err != nil {
		return nil, fmt.Errorf("create title: %w", err)
	}
	return s.GetTitle(title.ID)
}

func (s *CatalogService) UpdateTitle(id uuid.UUID, req *dto.TitleUpdateRequest) (*models.Title, error) {
	title, err := s.GetTitle(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validation("title name must not be empty")
		}
		updates["name"] = name
	}
	if req.Year != nil {
		if *req.Year <= 0 {
			return nil, apperr.Validation("year must be a positive integer")
		}
		updates["year"] = *req.Year
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		if *req.Category == "" {
			updates["category_id"] = nil
		} else {
			category, err := s.categoryBySlug(*req.Category)
			if err != nil {
				return nil, err
			}
			updates["category_id"] = category.ID
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(title).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Genre != nil {
			genres, err := s.genresBySlugs(*req.Genre)
			if err != nil {
				return err
			}
			if err := tx.Model(title).Association("Genres").Replace(genres); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetTitle(id)
}

func (s *CatalogService) DeleteTitle(id uuid.UUID) error {
	title, err := s.GetTitle(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("title_id = ?", title.ID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete title comments: %w", err)
		}
		if err := tx.Where("title_id = ?", title.ID).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("delete title reviews: %w", err)
		}
		if err := tx.Exec("DELETE FROM title_genres WHERE title_id = ?", title.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Title{}, "id = ?", title.ID).Error
	})
}

func (s *CatalogService) categoryBySlug(slug string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation("unknown category slug %q", slug)
		}
		return nil, fmt.Errorf("lookup category: %w", err)
	}
	return &category, nil
}

func (s *CatalogService) genresBySlugs(slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	var genres []models.Genre
	if err := s.db.Where("slug IN ?", slugs).Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("lookup genres: %w", err)
	}
	if len(genres) != len(slugs) {
		found := make(map[string]bool, len(genres))
		for _, g := range genres {
			found[g.Slug] = true
		}
		for _, slug := range slugs {
			if !found[slug] {
				return nil, apperr.Validation("unknown genre slug %q", slug)
			}
		}
	}
	return genres, nil
}

func validateClassifier(req *dto.ClassifierRequest) (name, slug string, err error) {
	name = strings.TrimSpace(req.Name)
	slug = strings.TrimSpace(req.Slug)
	if name == "" || slug == "" {
		return "", "", apperr.Validation("name and slug are required")
	}
	return name, slug, nil
}
