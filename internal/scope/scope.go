// Package scope holds reusable GORM query scopes for parent-resource
// filtering and stable catalog ordering.
package scope

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForTitle filters rows belonging to one title.
func ForTitle(titleID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("title_id = ?", titleID)
	}
}

// ForReview filters rows belonging to one review.
func ForReview(reviewID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("review_id = ?", reviewID)
	}
}

// ByNameAsc orders catalog listings by name so repeated list calls return a
// stable ordering.
func ByNameAsc() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("name ASC")
	}
}

// Paged applies 1-based page/limit windowing.
func Paged(page, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}
