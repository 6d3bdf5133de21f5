package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment hangs under exactly one review. TitleID is stored alongside
// ReviewID so the review-belongs-to-path-title invariant can be checked on
// every nested lookup without a join.
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	TitleID   uuid.UUID `gorm:"type:uuid;not null;index" json:"title_id"`
	ReviewID  uuid.UUID `gorm:"type:uuid;not null;index" json:"review_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
