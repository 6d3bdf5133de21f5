package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a scored opinion on exactly one title by exactly one user.
// Scores are bounded to [1,10]; the check constraint backs up the service
// layer validation.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Score     int       `gorm:"not null;check:score >= 1 AND score <= 10" json:"score"`
	TitleID   uuid.UUID `gorm:"type:uuid;not null;index" json:"title_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
