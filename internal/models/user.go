package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account in the identity store. Accounts are created inactive by
// signup and flipped active exactly once by confirmation; the Role column
// only ever holds one of user/moderator/admin.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username  string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Role      string    `gorm:"size:20;not null;default:'user'" json:"role"`
	Active    bool      `gorm:"not null;default:false" json:"active"`
	Bio       string    `gorm:"type:text" json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
