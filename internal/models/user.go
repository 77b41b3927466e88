package models

import (
	"time"

	"github.com/diewo77/go-access"
	"gorm.io/gorm"
)

// User is an account that acts as an access requester.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name      string         `gorm:"size:255" json:"name,omitempty"`
	Password  string         `gorm:"size:255;not null" json:"-"` // bcrypt hash, never exposed in JSON
	// ProfileID links the user to an authorization profile.
	// A nil value means the user has no profile assigned (limited access).
	ProfileID *uint    `gorm:"index" json:"profile_id,omitempty"`
	Profile   *Profile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}

// Kind implements access.Entity.
func (*User) Kind() access.Kind { return KindUsers }
