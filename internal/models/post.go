package models

import (
	"time"

	"github.com/diewo77/go-access"
	"gorm.io/gorm"
)

// Kinds of the entities guarded by access policies.
const (
	KindPosts    access.Kind = "Posts"
	KindProfiles access.Kind = "Profiles"
	KindUsers    access.Kind = "Users"
)

// Post is a user-authored entry guarded by the Posts policy.
type Post struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// UserID is the author and owner of this post
	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	Title     string `gorm:"size:255;not null" json:"title"`
	Body      string `gorm:"type:text" json:"body,omitempty"`
	Published bool   `gorm:"default:false" json:"published"`
}

// Kind implements access.Entity.
func (*Post) Kind() access.Kind { return KindPosts }

// GetUserID implements the Ownable interface for authorization.
func (p *Post) GetUserID() uint {
	return p.UserID
}
