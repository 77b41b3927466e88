package models

import (
	"time"

	"github.com/diewo77/go-access"
	"gorm.io/gorm"
)

// Profile groups permissions; a user is assigned one profile.
type Profile struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Name        string         `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string         `gorm:"size:500" json:"description,omitempty"`
	IsSystem    bool           `gorm:"default:false" json:"is_system"`
	// Many-to-many relationship via profile_permissions join table.
	Permissions []Permission `gorm:"many2many:profile_permissions;" json:"permissions,omitempty"`
	Users       []User       `gorm:"foreignKey:ProfileID" json:"users,omitempty"`
}

// Kind implements access.Entity.
func (*Profile) Kind() access.Kind { return KindProfiles }

// Permission is a single action allowed on a kind.
type Permission struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Kind        string         `gorm:"size:50;not null;index:idx_perm_kind_action" json:"kind"`
	Action      string         `gorm:"size:50;not null;index:idx_perm_kind_action" json:"action"`
	Description string         `gorm:"size:200" json:"description,omitempty"`
}

// Code returns the permission in "kind:action" format for matching.
func (p Permission) Code() access.Permission {
	return access.NewPermission(access.Kind(p.Kind), access.Action(p.Action))
}
