package policy

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/diewo77/go-access"
	"github.com/diewo77/go-access/internal/models"
	"gorm.io/gorm"
)

// DBProfileResolver fetches user profiles from the database.
// It implements access.ProfileResolver for uint user IDs.
type DBProfileResolver struct {
	DB *gorm.DB
}

// NewDBProfileResolver creates a new database-backed profile resolver.
func NewDBProfileResolver(db *gorm.DB) *DBProfileResolver {
	return &DBProfileResolver{DB: db}
}

// Resolve looks up the user's profile, preloading permissions.
// Returns nil if the user is unknown or has no profile assigned.
func (r *DBProfileResolver) Resolve(ctx context.Context, userID uint) (access.Profile, error) {
	if userID == 0 {
		return nil, nil
	}
	var user models.User
	err := r.DB.WithContext(ctx).Preload("Profile.Permissions").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load profile of user %d", userID)
	}
	if user.Profile == nil {
		return nil, nil
	}
	return &dbProfile{profile: user.Profile}, nil
}

// dbProfile adapts a models.Profile to access.Profile.
type dbProfile struct {
	profile *models.Profile
}

func (a *dbProfile) ID() uint     { return a.profile.ID }
func (a *dbProfile) Name() string { return a.profile.Name }

// HasPermission checks the requested permission, honoring "*:*" and "kind:*".
func (a *dbProfile) HasPermission(perm access.Permission) bool {
	for _, p := range a.profile.Permissions {
		if p.Code().Matches(perm) {
			return true
		}
	}
	return false
}

func (a *dbProfile) Permissions() []access.Permission {
	result := make([]access.Permission, len(a.profile.Permissions))
	for i, p := range a.profile.Permissions {
		result[i] = p.Code()
	}
	return result
}
