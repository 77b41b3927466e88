package db

import (
	"github.com/cockroachdb/errors"
	"github.com/diewo77/go-access"
	"github.com/diewo77/go-access/auth"
	"github.com/diewo77/go-access/internal/models"
	"gorm.io/gorm"
)

// Names of the system profiles created by SeedProfiles.
const (
	ProfileAdmin  = "admin"
	ProfileAuthor = "author"
	ProfileReader = "reader"
)

// AdminSeed describes the bootstrap administrator.
// No user is created when Password is empty.
type AdminSeed struct {
	Email    string
	Password string
}

// Seed initializes the database with the default profiles, permissions and
// the bootstrap admin. Should be called after Migrate; safe to call repeatedly.
func Seed(db *gorm.DB, admin AdminSeed) error {
	if err := SeedProfiles(db); err != nil {
		return err
	}
	return SeedAdmin(db, admin)
}

// SeedPermissions creates the kind:action permissions known to the service.
func SeedPermissions(db *gorm.DB) error {
	permissions := []struct {
		Kind        access.Kind
		Action      access.Action
		Description string
	}{
		// Superadmin wildcard
		{"*", "*", "Full system access"},
		// Posts
		{models.KindPosts, "*", "All post actions"},
		{models.KindPosts, access.ActionList, "List posts"},
		{models.KindPosts, access.ActionRead, "Read posts"},
		{models.KindPosts, access.ActionCreate, "Create posts"},
		{models.KindPosts, access.ActionUpdate, "Edit posts"},
		{models.KindPosts, access.ActionDelete, "Delete posts"},
		// Profile management (admin only)
		{models.KindProfiles, "*", "All profile management"},
		{models.KindProfiles, access.ActionList, "List profiles"},
		{models.KindProfiles, access.ActionRead, "View profile details"},
		{models.KindProfiles, access.ActionUpdate, "Assign profiles"},
	}

	for _, p := range permissions {
		perm := models.Permission{
			Kind:        string(p.Kind),
			Action:      string(p.Action),
			Description: p.Description,
		}
		// FirstOrCreate avoids duplicates on re-seed
		err := db.Where("kind = ? AND action = ?", perm.Kind, perm.Action).
			FirstOrCreate(&perm).Error
		if err != nil {
			return errors.Wrapf(err, "seed permission %s", perm.Code())
		}
	}
	return nil
}

// SeedProfiles creates the default system profiles with their permissions.
func SeedProfiles(db *gorm.DB) error {
	if err := SeedPermissions(db); err != nil {
		return err
	}

	profiles := []struct {
		Name        string
		Description string
		Permissions []access.Permission
	}{
		{
			Name:        ProfileAdmin,
			Description: "Full system administrator with all permissions",
			Permissions: []access.Permission{access.PermissionSuperAdmin},
		},
		{
			Name:        ProfileAuthor,
			Description: "Writes and manages own posts",
			Permissions: []access.Permission{"Posts:*"},
		},
		{
			Name:        ProfileReader,
			Description: "Read-only access to posts",
			Permissions: []access.Permission{"Posts:list", "Posts:read"},
		},
	}

	for _, p := range profiles {
		profile := models.Profile{Name: p.Name}
		err := db.Where("name = ?", p.Name).
			Attrs(models.Profile{Description: p.Description, IsSystem: true}).
			FirstOrCreate(&profile).Error
		if err != nil {
			return errors.Wrapf(err, "seed profile %s", p.Name)
		}

		perms := make([]models.Permission, 0, len(p.Permissions))
		for _, code := range p.Permissions {
			kind, action := code.Parse()
			var perm models.Permission
			err := db.Where("kind = ? AND action = ?", string(kind), string(action)).First(&perm).Error
			if err != nil {
				return errors.Wrapf(err, "profile %s: permission %s", p.Name, code)
			}
			perms = append(perms, perm)
		}
		if err := db.Model(&profile).Association("Permissions").Replace(perms); err != nil {
			return errors.Wrapf(err, "assign permissions to %s", p.Name)
		}
	}
	return nil
}

// SeedAdmin creates the bootstrap admin user with the admin profile if no
// user with that email exists yet.
func SeedAdmin(db *gorm.DB, admin AdminSeed) error {
	if admin.Password == "" || admin.Email == "" {
		return nil
	}
	var profile models.Profile
	if err := db.Where("name = ?", ProfileAdmin).First(&profile).Error; err != nil {
		return errors.Wrap(err, "load admin profile")
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", admin.Email).Count(&count).Error; err != nil {
		return errors.Wrap(err, "count admin users")
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return err
	}
	user := models.User{Email: admin.Email, Name: "Administrator", Password: hash, ProfileID: &profile.ID}
	return errors.Wrap(db.Create(&user).Error, "create admin user")
}
