package policy

import (
	"github.com/diewo77/go-access"
	"github.com/diewo77/go-access/internal/models"
)

// NewRegistry registers the policy of every guarded kind.
//
//   - Posts: profile permission, then admin bypass or the author rule
//   - Profiles: profile permission only (admins through "*:*")
func NewRegistry(resolver access.ProfileResolver[uint]) *access.Registry[uint] {
	reg := access.NewRegistry[uint]()
	isAdmin := SuperAdminCheck(resolver)

	reg.RegisterEntity(&models.Post{}, access.NewProfilePolicy[uint](models.KindPosts, resolver,
		NewAdminBypassPolicy(NewPostPolicy(), isAdmin)))
	reg.RegisterEntity(&models.Profile{}, access.NewProfilePolicy[uint](models.KindProfiles, resolver, nil))
	return reg
}
