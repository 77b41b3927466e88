package policy

import (
	"context"

	"github.com/diewo77/go-access"
)

// Ownable is implemented by entities that have an owning user.
type Ownable interface {
	GetUserID() uint
}

// OwnershipPolicy allows a requester to act on the entities they own.
type OwnershipPolicy struct{}

// NewOwnershipPolicy creates a new ownership policy.
func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

// IsAccessible checks if the requester owns the object.
// Kind-level checks (nil object) pass; profile permissions already gate them.
func (p *OwnershipPolicy) IsAccessible(_ context.Context, object access.Entity, _ access.Action, userID uint) bool {
	if object == nil {
		return true
	}
	ownable, ok := object.(Ownable)
	if !ok {
		// Entities without an owner are denied rather than exposed.
		return false
	}
	return userID != 0 && ownable.GetUserID() == userID
}

// AdminBypassPolicy wraps another policy and always allows admins.
type AdminBypassPolicy struct {
	inner   access.Accessible[uint]
	isAdmin func(ctx context.Context, userID uint) bool
}

// NewAdminBypassPolicy creates a policy that skips inner for admins.
func NewAdminBypassPolicy(inner access.Accessible[uint], isAdmin func(ctx context.Context, userID uint) bool) *AdminBypassPolicy {
	return &AdminBypassPolicy{inner: inner, isAdmin: isAdmin}
}

// IsAccessible allows admins, otherwise defers to the inner policy.
func (p *AdminBypassPolicy) IsAccessible(ctx context.Context, object access.Entity, action access.Action, userID uint) bool {
	if p.isAdmin(ctx, userID) {
		return true
	}
	return p.inner.IsAccessible(ctx, object, action, userID)
}

// SuperAdminCheck returns an isAdmin func backed by resolver: a requester is an
// admin when their profile holds "*:*".
func SuperAdminCheck(resolver access.ProfileResolver[uint]) func(ctx context.Context, userID uint) bool {
	return func(ctx context.Context, userID uint) bool {
		if userID == 0 {
			return false
		}
		profile, err := resolver.Resolve(ctx, userID)
		if err != nil || profile == nil {
			return false
		}
		return profile.HasPermission(access.PermissionSuperAdmin)
	}
}
