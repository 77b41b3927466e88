package access

import (
	"context"
	"sort"
)

// Profile is a role with a set of permissions.
type Profile interface {
	ID() uint
	Name() string
	HasPermission(permission Permission) bool
	Permissions() []Permission
}

// ProfileResolver resolves a requester to their profile.
// A nil profile with a nil error means none is assigned.
type ProfileResolver[U any] interface {
	Resolve(ctx context.Context, requester U) (Profile, error)
}

// StaticProfile is an in-memory profile, for tests and static setups.
type StaticProfile struct {
	id          uint
	name        string
	permissions map[Permission]struct{}
}

// NewStaticProfile creates a profile with the given permissions.
func NewStaticProfile(id uint, name string, permissions ...Permission) *StaticProfile {
	p := &StaticProfile{
		id:          id,
		name:        name,
		permissions: make(map[Permission]struct{}, len(permissions)),
	}
	for _, perm := range permissions {
		p.permissions[perm] = struct{}{}
	}
	return p
}

func (p *StaticProfile) ID() uint     { return p.id }
func (p *StaticProfile) Name() string { return p.name }

// Permissions returns the profile's permissions, sorted.
func (p *StaticProfile) Permissions() []Permission {
	perms := make([]Permission, 0, len(p.permissions))
	for perm := range p.permissions {
		perms = append(perms, perm)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
	return perms
}

// HasPermission checks the requested permission, honoring wildcards.
func (p *StaticProfile) HasPermission(requested Permission) bool {
	for perm := range p.permissions {
		if perm.Matches(requested) {
			return true
		}
	}
	return false
}

// StaticResolver is an in-memory resolver.
type StaticResolver[U comparable] struct {
	profiles map[U]Profile
}

// NewStaticResolver creates an empty resolver.
func NewStaticResolver[U comparable]() *StaticResolver[U] {
	return &StaticResolver[U]{profiles: make(map[U]Profile)}
}

// Set assigns a profile to a requester.
func (r *StaticResolver[U]) Set(requester U, profile Profile) {
	r.profiles[requester] = profile
}

// Resolve returns the profile assigned to requester, or nil.
func (r *StaticResolver[U]) Resolve(_ context.Context, requester U) (Profile, error) {
	if profile, ok := r.profiles[requester]; ok {
		return profile, nil
	}
	return nil, nil
}
