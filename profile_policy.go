package access

import "context"

// ProfilePolicy guards one kind with profile permissions, then defers to an
// inner policy for the finer rule (typically ownership).
//
// Flow:
//  1. the requester must be non-zero
//  2. the requester's profile must grant kind:action
//  3. the inner policy decides; a nil inner allows
type ProfilePolicy[U comparable] struct {
	kind     Kind
	resolver ProfileResolver[U]
	inner    Accessible[U]
}

// NewProfilePolicy creates a profile-gated policy for kind.
func NewProfilePolicy[U comparable](kind Kind, resolver ProfileResolver[U], inner Accessible[U]) *ProfilePolicy[U] {
	return &ProfilePolicy[U]{kind: kind, resolver: resolver, inner: inner}
}

// IsAccessible implements Accessible.
func (p *ProfilePolicy[U]) IsAccessible(ctx context.Context, object Entity, action Action, requester U) bool {
	if !p.Granted(ctx, action, requester) {
		return false
	}
	if p.inner == nil {
		return true
	}
	return p.inner.IsAccessible(ctx, object, action, requester)
}

// Granted checks only the profile permission, without the inner policy.
// Useful for UI to show/hide actions before a specific instance is loaded.
func (p *ProfilePolicy[U]) Granted(ctx context.Context, action Action, requester U) bool {
	var zero U
	if requester == zero {
		return false
	}
	profile, err := p.resolver.Resolve(ctx, requester)
	if err != nil || profile == nil {
		return false
	}
	return profile.HasPermission(NewPermission(p.kind, action))
}
