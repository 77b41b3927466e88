// Package access lets entity kinds declare authorization policies and lets
// requesters ask whether they may perform an action on a kind or an instance.
//
// A kind exposes its rule by implementing Accessible, either on the entity type
// itself or as a separate value registered in a Locator. A Checker resolves a
// target to that rule and delegates the decision:
//
//	reg := access.NewRegistry[uint]()
//	reg.Register("Posts", postPolicy)
//	checker := access.NewChecker[uint](reg)
//
//	ok, err := checker.Can(ctx, userID, access.ActionCreate, "Posts") // kind-level
//	ok, err = checker.For(userID).Can(ctx, access.ActionUpdate, post)  // instance-level
//
// A target that cannot be resolved yields ErrUnsupportedTarget, never false.
package access

import "context"

// Accessible is the policy capability of an entity kind.
// U is the requester type (e.g., uint for user IDs, *User for full records).
type Accessible[U any] interface {
	// IsAccessible returns true if requester may perform action on object.
	// object is nil for kind-level checks such as "may create any".
	IsAccessible(ctx context.Context, object Entity, action Action, requester U) bool
}

// Permissive is the default policy: every request is granted, including one
// from a zero requester. Kinds that need restrictions must provide their own
// IsAccessible.
type Permissive[U any] struct{}

// IsAccessible always returns true.
func (Permissive[U]) IsAccessible(context.Context, Entity, Action, U) bool {
	return true
}

// AccessibleFunc adapts a function to the Accessible interface.
type AccessibleFunc[U any] func(ctx context.Context, object Entity, action Action, requester U) bool

// IsAccessible calls f.
func (f AccessibleFunc[U]) IsAccessible(ctx context.Context, object Entity, action Action, requester U) bool {
	return f(ctx, object, action, requester)
}
