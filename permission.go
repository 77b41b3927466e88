package access

import "strings"

// Permission grants an action on a kind.
// Format: "kind:action" (e.g., "Posts:create", "Profiles:read").
type Permission string

// Wildcards for super permissions
const (
	Wildcard             = "*"
	PermissionSuperAdmin Permission = "*:*"
)

// NewPermission creates a permission from a kind and an action.
func NewPermission(kind Kind, action Action) Permission {
	return Permission(string(kind) + ":" + string(action))
}

// Parse splits a permission into kind and action.
// Malformed permissions yield empty values.
func (p Permission) Parse() (Kind, Action) {
	kind, action, ok := strings.Cut(string(p), ":")
	if !ok {
		return "", ""
	}
	return Kind(kind), Action(action)
}

// Matches checks if this permission covers a requested one.
// "*:*" matches all, "Posts:*" matches every action on Posts.
func (p Permission) Matches(requested Permission) bool {
	if p == PermissionSuperAdmin || p == requested {
		return true
	}
	kind, action := p.Parse()
	reqKind, _ := requested.Parse()
	return kind != "" && kind == reqKind && string(action) == Wildcard
}
