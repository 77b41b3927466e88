package access

// Action names the operation a requester wants to perform.
// The core never interprets it; it is handed to the policy as is.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"
)

// Kind identifies a category of entity (e.g. "Posts").
type Kind string

// Entity is an instance that can report its own kind.
type Entity interface {
	Kind() Kind
}
