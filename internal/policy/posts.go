package policy

import (
	"context"

	"github.com/diewo77/go-access"
	"github.com/diewo77/go-access/internal/models"
)

// PostPolicy is the rule of the Posts kind: anyone may create, read and list;
// only the author may update or delete. Other actions are refused.
type PostPolicy struct {
	owner OwnershipPolicy
}

// NewPostPolicy creates the Posts rule.
func NewPostPolicy() *PostPolicy {
	return &PostPolicy{}
}

// IsAccessible implements access.Accessible.
func (p *PostPolicy) IsAccessible(ctx context.Context, object access.Entity, action access.Action, userID uint) bool {
	switch action {
	case access.ActionCreate, access.ActionRead, access.ActionList:
		return true
	case access.ActionUpdate, access.ActionDelete:
		if _, ok := object.(*models.Post); !ok {
			// update/delete need a concrete post
			return false
		}
		return p.owner.IsAccessible(ctx, object, action, userID)
	}
	return false
}
