package access_test

import (
	"context"
	"errors"
	"testing"

	"github.com/diewo77/go-access"
	"go.uber.org/zap"
)

type testUser struct {
	ID   int
	Role string
}

// post is an entity whose policy lives in the registry.
type post struct {
	OwnerID int
}

func (*post) Kind() access.Kind { return "Posts" }

// comment is an entity with no policy anywhere.
type comment struct{}

func (*comment) Kind() access.Kind { return "Comments" }

// note answers for itself, like a model that declares its own rule.
type note struct {
	Locked bool
}

func (*note) Kind() access.Kind { return "Notes" }

func (n *note) IsAccessible(_ context.Context, object access.Entity, action access.Action, _ *testUser) bool {
	if object == nil {
		return action == access.ActionCreate
	}
	return !n.Locked
}

// ownerPolicy allows create/read for anyone and update/delete for the owner.
type ownerPolicy struct{}

func (ownerPolicy) IsAccessible(_ context.Context, object access.Entity, action access.Action, u *testUser) bool {
	switch action {
	case access.ActionCreate, access.ActionRead:
		return true
	case access.ActionUpdate, access.ActionDelete:
		p, ok := object.(*post)
		return ok && u != nil && u.ID == p.OwnerID
	}
	return false
}

// recordingPolicy remembers the object it was last called with.
type recordingPolicy struct {
	calls  int
	object access.Entity
}

func (p *recordingPolicy) IsAccessible(_ context.Context, object access.Entity, _ access.Action, _ *testUser) bool {
	p.calls++
	p.object = object
	return true
}

func newChecker(t *testing.T) (*access.Checker[*testUser], *access.Registry[*testUser]) {
	t.Helper()
	reg := access.NewRegistry[*testUser]()
	reg.Register("Posts", ownerPolicy{})
	return access.NewChecker[*testUser](reg, access.WithLogger(zap.NewNop())), reg
}

func TestChecker_PermissiveDefault(t *testing.T) {
	reg := access.NewRegistry[*testUser]()
	reg.Register("Tags", access.Permissive[*testUser]{})
	c := access.NewChecker[*testUser](reg)

	requesters := []*testUser{nil, {ID: 1}, {ID: 2, Role: "admin"}}
	actions := []access.Action{access.ActionCreate, access.ActionRead, access.ActionUpdate, access.ActionDelete, "archive"}
	for _, u := range requesters {
		for _, a := range actions {
			ok, err := c.Can(context.Background(), u, a, "Tags")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !ok {
				t.Errorf("permissive policy denied %v on Tags for %+v", a, u)
			}
		}
	}
}

func TestChecker_OwnerRule(t *testing.T) {
	c, _ := newChecker(t)
	ctx := context.Background()
	owner := &testUser{ID: 1}
	other := &testUser{ID: 2}
	p := &post{OwnerID: 1}

	ok, err := c.Can(ctx, other, access.ActionUpdate, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("non-owner should not be able to update")
	}

	ok, err = c.Can(ctx, owner, access.ActionUpdate, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("owner should be able to update")
	}
}

func TestChecker_KindTargetPassesNilObject(t *testing.T) {
	reg := access.NewRegistry[*testUser]()
	rec := &recordingPolicy{object: &post{}}
	reg.Register("Posts", rec)
	c := access.NewChecker[*testUser](reg)

	ok, err := c.Can(context.Background(), &testUser{ID: 1}, access.ActionCreate, "Posts")
	if err != nil || !ok {
		t.Fatalf("expected allowed, got %v, %v", ok, err)
	}
	if rec.calls != 1 {
		t.Fatalf("expected one call, got %d", rec.calls)
	}
	if rec.object != nil {
		t.Errorf("expected nil object for kind-level check, got %#v", rec.object)
	}

	// The named Kind type behaves like a plain string.
	if _, err := c.Can(context.Background(), nil, access.ActionCreate, access.Kind("Posts")); err != nil {
		t.Errorf("unexpected error for Kind target: %v", err)
	}
	if rec.object != nil {
		t.Errorf("expected nil object for Kind target, got %#v", rec.object)
	}
}

func TestChecker_InstanceTargetPassesObject(t *testing.T) {
	reg := access.NewRegistry[*testUser]()
	rec := &recordingPolicy{}
	reg.Register("Posts", rec)
	c := access.NewChecker[*testUser](reg)
	p := &post{OwnerID: 7}

	if _, err := c.Can(context.Background(), nil, access.ActionRead, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.object != p {
		t.Errorf("expected the post as object, got %#v", rec.object)
	}
}

func TestChecker_UnsupportedTarget(t *testing.T) {
	c, _ := newChecker(t)
	ctx := context.Background()
	u := &testUser{ID: 1}

	targets := map[string]any{
		"entity without policy": &comment{},
		"unknown kind":          "Comments",
		"nil":                   nil,
		"other type":            42,
	}
	for name, target := range targets {
		ok, err := c.Can(ctx, u, access.ActionRead, target)
		if !access.IsUnsupportedTarget(err) {
			t.Errorf("%s: expected ErrUnsupportedTarget, got %v", name, err)
		}
		if ok {
			t.Errorf("%s: expected false alongside the error", name)
		}
		if access.IsDenied(err) {
			t.Errorf("%s: unsupported target must not look like a denial", name)
		}
	}
}

func TestChecker_KindLookupIsExact(t *testing.T) {
	c, _ := newChecker(t)
	_, err := c.Can(context.Background(), nil, access.ActionRead, "posts")
	if !errors.Is(err, access.ErrUnsupportedTarget) {
		t.Errorf("expected lowercase kind to be unsupported, got %v", err)
	}
}

func TestChecker_EntityDeclaresOwnPolicy(t *testing.T) {
	reg := access.NewRegistry[*testUser]()
	// A registry entry for the same kind is ignored in favor of the instance.
	reg.Register("Notes", access.AccessibleFunc[*testUser](func(context.Context, access.Entity, access.Action, *testUser) bool {
		return false
	}))
	c := access.NewChecker[*testUser](reg)
	ctx := context.Background()

	ok, err := c.Can(ctx, nil, access.ActionRead, &note{Locked: false})
	if err != nil || !ok {
		t.Errorf("expected unlocked note to be readable, got %v, %v", ok, err)
	}
	ok, err = c.Can(ctx, nil, access.ActionRead, &note{Locked: true})
	if err != nil || ok {
		t.Errorf("expected locked note to be denied, got %v, %v", ok, err)
	}

	// Without a locator the instance still answers.
	bare := access.NewChecker[*testUser](nil)
	if ok, err := bare.Can(ctx, nil, access.ActionUpdate, &note{}); err != nil || !ok {
		t.Errorf("expected self-declared policy without locator, got %v, %v", ok, err)
	}
	if _, err := bare.Can(ctx, nil, access.ActionCreate, "Notes"); !access.IsUnsupportedTarget(err) {
		t.Errorf("expected kind lookup without locator to fail, got %v", err)
	}
}

func TestChecker_Authorize(t *testing.T) {
	c, _ := newChecker(t)
	ctx := context.Background()
	p := &post{OwnerID: 1}

	if err := c.Authorize(ctx, &testUser{ID: 1}, access.ActionDelete, p); err != nil {
		t.Errorf("expected nil error for owner, got %v", err)
	}

	err := c.Authorize(ctx, &testUser{ID: 2}, access.ActionDelete, p)
	if !access.IsDenied(err) {
		t.Errorf("expected ErrDenied, got %v", err)
	}
	if access.IsUnsupportedTarget(err) {
		t.Error("denial must not look like an unsupported target")
	}

	err = c.Authorize(ctx, &testUser{ID: 1}, access.ActionDelete, &comment{})
	if !access.IsUnsupportedTarget(err) {
		t.Errorf("expected ErrUnsupportedTarget, got %v", err)
	}
}

func TestChecker_Idempotent(t *testing.T) {
	c, _ := newChecker(t)
	ctx := context.Background()
	u := &testUser{ID: 2}
	p := &post{OwnerID: 1}

	first, err := c.Can(ctx, u, access.ActionUpdate, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		got, err := c.Can(ctx, u, access.ActionUpdate, p)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != first {
			t.Fatalf("call %d returned %v, first returned %v", i, got, first)
		}
	}
	if p.OwnerID != 1 {
		t.Error("target was mutated")
	}
}

func TestRequester_Can(t *testing.T) {
	c, _ := newChecker(t)
	ctx := context.Background()
	owner := c.For(&testUser{ID: 5})

	if owner.Identity().ID != 5 {
		t.Errorf("expected identity 5, got %d", owner.Identity().ID)
	}
	if ok, err := owner.Can(ctx, access.ActionUpdate, &post{OwnerID: 5}); err != nil || !ok {
		t.Errorf("expected owner to update, got %v, %v", ok, err)
	}
	if ok, err := owner.Can(ctx, "archive", &post{OwnerID: 5}); err != nil || ok {
		t.Errorf("expected unknown action to be denied by the policy, got %v, %v", ok, err)
	}
	if err := owner.Authorize(ctx, access.ActionUpdate, &post{OwnerID: 6}); !access.IsDenied(err) {
		t.Errorf("expected ErrDenied, got %v", err)
	}
}
