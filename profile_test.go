package access_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/diewo77/go-access"
)

func TestStaticProfile_HasPermission(t *testing.T) {
	profile := access.NewStaticProfile(1, "author",
		access.NewPermission("Posts", access.ActionCreate),
		access.NewPermission("Posts", access.ActionUpdate),
	)

	if !profile.HasPermission(access.NewPermission("Posts", access.ActionCreate)) {
		t.Error("should have Posts:create permission")
	}
	if profile.HasPermission(access.NewPermission("Posts", access.ActionDelete)) {
		t.Error("should not have Posts:delete permission")
	}
}

func TestStaticProfile_HasPermission_Wildcard(t *testing.T) {
	profile := access.NewStaticProfile(1, "admin", access.PermissionSuperAdmin)

	if !profile.HasPermission(access.NewPermission("Posts", access.ActionCreate)) {
		t.Error("superadmin should have any permission")
	}
	if !profile.HasPermission(access.NewPermission("Profiles", access.ActionDelete)) {
		t.Error("superadmin should have any permission")
	}
}

func TestStaticProfile_Permissions(t *testing.T) {
	profile := access.NewStaticProfile(3, "reader", "Posts:read", "Posts:list")
	if profile.ID() != 3 || profile.Name() != "reader" {
		t.Errorf("unexpected identity %d/%s", profile.ID(), profile.Name())
	}
	want := []access.Permission{"Posts:list", "Posts:read"}
	if got := profile.Permissions(); !reflect.DeepEqual(got, want) {
		t.Errorf("Permissions() = %v, want %v", got, want)
	}
}

func TestStaticResolver(t *testing.T) {
	resolver := access.NewStaticResolver[uint]()
	resolver.Set(1, access.NewStaticProfile(1, "reader", access.NewPermission("Posts", access.ActionRead)))

	resolved, err := resolver.Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved == nil || resolved.Name() != "reader" {
		t.Fatalf("expected reader profile, got %v", resolved)
	}

	unknown, err := resolver.Resolve(context.Background(), 999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unknown != nil {
		t.Error("expected nil for unknown requester")
	}
}
