package gate_test

import (
	"testing"

	"github.com/diewo77/go-profiles/gate"
)

func TestPermission_NewPermission(t *testing.T) {
	perm := gate.NewPermission("admin.address", gate.ActionCreate)
	if perm != "admin.address:create" {
		t.Errorf("expected 'admin.address:create', got '%s'", perm)
	}
}

func TestPermission_Parse(t *testing.T) {
	perm := gate.Permission("admin.order:view")
	res, act := perm.Parse()
	if res != "admin.order" {
		t.Errorf("expected resource 'admin.order', got '%s'", res)
	}
	if act != gate.ActionView {
		t.Errorf("expected action 'view', got '%s'", act)
	}
}

func TestPermission_Parse_Invalid(t *testing.T) {
	perm := gate.Permission("invalid")
	res, act := perm.Parse()
	if res != "" || act != "" {
		t.Errorf("expected empty strings, got '%s' and '%s'", res, act)
	}
}

func TestPermission_Matches_Exact(t *testing.T) {
	perm := gate.Permission("admin.address:create")
	if !perm.Matches("admin.address:create") {
		t.Error("expected exact match to succeed")
	}
	if perm.Matches("admin.address:delete") {
		t.Error("expected different action to fail")
	}
	if perm.Matches("admin.order:create") {
		t.Error("expected different resource to fail")
	}
}

func TestPermission_Matches_SuperAdmin(t *testing.T) {
	perm := gate.PermissionSuperAdmin
	if !perm.Matches("admin.address:create") {
		t.Error("superadmin should match any permission")
	}
	if !perm.Matches("admin.order:delete") {
		t.Error("superadmin should match any permission")
	}
}

func TestPermission_Matches_ResourceWildcard(t *testing.T) {
	perm := gate.Permission("admin.order:*")
	if !perm.Matches("admin.order:create") {
		t.Error("admin.order:* should match admin.order:create")
	}
	if perm.Matches("admin.address:create") {
		t.Error("admin.order:* should not match admin.address:create")
	}
}

func TestPermissionsFor(t *testing.T) {
	perms := gate.PermissionsFor("admin.address", gate.NewAccessManager(gate.BuildAccess(gate.ActionView, gate.ActionDelete)))
	if len(perms) != 2 {
		t.Fatalf("expected 2 permissions, got %d", len(perms))
	}
	if perms[0] != "admin.address:view" || perms[1] != "admin.address:delete" {
		t.Errorf("unexpected permissions %v", perms)
	}
}
