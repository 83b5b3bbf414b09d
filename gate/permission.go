package gate

import "strings"

// Permission represents an allowed action on a resource.
// Format: "resource:action" (e.g., "admin.address:create", "admin.order:view")
type Permission string

// NewPermission creates a permission from a resource code and action.
func NewPermission(resource string, action Action) Permission {
	return Permission(resource + ":" + string(action))
}

// PermissionsFor expands an access value into one permission per granted action.
func PermissionsFor(resource string, access AccessManager) []Permission {
	actions := access.Actions()
	perms := make([]Permission, len(actions))
	for i, a := range actions {
		perms[i] = NewPermission(resource, a)
	}
	return perms
}

// Parse splits a permission into resource code and action.
// Resource codes may contain dots but never colons.
func (p Permission) Parse() (resource string, action Action) {
	i := strings.LastIndex(string(p), ":")
	if i < 0 {
		return "", ""
	}
	return string(p[:i]), Action(p[i+1:])
}

// Wildcards for super permissions
const (
	WildcardAll                     = "*"
	PermissionSuperAdmin Permission = "*:*"
)

// Matches checks if this permission matches a requested permission.
// Supports wildcards: "*:*" matches all, "admin.order:*" matches all order actions.
// Bindings stored as access bitmasks never expand to a wildcard; only profiles
// built with NewStaticProfile carry them.
func (p Permission) Matches(requested Permission) bool {
	if p == PermissionSuperAdmin {
		return true
	}
	if p == requested {
		return true
	}
	res, act := p.Parse()
	reqRes, _ := requested.Parse()
	return res == reqRes && string(act) == WildcardAll
}
