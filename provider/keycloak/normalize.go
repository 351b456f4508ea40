package keycloak

import (
	"slices"
	"sort"
	"strings"

	shopkit "github.com/shopkit/go-shopkit"
)

// systemRoles are identity-provider internals. They must never appear in the
// application's role model.
var systemRoles = map[string]struct{}{
	"offline_access":    {},
	"uma_authorization": {},
	"admin":             {},
	"create-realm":      {},
	"create-client":     {},
	"manage-users":      {},
	"manage-realm":      {},
	"view-users":        {},
	"view-realm":        {},
}

// systemRolePrefixes catch generated internals such as "default-roles-master".
var systemRolePrefixes = []string{
	"default-roles-",
}

func isSystemRole(name string) bool {
	if _, ok := systemRoles[name]; ok {
		return true
	}
	for _, prefix := range systemRolePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// NormalizeRoles maps provider-native role records to application RoleNames,
// stripping the system exclusion set. The result is a set: duplicates
// collapse, and order carries no meaning but is sorted so displays stay
// stable.
func NormalizeRoles(records []RoleRecord) []shopkit.RoleName {
	names := make([]shopkit.RoleName, 0, len(records))
	for _, record := range records {
		if record.Name == "" || isSystemRole(record.Name) {
			continue
		}
		names = append(names, record.Name)
	}
	sort.Strings(names)
	return slices.Compact(names)
}

// NormalizeRoleNames is NormalizeRoles for token claims, which carry bare
// role name strings instead of full records.
func NormalizeRoleNames(names []string) []shopkit.RoleName {
	records := make([]RoleRecord, 0, len(names))
	for _, name := range names {
		records = append(records, RoleRecord{Name: name})
	}
	return NormalizeRoles(records)
}
