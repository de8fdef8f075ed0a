package rbac

import (
	"github.com/upb/record-gate/utils"
)

type catalogEntry struct {
	role        Role
	permissions map[string]struct{}
}

// Catalog is the immutable role to permission-set table. All methods are safe
// for concurrent use since nothing mutates a Catalog after NewCatalog returns.
type Catalog struct {
	entries    map[string]*catalogEntry
	order      []string
	duplicates []string
}

// NewCatalog validates the roles document and builds a Catalog from it.
// A repeated role name keeps its first definition; later ones are skipped and
// reported by Duplicates.
func NewCatalog(cfg RolesConfig) (*Catalog, error) {
	return newCatalog(cfg, "")
}

func newCatalog(cfg RolesConfig, source string) (*Catalog, error) {
	if err := utils.ValidateStruct(cfg); err != nil {
		return nil, &ConfigLoadError{Source: source, Err: err}
	}

	c := &Catalog{
		entries: make(map[string]*catalogEntry, len(cfg.Roles)),
		order:   make([]string, 0, len(cfg.Roles)),
	}

	for _, rc := range cfg.Roles {
		if _, exists := c.entries[rc.Name]; exists {
			c.duplicates = append(c.duplicates, rc.Name)
			continue
		}

		entry := &catalogEntry{
			role:        Role{Name: rc.Name, Permissions: make([]string, 0, len(rc.Permissions))},
			permissions: make(map[string]struct{}, len(rc.Permissions)),
		}
		for _, p := range rc.Permissions {
			if _, seen := entry.permissions[p]; seen {
				continue
			}
			entry.permissions[p] = struct{}{}
			entry.role.Permissions = append(entry.role.Permissions, p)
		}

		c.entries[rc.Name] = entry
		c.order = append(c.order, rc.Name)
	}

	return c, nil
}

// PermissionsForRole returns a copy of the permission set granted to roleName.
// Unknown names, including the empty string, get an empty non-nil set.
func (c *Catalog) PermissionsForRole(roleName string) map[string]struct{} {
	entry, ok := c.entries[roleName]
	if !ok {
		return map[string]struct{}{}
	}

	set := make(map[string]struct{}, len(entry.permissions))
	for p := range entry.permissions {
		set[p] = struct{}{}
	}
	return set
}

// RoleByName returns the role definition for roleName. The boolean is false
// when no such role exists.
func (c *Catalog) RoleByName(roleName string) (Role, bool) {
	entry, ok := c.entries[roleName]
	if !ok {
		return Role{}, false
	}
	return cloneRole(entry.role), true
}

// HasPermission reports whether roleName grants permission.
func (c *Catalog) HasPermission(roleName, permission string) bool {
	entry, ok := c.entries[roleName]
	if !ok {
		return false
	}
	_, granted := entry.permissions[permission]
	return granted
}

// Roles returns every role in the order it was first defined.
func (c *Catalog) Roles() []Role {
	roles := make([]Role, 0, len(c.order))
	for _, name := range c.order {
		roles = append(roles, cloneRole(c.entries[name].role))
	}
	return roles
}

// Len returns the number of distinct roles.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Duplicates lists role names that appeared more than once in the source
// document, once per ignored occurrence.
func (c *Catalog) Duplicates() []string {
	out := make([]string, len(c.duplicates))
	copy(out, c.duplicates)
	return out
}

func cloneRole(r Role) Role {
	perms := make([]string, len(r.Permissions))
	copy(perms, r.Permissions)
	return Role{Name: r.Name, Permissions: perms}
}
