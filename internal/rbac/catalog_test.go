package rbac

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleConfig() RolesConfig {
	return RolesConfig{Roles: []RoleConfig{
		{Name: "admin", Permissions: []string{"create_record", "read_record", "update_record", "delete_record"}},
		{Name: "manager", Permissions: []string{"create_record", "read_record", "update_record"}},
		{Name: "employee", Permissions: []string{"read_record"}},
	}}
}

func TestNewCatalog(t *testing.T) {
	t.Run("builds roles in configuration order", func(t *testing.T) {
		catalog, err := NewCatalog(exampleConfig())
		require.NoError(t, err)

		assert.Equal(t, 3, catalog.Len())
		roles := catalog.Roles()
		require.Len(t, roles, 3)
		assert.Equal(t, "admin", roles[0].Name)
		assert.Equal(t, "manager", roles[1].Name)
		assert.Equal(t, "employee", roles[2].Name)
		assert.Empty(t, catalog.Duplicates())
	})

	t.Run("missing roles field is a load error", func(t *testing.T) {
		catalog, err := NewCatalog(RolesConfig{})
		assert.Nil(t, catalog)

		var loadErr *ConfigLoadError
		require.True(t, errors.As(err, &loadErr))
	})

	t.Run("role without a name is a load error", func(t *testing.T) {
		_, err := NewCatalog(RolesConfig{Roles: []RoleConfig{{Permissions: []string{"read_record"}}}})

		var loadErr *ConfigLoadError
		require.True(t, errors.As(err, &loadErr))
	})

	t.Run("empty roles list builds an empty catalog", func(t *testing.T) {
		catalog, err := NewCatalog(RolesConfig{Roles: []RoleConfig{}})
		require.NoError(t, err)
		assert.Equal(t, 0, catalog.Len())
		assert.False(t, catalog.HasPermission("admin", "read_record"))
	})

	t.Run("first definition of a duplicate role wins", func(t *testing.T) {
		catalog, err := NewCatalog(RolesConfig{Roles: []RoleConfig{
			{Name: "auditor", Permissions: []string{"read_record"}},
			{Name: "auditor", Permissions: []string{"read_record", "delete_record"}},
		}})
		require.NoError(t, err)

		assert.Equal(t, 1, catalog.Len())
		assert.True(t, catalog.HasPermission("auditor", "read_record"))
		assert.False(t, catalog.HasPermission("auditor", "delete_record"))
		assert.Equal(t, []string{"auditor"}, catalog.Duplicates())
	})

	t.Run("repeated permissions collapse", func(t *testing.T) {
		catalog, err := NewCatalog(RolesConfig{Roles: []RoleConfig{
			{Name: "viewer", Permissions: []string{"read_record", "read_record"}},
		}})
		require.NoError(t, err)

		role, ok := catalog.RoleByName("viewer")
		require.True(t, ok)
		assert.Equal(t, []string{"read_record"}, role.Permissions)
	})

	t.Run("role with no permissions grants nothing", func(t *testing.T) {
		catalog, err := NewCatalog(RolesConfig{Roles: []RoleConfig{{Name: "intern"}}})
		require.NoError(t, err)

		role, ok := catalog.RoleByName("intern")
		require.True(t, ok)
		assert.Empty(t, role.Permissions)
		assert.Empty(t, catalog.PermissionsForRole("intern"))
	})
}

func TestPermissionsForRole(t *testing.T) {
	cfg := exampleConfig()
	catalog, err := NewCatalog(cfg)
	require.NoError(t, err)

	t.Run("defined roles return their permission set", func(t *testing.T) {
		for _, rc := range cfg.Roles {
			set := catalog.PermissionsForRole(rc.Name)
			assert.Len(t, set, len(rc.Permissions), "role %s", rc.Name)
			for _, p := range rc.Permissions {
				assert.Contains(t, set, p, "role %s", rc.Name)
			}
		}
	})

	t.Run("unknown names return an empty set", func(t *testing.T) {
		for _, name := range []string{"guest", "", "anonymous", "ADMIN", " admin"} {
			set := catalog.PermissionsForRole(name)
			assert.NotNil(t, set, "role %q", name)
			assert.Empty(t, set, "role %q", name)
		}
	})

	t.Run("mutating the returned set does not change the catalog", func(t *testing.T) {
		set := catalog.PermissionsForRole("employee")
		set["delete_record"] = struct{}{}
		delete(set, "read_record")

		assert.True(t, catalog.HasPermission("employee", "read_record"))
		assert.False(t, catalog.HasPermission("employee", "delete_record"))
	})
}

func TestRoleByName(t *testing.T) {
	catalog, err := NewCatalog(exampleConfig())
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		role, ok := catalog.RoleByName("manager")
		require.True(t, ok)
		assert.Equal(t, "manager", role.Name)
		assert.Equal(t, []string{"create_record", "read_record", "update_record"}, role.Permissions)
	})

	t.Run("not found is not an error", func(t *testing.T) {
		role, ok := catalog.RoleByName("guest")
		assert.False(t, ok)
		assert.Equal(t, Role{}, role)
	})

	t.Run("returned role is a copy", func(t *testing.T) {
		role, _ := catalog.RoleByName("employee")
		role.Permissions[0] = "delete_record"

		again, _ := catalog.RoleByName("employee")
		assert.Equal(t, []string{"read_record"}, again.Permissions)
	})
}

func TestHasPermission(t *testing.T) {
	cfg := exampleConfig()
	catalog, err := NewCatalog(cfg)
	require.NoError(t, err)

	all := []string{"create_record", "read_record", "update_record", "delete_record", "export_record", ""}

	for _, rc := range cfg.Roles {
		granted := make(map[string]bool)
		for _, p := range rc.Permissions {
			granted[p] = true
		}
		for _, p := range all {
			assert.Equal(t, granted[p], catalog.HasPermission(rc.Name, p), "role %s permission %q", rc.Name, p)
		}
	}

	for _, p := range all {
		assert.False(t, catalog.HasPermission("guest", p))
		assert.False(t, catalog.HasPermission("", p))
	}
}

func TestCatalogConcurrentReads(t *testing.T) {
	catalog, err := NewCatalog(exampleConfig())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				assert.True(t, catalog.HasPermission("admin", "delete_record"))
				assert.False(t, catalog.HasPermission("employee", "delete_record"))
				_ = catalog.PermissionsForRole("manager")
				_, _ = catalog.RoleByName("employee")
			}
		}()
	}
	wg.Wait()
}
