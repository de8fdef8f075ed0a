package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/record-gate/internal/rbac"
	"github.com/upb/record-gate/middleware"
	"github.com/upb/record-gate/utils"
	"go.uber.org/zap"
)

func testCatalog(t *testing.T) *rbac.Catalog {
	t.Helper()

	catalog, err := rbac.NewCatalog(rbac.RolesConfig{Roles: []rbac.RoleConfig{
		{Name: "admin", Permissions: []string{"create_record", "read_record", "update_record", "delete_record"}},
		{Name: "employee", Permissions: []string{"read_record"}},
	}})
	require.NoError(t, err)
	return catalog
}

func TestRoleHandler_HandleMyPermissions(t *testing.T) {
	handler := NewRoleHandler(testCatalog(t), middleware.DefaultAnonymousRole, zap.NewNop())

	tests := []struct {
		name                string
		claims              *middleware.Claims
		expectedRole        string
		expectedAnonymous   bool
		expectedPermissions []string
	}{
		{
			name:                "admin sees sorted permissions",
			claims:              &middleware.Claims{Subject: "u1", Role: "admin"},
			expectedRole:        "admin",
			expectedPermissions: []string{"create_record", "delete_record", "read_record", "update_record"},
		},
		{
			name:                "unknown role has none",
			claims:              &middleware.Claims{Subject: "u2", Role: "guest"},
			expectedRole:        "guest",
			expectedPermissions: []string{},
		},
		{
			name:                "anonymous request",
			expectedRole:        middleware.DefaultAnonymousRole,
			expectedAnonymous:   true,
			expectedPermissions: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me/permissions", nil)
			if tt.claims != nil {
				req = req.WithContext(middleware.WithClaims(req.Context(), tt.claims))
			}
			w := httptest.NewRecorder()

			handler.HandleMyPermissions(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			var response struct {
				Data PermissionsResponse `json:"data"`
			}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.Equal(t, tt.expectedRole, response.Data.Role)
			assert.Equal(t, tt.expectedAnonymous, response.Data.Anonymous)
			assert.Equal(t, tt.expectedPermissions, response.Data.Permissions)
		})
	}
}

func TestRoleHandler_HandleGetRole(t *testing.T) {
	handler := NewRoleHandler(testCatalog(t), middleware.DefaultAnonymousRole, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/roles/{name}", handler.HandleGetRole)

	t.Run("known role", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/roles/employee", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var response struct {
			Data rbac.Role `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "employee", response.Data.Name)
		assert.Equal(t, []string{"read_record"}, response.Data.Permissions)
	})

	t.Run("unknown role", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/roles/guest", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		var response utils.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "not_found", response.Error)
		assert.Equal(t, "not_found: role not found: guest", response.Message)
	})
}
