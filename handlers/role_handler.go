package handlers

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/upb/record-gate/internal/rbac"
	"github.com/upb/record-gate/middleware"
	"github.com/upb/record-gate/services"
	"go.uber.org/zap"
)

// RoleCatalog is the read-only catalog view the role endpoints need
type RoleCatalog interface {
	PermissionsForRole(roleName string) map[string]struct{}
	RoleByName(roleName string) (rbac.Role, bool)
}

// PermissionsResponse describes what the caller's role may do
type PermissionsResponse struct {
	Role        string   `json:"role"`
	Anonymous   bool     `json:"anonymous"`
	Subject     string   `json:"subject,omitempty"`
	Permissions []string `json:"permissions"`
}

// RoleHandler exposes the role catalog for introspection
type RoleHandler struct {
	catalog       RoleCatalog
	anonymousRole string
	logger        *zap.Logger
}

// NewRoleHandler creates a new RoleHandler. anonymousRole must match the one
// the permission gate uses so the answers agree with enforcement.
func NewRoleHandler(catalog RoleCatalog, anonymousRole string, logger *zap.Logger) *RoleHandler {
	return &RoleHandler{
		catalog:       catalog,
		anonymousRole: anonymousRole,
		logger:        logger,
	}
}

// HandleMyPermissions handles GET /api/v1/me/permissions
func (h *RoleHandler) HandleMyPermissions(w http.ResponseWriter, r *http.Request) {
	req := middleware.NewAuthorizationRequest(r.Context(), "", h.anonymousRole)

	perms := h.catalog.PermissionsForRole(req.Role)
	names := make([]string, 0, len(perms))
	for p := range perms {
		names = append(names, p)
	}
	sort.Strings(names)

	response := PermissionsResponse{
		Role:        req.Role,
		Anonymous:   req.Anonymous,
		Permissions: names,
	}
	if claims := middleware.GetClaimsFromContext(r.Context()); claims != nil {
		response.Subject = claims.Subject
	}

	writeOK(w, response, h.logger)
}

// HandleGetRole handles GET /api/v1/roles/{name}
func (h *RoleHandler) HandleGetRole(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	role, ok := h.catalog.RoleByName(name)
	if !ok {
		HandleServiceError(w, fmt.Errorf("%w: %s", services.ErrRoleNotFound, name), h.logger)
		return
	}

	writeOK(w, role, h.logger)
}
