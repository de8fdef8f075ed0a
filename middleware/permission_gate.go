package middleware

import (
	"context"
	"net/http"

	"github.com/upb/record-gate/utils"
	"go.uber.org/zap"
)

// DefaultAnonymousRole is the role assumed for requests with no identity.
// No role by this name exists unless the catalog defines one.
const DefaultAnonymousRole = "anonymous"

// RoleLookup answers whether a role grants a permission. *rbac.Catalog
// satisfies it.
type RoleLookup interface {
	HasPermission(roleName, permission string) bool
}

// AuthorizationRequest is the input to a single permission check.
type AuthorizationRequest struct {
	Role       string
	Anonymous  bool
	Permission string
}

// NewAuthorizationRequest builds the check for ctx. Requests without claims
// resolve to anonymousRole.
func NewAuthorizationRequest(ctx context.Context, permission, anonymousRole string) AuthorizationRequest {
	claims := GetClaimsFromContext(ctx)
	if claims == nil {
		return AuthorizationRequest{Role: anonymousRole, Anonymous: true, Permission: permission}
	}
	return AuthorizationRequest{Role: claims.Role, Permission: permission}
}

// Decision is the outcome of a permission check
type Decision struct {
	Allowed    bool
	Role       string
	Permission string
}

// PermissionGate enforces role permissions on routes
type PermissionGate struct {
	catalog       RoleLookup
	anonymousRole string
	logger        *zap.Logger
}

// NewPermissionGate creates a gate backed by catalog. An empty anonymousRole
// selects DefaultAnonymousRole.
func NewPermissionGate(catalog RoleLookup, anonymousRole string, logger *zap.Logger) *PermissionGate {
	if anonymousRole == "" {
		anonymousRole = DefaultAnonymousRole
	}
	return &PermissionGate{
		catalog:       catalog,
		anonymousRole: anonymousRole,
		logger:        logger,
	}
}

// AnonymousRole returns the role name used for unauthenticated requests
func (g *PermissionGate) AnonymousRole() string {
	return g.anonymousRole
}

// Authorize decides req against the catalog. It has no side effects.
func (g *PermissionGate) Authorize(req AuthorizationRequest) Decision {
	return Decision{
		Allowed:    g.catalog.HasPermission(req.Role, req.Permission),
		Role:       req.Role,
		Permission: req.Permission,
	}
}

// CheckPermission returns a middleware that lets a request through only when
// the caller's role grants requiredPermission. Denied requests get 403
// {"error":"Access denied"} and never reach next.
func (g *PermissionGate) CheckPermission(requiredPermission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			decision := g.Authorize(NewAuthorizationRequest(ctx, requiredPermission, g.anonymousRole))
			if !decision.Allowed {
				g.logger.Warn("access denied",
					zap.String("request_id", requestID),
					zap.String("role", decision.Role),
					zap.String("required_permission", requiredPermission))
				if err := utils.WriteAccessDenied(w); err != nil {
					g.logger.Error("failed to write access denied response",
						zap.String("request_id", requestID),
						zap.Error(err))
				}
				return
			}

			g.logger.Debug("permission check passed",
				zap.String("request_id", requestID),
				zap.String("role", decision.Role),
				zap.String("required_permission", requiredPermission))

			next.ServeHTTP(w, r)
		})
	}
}
