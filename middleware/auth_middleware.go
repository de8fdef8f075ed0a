package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/upb/record-gate/utils"
	"go.uber.org/zap"
)

// TokenValidator turns a bearer credential into claims
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}

// AuthMiddleware attaches the caller's identity to the request context
type AuthMiddleware struct {
	validator TokenValidator
	logger    *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(validator TokenValidator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		logger:    logger,
	}
}

// authTokenCookieName and sessionCookieName are checked when no Authorization header is sent
const authTokenCookieName = "auth_token"
const sessionCookieName = "session"

// Authenticate validates a credential when one is present. Requests without a
// credential continue with no claims and are treated as anonymous further
// down the chain. A credential that fails validation, or an Authorization
// header that is not a usable bearer token, is rejected with 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.rejectMalformedHeader(w, r) {
			return
		}

		token := extractToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx, ok := m.authenticate(w, r, token)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects requests that do not carry a valid credential
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetClaimsFromContext(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}
		if m.rejectMalformedHeader(w, r) {
			return
		}

		token := extractToken(r)
		if token == "" {
			m.logger.Warn("missing token",
				zap.String("request_id", GetRequestIDFromContext(r.Context())))
			_ = utils.WriteUnauthorized(w, "Missing or invalid authorization")
			return
		}

		ctx, ok := m.authenticate(w, r, token)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) authenticate(w http.ResponseWriter, r *http.Request, token string) (context.Context, bool) {
	ctx := r.Context()
	requestID := GetRequestIDFromContext(ctx)

	claims, err := m.validator.ValidateToken(ctx, token)
	if err != nil {
		m.logger.Warn("token validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteUnauthorized(w, "Invalid or expired token")
		return nil, false
	}

	m.logger.Debug("authentication successful",
		zap.String("request_id", requestID),
		zap.String("sub", claims.Subject),
		zap.String("role", claims.Role))

	return WithClaims(ctx, claims), true
}

// rejectMalformedHeader writes 401 when an Authorization header is sent but
// does not carry a bearer token. Such requests never fall back to cookies or
// the anonymous role.
func (m *AuthMiddleware) rejectMalformedHeader(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") == "" || extractBearerToken(r) != "" {
		return false
	}
	m.logger.Warn("unsupported authorization header",
		zap.String("request_id", GetRequestIDFromContext(r.Context())))
	_ = utils.WriteUnauthorized(w, "Missing or invalid authorization")
	return true
}

// extractToken reads the Authorization header ("Bearer TOKEN") first, then the
// auth_token and session cookies.
func extractToken(r *http.Request) string {
	if token := extractBearerToken(r); token != "" {
		return token
	}
	for _, name := range []string{authTokenCookieName, sessionCookieName} {
		if cookie, err := r.Cookie(name); err == nil && cookie.Value != "" {
			return cookie.Value
		}
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
