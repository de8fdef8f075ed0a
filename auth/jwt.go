// Package auth verifies bearer tokens issued by the login service and turns
// them into request claims. Issuing tokens is out of scope here.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/upb/record-gate/middleware"
)

var (
	// ErrInvalidToken is returned when the token is malformed or its signature does not verify
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when the token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidIssuer is returned when the token issuer does not match the configured one
	ErrInvalidIssuer = errors.New("invalid issuer")

	// ErrNotConfigured is returned by the reject-all validator
	ErrNotConfigured = errors.New("authentication not configured")
)

// DefaultRoleClaim is the claim carrying the role name when none is configured
const DefaultRoleClaim = "role"

// Config holds configuration for JWTValidator
type Config struct {
	Secret    string
	Issuer    string // optional; checked when set
	RoleClaim string
}

// JWTValidator validates HS256 tokens signed with a shared secret
type JWTValidator struct {
	secret    []byte
	issuer    string
	roleClaim string
	parser    *jwt.Parser
}

// NewJWTValidator creates a JWTValidator
func NewJWTValidator(cfg Config) *JWTValidator {
	if cfg.RoleClaim == "" {
		cfg.RoleClaim = DefaultRoleClaim
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &JWTValidator{
		secret:    []byte(cfg.Secret),
		issuer:    cfg.Issuer,
		roleClaim: cfg.RoleClaim,
		parser:    jwt.NewParser(opts...),
	}
}

// ValidateToken verifies tokenString and returns its claims. A token without
// a role claim is still valid; its holder simply has no permissions.
func (v *JWTValidator) ValidateToken(_ context.Context, tokenString string) (*middleware.Claims, error) {
	claims := jwt.MapClaims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, fmt.Errorf("%w: expected %s", ErrInvalidIssuer, v.issuer)
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}

	role, _ := claims[v.roleClaim].(string)
	email, _ := claims["email"].(string)

	return &middleware.Claims{
		Subject: sub,
		Email:   email,
		Role:    role,
	}, nil
}

// RejectAllValidator fails every token. It is used when no signing secret is
// configured, leaving only anonymous access.
type RejectAllValidator struct{}

// ValidateToken always returns ErrNotConfigured
func (RejectAllValidator) ValidateToken(context.Context, string) (*middleware.Claims, error) {
	return nil, ErrNotConfigured
}
