// Package middleware holds the gin middleware of the ledger API: request
// correlation, authentication, tenant scoping, role checks, idempotency and
// request hygiene.
package middleware

import (
	"github.com/dokan/papershop/internal/domain/identity"
	"github.com/dokan/papershop/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// gin context keys
const (
	RequestIDKey = "request_id"
	ClaimsKey    = "jwt_claims"
	TenantIDKey  = "tenant_id"
	UserIDKey    = "user_id"
	RoleKey      = "role"
)

// Header names
const (
	RequestIDHeader      = "X-Request-ID"
	AuthHeader           = "Authorization"
	BearerPrefix         = "Bearer "
	IdempotencyKeyHeader = "Idempotency-Key"
	TenantHeader         = "X-Tenant-ID"
)

// GetRequestID returns the request ID assigned by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// GetClaims returns the verified token claims, or nil on public routes
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetTenantID returns the caller's organization
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	return getUUID(c, TenantIDKey)
}

// GetUserID returns the caller's user ID
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	return getUUID(c, UserIDKey)
}

// GetRole returns the caller's role
func GetRole(c *gin.Context) identity.Role {
	if v, ok := c.Get(RoleKey); ok {
		if role, ok := v.(identity.Role); ok {
			return role
		}
	}
	return ""
}

func getUUID(c *gin.Context, key string) (uuid.UUID, bool) {
	if v, ok := c.Get(key); ok {
		if id, ok := v.(uuid.UUID); ok && id != uuid.Nil {
			return id, true
		}
	}
	return uuid.Nil, false
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorBody(c, code, message))
}
