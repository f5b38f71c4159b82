package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dokan/papershop/internal/domain/identity"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/dokan/papershop/internal/infrastructure/auth"
	"github.com/dokan/papershop/internal/infrastructure/logger"
	"github.com/dokan/papershop/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RevocationChecker reports tokens revoked by logout or refresh rotation
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// JWTConfig configures JWTAuth
type JWTConfig struct {
	JWTService  *auth.JWTService
	Revocations RevocationChecker // optional
	Logger      *zap.Logger
}

// JWTAuth verifies the bearer access token and loads the caller's tenant,
// user and role into the gin and request contexts. The request context
// carries the tenant for the persistence tenant filter.
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeader)
		if !strings.HasPrefix(header, BearerPrefix) {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		if token == "" {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			code, message := tokenErrorCode(err)
			log.Debug("Access token rejected", zap.Error(err), zap.String("path", c.Request.URL.Path))
			abortWithError(c, http.StatusUnauthorized, code, message)
			return
		}

		ctx := c.Request.Context()
		if cfg.Revocations != nil && claims.ID != "" {
			revoked, err := cfg.Revocations.IsRevoked(ctx, claims.ID)
			if err != nil {
				// the blacklist is advisory; an outage must not lock every user out
				log.Error("Failed to check token revocation", zap.String("jti", claims.ID), zap.Error(err))
			} else if revoked {
				abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTokenRevoked, "Token has been revoked")
				return
			}
		}

		tenantID, err := claims.GetTenantUUID()
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Token carries no organization")
			return
		}
		// a client may name its shop explicitly; it has to be the token's
		if header := c.GetHeader(TenantHeader); header != "" && header != tenantID.String() {
			log.Warn("Tenant header does not match token",
				zap.String("header", header), zap.String("tenant_id", tenantID.String()))
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Organization does not match the signed-in account")
			return
		}
		userID, err := claims.GetUserUUID()
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Token carries no user")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(TenantIDKey, tenantID)
		c.Set(UserIDKey, userID)
		c.Set(RoleKey, identity.Role(claims.Role))

		ctx = shared.WithTenantID(ctx, tenantID)
		ctx = logger.WithUserID(ctx, userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func tokenErrorCode(err error) (string, string) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		return dto.ErrCodeTokenRevoked, "Token has been revoked"
	default:
		return dto.ErrCodeTokenInvalid, "Invalid token"
	}
}
