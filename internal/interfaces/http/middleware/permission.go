package middleware

import (
	"net/http"

	"github.com/dokan/papershop/internal/domain/identity"
	"github.com/dokan/papershop/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RequireModule guards a route group by role. Safe methods need view access
// to the module; everything else needs full access.
func RequireModule(module identity.Module) gin.HandlerFunc {
	return func(c *gin.Context) {
		want := identity.AccessFull
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			want = identity.AccessView
		}
		if !GetRole(c).Can(module, want) {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden,
				"Your role cannot access "+string(module))
			return
		}
		c.Next()
	}
}

// RequireAnyModule passes when the role can reach at least one module. POS
// staff and managers share the sales routes this way.
func RequireAnyModule(modules ...identity.Module) gin.HandlerFunc {
	return func(c *gin.Context) {
		want := identity.AccessFull
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			want = identity.AccessView
		}
		role := GetRole(c)
		for _, m := range modules {
			if role.Can(m, want) {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Your role cannot access this resource")
	}
}
