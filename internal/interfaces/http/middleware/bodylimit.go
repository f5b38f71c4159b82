package middleware

import (
	"net/http"

	"github.com/dokan/papershop/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

type BodyLimitOption func(map[string]int64)

// WithRouteLimit overrides the limit for one registered route pattern,
// for example "/api/v1/expenses/:id/receipt".
func WithRouteLimit(fullPath string, maxBytes int64) BodyLimitOption {
	return func(limits map[string]int64) { limits[fullPath] = maxBytes }
}

// BodyLimit answers 413 for a declared Content-Length over the limit and
// caps undeclared bodies with http.MaxBytesReader.
func BodyLimit(maxBytes int64, opts ...BodyLimitOption) gin.HandlerFunc {
	routes := make(map[string]int64)
	for _, opt := range opts {
		opt(routes)
	}
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}
		limit := maxBytes
		if l, ok := routes[c.FullPath()]; ok {
			limit = l
		}
		if c.Request.ContentLength > limit {
			abortWithError(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
