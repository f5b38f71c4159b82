package middleware

import (
	"net/http"
	"time"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/dokan/papershop/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxIdempotencyKeyLength = 200

// Idempotency makes create requests carrying an Idempotency-Key header apply
// at most once per tenant. A replay gets 409 DUPLICATE_REQUEST. A key whose
// request failed is forgotten so the client can retry with it.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			abortWithError(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Idempotency-Key is too long")
			return
		}

		tenantID, _ := GetTenantID(c)
		storeKey := "idem:" + tenantID.String() + ":" + c.FullPath() + ":" + key
		ctx := c.Request.Context()

		fresh, err := store.MarkProcessed(ctx, storeKey, ttl)
		if err != nil {
			log.Error("Idempotency store unavailable, processing request", zap.Error(err))
			c.Next()
			return
		}
		if !fresh {
			abortWithError(c, http.StatusConflict, shared.CodeDuplicateRequest, shared.ErrDuplicateRequest.Message)
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Forget(ctx, storeKey); err != nil {
				log.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(err))
			}
		}
	}
}
