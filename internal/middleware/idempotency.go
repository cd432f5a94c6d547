package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"uni-hris/internal/shared/contextutil"
	"uni-hris/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	idempotencyCacheKey = "idempotency_cache_key"
	idempotencyLockKey  = "idempotency_lock_key"

	idempotencyLockTTL  = 30 * time.Second
	idempotencyCacheTTL = 24 * time.Hour
)

type cachedResponse struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// Idempotency replays the stored response of a POST carrying an
// Idempotency-Key header that was already handled for the same user and
// route, and rejects a concurrent duplicate with 409 while the first is
// still in flight.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if rdb == nil || idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		log := contextutil.GetLogger(ctx, zap.L().Named("middleware.idempotency"))
		userID := c.GetString("user_id")

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached cachedResponse
			if json.Unmarshal([]byte(val), &cached) == nil {
				log.Debug("idempotent replay", zap.String("key", idempKey))
				status := cached.Status
				if status == 0 {
					status = http.StatusOK
				}
				c.Header("Idempotent-Replayed", "true")
				response.Success(c, status, cached.Data, nil)
				c.Abort()
				return
			}
		} else if err != redis.Nil {
			log.Warn("idempotency cache lookup failed", zap.Error(err))
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			log.Warn("idempotency lock failed, continuing without it", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING", "A request with this Idempotency-Key is still being processed", nil)
			c.Abort()
			return
		}

		c.Set(idempotencyCacheKey, cacheKey)
		c.Set(idempotencyLockKey, lockKey)

		c.Next()

		// the handler may have run past the request deadline
		cleanupCtx := context.WithoutCancel(ctx)
		if err := rdb.Del(cleanupCtx, lockKey).Err(); err != nil {
			log.Warn("idempotency unlock failed", zap.Error(err))
		}
	}
}

// RememberResponse stores a successful handler result for replay. It is a
// no-op when the request did not go through Idempotency.
func RememberResponse(c *gin.Context, rdb *redis.Client, status int, data any) {
	if rdb == nil {
		return
	}
	cacheKey := c.GetString(idempotencyCacheKey)
	if cacheKey == "" {
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	body, err := json.Marshal(cachedResponse{Status: status, Data: payload})
	if err != nil {
		return
	}

	if err := rdb.Set(c.Request.Context(), cacheKey, body, idempotencyCacheTTL).Err(); err != nil {
		contextutil.GetLogger(c.Request.Context(), zap.L()).Warn("idempotency store failed", zap.Error(err))
	}
}
