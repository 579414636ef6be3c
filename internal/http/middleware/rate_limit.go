package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	libredis "github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/liveauction/auction-backend/internal/logger"
)

// RateLimitMiddleware создаёт middleware для ограничения количества запросов.
// По умолчанию: 10 запросов в минуту с одного IP. Если задан redisURL,
// счётчики хранятся в Redis и делятся между инстансами, иначе в памяти
// процесса.
func RateLimitMiddleware(limit int64, period time.Duration, redisURL string) gin.HandlerFunc {
	if limit <= 0 {
		limit = 10
	}
	if period <= 0 {
		period = 1 * time.Minute
	}

	rate := limiter.Rate{
		Period: period,
		Limit:  limit,
	}

	store := newLimiterStore(redisURL)
	instance := limiter.New(store, rate)

	return func(c *gin.Context) {
		key := c.ClientIP()
		context, err := instance.Get(c, key)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", context.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", context.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", context.Reset))

		if context.Reached {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "слишком много запросов, попробуйте позже",
			})
			return
		}

		c.Next()
	}
}

// newLimiterStore выбирает хранилище счётчиков лимитера.
func newLimiterStore(redisURL string) limiter.Store {
	if redisURL == "" {
		return memory.NewStore()
	}

	opts, err := libredis.ParseURL(redisURL)
	if err != nil {
		if logger.Log != nil {
			logger.Log.WithError(err).Warn("rate limit: некорректный REDIS_URL, используем память процесса")
		}
		return memory.NewStore()
	}

	client := libredis.NewClient(opts)
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: "auction_rate_limit",
	})
	if err != nil {
		if logger.Log != nil {
			logger.Log.WithError(err).Warn("rate limit: не удалось подключить Redis, используем память процесса")
		}
		return memory.NewStore()
	}

	return store
}
