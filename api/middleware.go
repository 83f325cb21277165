package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/suryastays/hotelbooking/internal/logger"
	"github.com/suryastays/hotelbooking/internal/service/auth"
	"github.com/ulule/limiter/v3"
	ginmiddleware "github.com/ulule/limiter/v3/drivers/middleware/gin"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

const userEmailKey = "userEmail"

// RequireAuth rejects requests without a valid bearer token and stores the
// authenticated email on the context.
func RequireAuth(service auth.AuthUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		email, err := service.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(userEmailKey, email)
		c.Next()
	}
}

func currentUserEmail(c *gin.Context) string {
	return c.GetString(userEmailKey)
}

// NewRateLimiter builds a redis-backed per-IP rate limit middleware from a
// limiter format string such as "60-M". On store setup failure the limiter
// is skipped rather than taking the API down.
func NewRateLimiter(client *redis.Client, format string) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(format)
	if err != nil {
		logger.Log.WithError(err).Warn("invalid rate limit format, skipping limiter")
		return func(c *gin.Context) { c.Next() }
	}

	store, err := redisstore.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:          "rate_limiter",
		CleanUpInterval: time.Minute,
	})
	if err != nil {
		logger.Log.WithError(err).Warn("rate limiter store unavailable, skipping limiter")
		return func(c *gin.Context) { c.Next() }
	}

	return ginmiddleware.NewMiddleware(limiter.New(store, rate))
}
