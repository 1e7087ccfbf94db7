package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-recipe-api/internal/interface/middleware"
	"github.com/oksasatya/go-recipe-api/pkg/helpers"
)

// Guard holds what modules need to protect their routes.
type Guard struct {
	JWT       *helpers.JWTManager
	Redis     *redis.Client
	RateLimit bool
}

func (g Guard) Auth() gin.HandlerFunc {
	return middleware.Auth(g.Redis, g.JWT)
}

// Limit allows max requests per minute per key. It is a no-op when rate
// limiting is disabled or Redis is not configured.
func (g Guard) Limit(max int, keyFn middleware.KeyFunc, allow middleware.AllowFunc) gin.HandlerFunc {
	if !g.RateLimit {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimit(g.Redis, middleware.Limit{Max: max, Window: time.Minute, Key: keyFn, Allow: allow})
}
