package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/wshuai/interview_go_server/internal/pkg/response"
)

// 固定窗口计数，INCR 和首次设置过期放在同一段脚本里保证原子
const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RateLimiter Redis 固定窗口限流器
type RateLimiter struct {
	client *redis.Client
	script *redis.Script
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	if client == nil {
		return nil
	}
	return &RateLimiter{
		client: client,
		script: redis.NewScript(rateLimitScript),
	}
}

// Allow 窗口内是否仍有配额。Redis 不可用时放行，限流不能把服务拖挂。
func (l *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil || key == "" || limit <= 0 {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()

	allowed, err := l.script.Run(ctx, l.client, []string{key}, window.Milliseconds(), limit).Int64()
	if err != nil {
		return true
	}
	return allowed == 1
}

// RateLimit 按用户限流中间件，须挂在 Auth 之后。
// scope 区分不同接口的配额，互不挤占。
func RateLimit(limiter *RateLimiter, scope string, perMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%d", scope, userID)
		if !limiter.Allow(c.Request.Context(), key, perMinute, time.Minute) {
			response.Error(c, response.CodeDuplicateAction, "操作过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}
