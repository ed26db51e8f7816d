package middleware

import (
	"fmt"
	"sync"
	"time"

	"ridesafe-http-service/internal/error/code"
	"ridesafe-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// 简单的令牌桶限流器
type TokenBucket struct {
	rate       float64    // 每秒填充的令牌数
	capacity   int        // 桶的容量
	tokens     float64    // 当前令牌数
	lastRefill time.Time  // 上次填充时间
	mu         sync.Mutex // 互斥锁
}

// 创建新的令牌桶限流器
func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	return &TokenBucket{
		rate:       rate,
		capacity:   capacity,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// 尝试获取令牌
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.lastRefill = now

	// 填充令牌
	tb.tokens += elapsed * tb.rate
	if tb.tokens > float64(tb.capacity) {
		tb.tokens = float64(tb.capacity)
	}

	// 尝试获取令牌
	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}

	return false
}

// 按键划分的限流器集合
var (
	limiters   = make(map[string]*TokenBucket)
	limitersMu sync.Mutex
)

// getLimiter 获取或创建指定键的限流器
func getLimiter(key string, rate float64, capacity int) *TokenBucket {
	limitersMu.Lock()
	defer limitersMu.Unlock()

	if limiter, ok := limiters[key]; ok {
		return limiter
	}
	limiter := NewTokenBucket(rate, capacity)
	limiters[key] = limiter
	return limiter
}

// RateLimitSOS SOS提交限流
// 按认证用户限流（未认证回退到IP），限制误触连击刷库，
// 容量上限仍然允许突发升级场景的连续多次求救通过
func RateLimitSOS() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "sos:ip:" + c.ClientIP()
		if userID, ok := CurrentUserID(c); ok {
			key = fmt.Sprintf("sos:user:%d", userID)
		}

		// 每秒1个令牌，最多突发10次
		if !getLimiter(key, 1, 10).Allow() {
			response.Fail(c, code.ErrTooManyRequests, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
