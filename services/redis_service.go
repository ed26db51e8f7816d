package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ridesafe-http-service/config"

	"github.com/go-redis/redis/v8"
)

// 条件缓存有效期
const conditionCacheTTL = 10 * time.Minute

// InterfaceRedisService 定义缓存服务接口
type InterfaceRedisService interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	CacheConditions(userID uint, conditions interface{}) error
	GetCachedConditions(userID uint, dest interface{}) error
	InvalidateConditions(userID uint) error
}

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) InterfaceRedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: "", // No password set
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	return &RedisService{
		Client: client,
		Ctx:    ctx,
	}
}

// Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// Delete deletes a key from Redis
func (s *RedisService) Delete(key string) error {
	return s.Client.Del(s.Ctx, key).Err()
}

// conditionCacheKey 条件缓存键
func conditionCacheKey(userID uint) string {
	return fmt.Sprintf("emergency_conditions:%d", userID)
}

// CacheConditions 缓存用户的报警条件配置
func (s *RedisService) CacheConditions(userID uint, conditions interface{}) error {
	return s.Set(conditionCacheKey(userID), conditions, conditionCacheTTL)
}

// GetCachedConditions 从缓存读取用户的报警条件配置
func (s *RedisService) GetCachedConditions(userID uint, dest interface{}) error {
	return s.Get(conditionCacheKey(userID), dest)
}

// InvalidateConditions 使用户的条件缓存失效
func (s *RedisService) InvalidateConditions(userID uint) error {
	return s.Delete(conditionCacheKey(userID))
}
