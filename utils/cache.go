package utils

import (
	"context"
	"log"
	"time"

	"slotwise/config"

	"github.com/go-redis/redis/v8"
)

// AuthCacheClient is the dedicated client for authorization caching.
var AuthCacheClient *redis.Client

// InitAuthCache initializes the Redis client for authorization caching.
// A failed ping is logged; lookups then fall back to the database.
func InitAuthCache() {
	AuthCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAuthDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := AuthCacheClient.Ping(ctx).Result(); err != nil {
		log.Printf("WARNING: Redis (Auth Cache) unreachable: %v", err)
	}
}

// GetAuthCacheClient returns the Redis client for authorization caching.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		InitAuthCache()
	}
	return AuthCacheClient
}

// AuthCacheKey builds the cache key holding a user's current token hash.
func AuthCacheKey(userID string) string {
	return AuthCachePrefix + userID
}

// TokenCache keeps each user's current token hash in front of the database.
type TokenCache interface {
	StoreTokenHash(ctx context.Context, userID, hash string) error
	// TokenHash returns the cached hash; found is false on a miss.
	TokenHash(ctx context.Context, userID string) (hash string, found bool, err error)
	Revoke(ctx context.Context, userID string) error
}

// RedisTokenCache stores token hashes under AuthCacheKey with AuthCacheTTL.
type RedisTokenCache struct {
	Client *redis.Client
}

func NewRedisTokenCache(client *redis.Client) *RedisTokenCache {
	return &RedisTokenCache{Client: client}
}

func (c *RedisTokenCache) StoreTokenHash(ctx context.Context, userID, hash string) error {
	return c.Client.Set(ctx, AuthCacheKey(userID), hash, AuthCacheTTL).Err()
}

func (c *RedisTokenCache) TokenHash(ctx context.Context, userID string) (string, bool, error) {
	hash, err := c.Client.Get(ctx, AuthCacheKey(userID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return hash, true, nil
}

func (c *RedisTokenCache) Revoke(ctx context.Context, userID string) error {
	return c.Client.Del(ctx, AuthCacheKey(userID)).Err()
}
