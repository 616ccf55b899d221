// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"strconv"
	"time"

	"stayhub/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the generic cache client.
var CacheClient *redis.Client

// InitCache initializes the generic Redis cache client (using DB from AppConfig for general caching).
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// AcquireCallbackLatch takes a short-lived dedupe latch for a payment-provider
// transaction. A false result means another delivery of the same callback is
// already being processed.
func AcquireCallbackLatch(ctx context.Context, transactionNo string, ttl time.Duration) (bool, error) {
	return GetCacheClient().SetNX(ctx, "payment:txn:"+transactionNo, 1, ttl).Result()
}

// CachePaymentURL stores a hosted-checkout URL for the lifetime of the
// gateway session, keyed by booking and amount so a retried request within
// the window reuses the same checkout session.
func CachePaymentURL(ctx context.Context, bookingID string, amount int64, url string, ttl time.Duration) error {
	return GetCacheClient().Set(ctx, paymentURLKey(bookingID, amount), url, ttl).Err()
}

// CachedPaymentURL returns the live checkout URL for a booking and amount, or
// "" when none is cached.
func CachedPaymentURL(ctx context.Context, bookingID string, amount int64) (string, error) {
	url, err := GetCacheClient().Get(ctx, paymentURLKey(bookingID, amount)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return url, err
}

func paymentURLKey(bookingID string, amount int64) string {
	return "payment:url:" + bookingID + ":" + strconv.FormatInt(amount, 10)
}
