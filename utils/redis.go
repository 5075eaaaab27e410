package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sam0786-xyz/technova-backend/config"
)

var redisClient *redis.Client

const (
	liveEventsKey  = "events:live"
	eventKeyFormat = "event:%d"
	eventViewTTL   = 30 * time.Second
)

// InitRedis connects the shared client used for cached public event views.
func InitRedis(cfg *config.Config) error {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	log.Println("✅ Connected to Redis")
	return nil
}

// CacheLiveEvents stores the serialized live-events payload.
func CacheLiveEvents(ctx context.Context, payload []byte) {
	if redisClient == nil {
		return
	}
	if err := redisClient.Set(ctx, liveEventsKey, payload, eventViewTTL).Err(); err != nil {
		log.Printf("⚠️ Redis cache write failed: %v", err)
	}
}

// GetCachedLiveEvents returns the cached payload, or nil on a miss.
func GetCachedLiveEvents(ctx context.Context) []byte {
	if redisClient == nil {
		return nil
	}
	payload, err := redisClient.Get(ctx, liveEventsKey).Bytes()
	if err != nil {
		return nil
	}
	return payload
}

// CacheEventView stores one event's public view.
func CacheEventView(ctx context.Context, eventID uint, payload []byte) {
	if redisClient == nil {
		return
	}
	key := fmt.Sprintf(eventKeyFormat, eventID)
	if err := redisClient.Set(ctx, key, payload, eventViewTTL).Err(); err != nil {
		log.Printf("⚠️ Redis cache write failed: %v", err)
	}
}

// GetCachedEventView returns one event's cached public view, or nil.
func GetCachedEventView(ctx context.Context, eventID uint) []byte {
	if redisClient == nil {
		return nil
	}
	payload, err := redisClient.Get(ctx, fmt.Sprintf(eventKeyFormat, eventID)).Bytes()
	if err != nil {
		return nil
	}
	return payload
}

// RevalidateEventViews drops the cached public views after a mutation
// (registration, check-in, event update) so the next read is fresh.
func RevalidateEventViews(ctx context.Context, eventID uint) {
	if redisClient == nil {
		return
	}
	keys := []string{liveEventsKey, fmt.Sprintf(eventKeyFormat, eventID)}
	if err := redisClient.Del(ctx, keys...).Err(); err != nil {
		log.Printf("⚠️ Redis cache invalidation failed: %v", err)
	}
}
