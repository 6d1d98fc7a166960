package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"crateDigger/domain"

	"github.com/redis/go-redis/v9"
)

// ---- Session tokens ----

type TokenRepository struct {
	client *redis.Client
}

func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{
		client: client,
	}
}

func (r *TokenRepository) StoreToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	// key format: "token:lookup:{token}" -> user id, for validation on each request
	tokenKey := fmt.Sprintf("token:lookup:%s", token)
	if err := r.client.Set(ctx, tokenKey, userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store token in Redis: %w", err)
	}

	return nil
}

// ValidateToken checks if a token exists and is valid
func (r *TokenRepository) ValidateToken(ctx context.Context, token string) (string, error) {
	tokenKey := fmt.Sprintf("token:lookup:%s", token)

	userID, err := r.client.Get(ctx, tokenKey).Result()
	if err != nil {
		if err == redis.Nil {
			return "", errors.New("token not found or expired")
		}
		return "", fmt.Errorf("failed to validate token: %w", err)
	}

	return userID, nil
}

func (r *TokenRepository) RevokeToken(ctx context.Context, token string) error {
	tokenKey := fmt.Sprintf("token:lookup:%s", token)

	if err := r.client.Del(ctx, tokenKey).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

// ---- Dashboard stats cache ----

const statsKey = "dashboard:stats"

type StatsCacheRepository struct {
	client *redis.Client
}

func NewStatsCacheRepository(client *redis.Client) *StatsCacheRepository {
	return &StatsCacheRepository{
		client: client,
	}
}

func (r *StatsCacheRepository) GetStats(ctx context.Context) (*domain.DashboardStats, error) {
	val, err := r.client.Get(ctx, statsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get stats from Redis: %w", err)
	}

	var stats domain.DashboardStats
	if err := json.Unmarshal([]byte(val), &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached stats: %w", err)
	}

	return &stats, nil
}

func (r *StatsCacheRepository) SetStats(ctx context.Context, stats *domain.DashboardStats, ttl time.Duration) error {
	jsonData, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	if err := r.client.Set(ctx, statsKey, jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache stats in Redis: %w", err)
	}

	return nil
}

// ---- Scrape locks ----

type ScrapeLockRepository struct {
	client *redis.Client
}

func NewScrapeLockRepository(client *redis.Client) *ScrapeLockRepository {
	return &ScrapeLockRepository{
		client: client,
	}
}

// AcquireScrapeLock takes the per-seller lock with SETNX semantics. Returns
// false when another scrape already holds it.
func (r *ScrapeLockRepository) AcquireScrapeLock(ctx context.Context, seller string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("scrape:lock:%s", seller)

	acquired, err := r.client.SetNX(ctx, key, time.Now().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire scrape lock: %w", err)
	}

	return acquired, nil
}

func (r *ScrapeLockRepository) ReleaseScrapeLock(ctx context.Context, seller string) error {
	key := fmt.Sprintf("scrape:lock:%s", seller)

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release scrape lock: %w", err)
	}

	return nil
}
