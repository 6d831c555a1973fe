package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NsdHSO/ads/internal/types"
	"github.com/redis/go-redis/v9"
)

// trackTTL bounds how long a stale track stays visible; a live link
// refreshes the key on every decoded report.
const trackTTL = 1 * time.Hour

// RedisClientInterface defines the Redis operations used by our client
type RedisClientInterface interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// Client caches the latest decoded report per track number
type Client struct {
	client RedisClientInterface
}

// New creates a new Redis client
func New(addr string) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{client: client}, nil
}

// NewWithClient creates a new Redis client with a custom RedisClientInterface (useful for testing)
func NewWithClient(client RedisClientInterface) *Client {
	return &Client{client: client}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.client.Close()
}

func trackKey(trackNumber uint16) string {
	return fmt.Sprintf("track:%03x", trackNumber)
}

// StoreTrackReport caches the latest report for a track number
func (c *Client) StoreTrackReport(ctx context.Context, report *types.TrackReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal track report: %w", err)
	}

	return c.client.Set(ctx, trackKey(report.TrackNumber), data, trackTTL).Err()
}

// GetTrackReport retrieves the latest cached report for a track number.
// A missing key returns (nil, nil).
func (c *Client) GetTrackReport(ctx context.Context, trackNumber uint16) (*types.TrackReport, error) {
	data, err := c.client.Get(ctx, trackKey(trackNumber)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get track report: %w", err)
	}

	var report types.TrackReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal track report: %w", err)
	}
	return &report, nil
}

// DeleteTrackReport removes the cached report for a track number
func (c *Client) DeleteTrackReport(ctx context.Context, trackNumber uint16) error {
	return c.client.Del(ctx, trackKey(trackNumber)).Err()
}
