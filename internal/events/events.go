// Package events publishes tracker domain events to Redis pub/sub so other
// processes can react to changes. Publishing is best effort: callers log
// failures and carry on.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Type names an event and doubles as its pub/sub channel.
type Type string

const (
	ApplicationSaved    Type = "EVENT_APPLICATION_SAVED"
	StatusChanged       Type = "EVENT_STATUS_CHANGED"
	ApplicationDeleted  Type = "EVENT_APPLICATION_DELETED"
	ApplicationRestored Type = "EVENT_APPLICATION_RESTORED"
	BackupCompleted     Type = "EVENT_BACKUP_COMPLETED"
)

// Event is the JSON payload published on the channel named by Type.
type Event struct {
	ID            string `json:"id"`
	Type          Type   `json:"type"`
	ApplicationID int64  `json:"application_id,omitempty"`
	Data          any    `json:"data,omitempty"`
	Timestamp     int64  `json:"timestamp"`
}

// New builds an event with a fresh id and the current time.
func New(t Type, applicationID int64, data any) Event {
	return Event{
		ID:            uuid.New().String(),
		Type:          t,
		ApplicationID: applicationID,
		Data:          data,
		Timestamp:     time.Now().UnixMilli(),
	}
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher discards every event.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// RedisPublisher publishes events as JSON on a Redis channel per event type.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher wraps an existing client.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Publish implements Publisher.
func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", e.Type, err)
	}
	if err := p.rdb.Publish(ctx, string(e.Type), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", e.Type, err)
	}
	return nil
}

// Close closes the underlying client.
func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}

// NewRedisClient creates and verifies a Redis client connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

// Emit publishes e and logs a failure instead of returning it.
// A nil publisher is allowed.
func Emit(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		log.Printf("[events] %v", err)
	}
}
