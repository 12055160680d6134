package relay

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Delivery is one message read from the relay stream.
type Delivery struct {
	ID      string // stream entry ID
	Message Message
}

// Consumer is the inbound half of the push relay: the bridge between the
// platform push transport and this process.
type Consumer interface {
	// EnsureGroup creates the device consumer group if it doesn't exist.
	// Called once at startup.
	EnsureGroup(ctx context.Context) error

	// Read blocks for up to block waiting for new messages. This is the
	// foreground delivery path while the process runs.
	Read(ctx context.Context, consumer string, count int64, block time.Duration) ([]Delivery, error)

	// ReadInitial returns messages that were delivered but never
	// acknowledged, i.e. pushes that arrived while the process was not
	// running. The launch-triggering notification at cold start comes
	// from here.
	ReadInitial(ctx context.Context, consumer string, count int64) ([]Delivery, error)

	// Ack marks deliveries as handled.
	Ack(ctx context.Context, ids ...string) error
}

// RedisConsumer implements Consumer on Redis Streams.
type RedisConsumer struct {
	client *redis.Client
}

func NewConsumer(client *redis.Client) Consumer {
	return &RedisConsumer{client: client}
}

// EnsureGroup creates the consumer group with MKSTREAM so stream and group
// come up together. "0" makes pending history visible to ReadInitial.
func (c *RedisConsumer) EnsureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, Stream, ConsumerGroup, "0").Err()
	if err != nil {
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			return nil
		}
		return fmt.Errorf("create consumer group: %w", err)
	}
	log.Printf("[Relay] Consumer group created: stream=%s group=%s", Stream, ConsumerGroup)
	return nil
}

// Read reads new messages with XREADGROUP ">".
func (c *RedisConsumer) Read(ctx context.Context, consumer string, count int64, block time.Duration) ([]Delivery, error) {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    ConsumerGroup,
		Consumer: consumer,
		Streams:  []string{Stream, ">"},
		Count:    count,
		Block:    block,
	}).Result()

	if err == redis.Nil {
		return nil, nil // timeout, no new messages
	}
	if err != nil {
		return nil, fmt.Errorf("xreadgroup: %w", err)
	}
	return parseStreams(streams), nil
}

// ReadInitial reads this consumer's pending entries with XREADGROUP "0".
func (c *RedisConsumer) ReadInitial(ctx context.Context, consumer string, count int64) ([]Delivery, error) {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    ConsumerGroup,
		Consumer: consumer,
		Streams:  []string{Stream, "0"},
		Count:    count,
	}).Result()

	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("xreadgroup pending: %w", err)
	}
	return parseStreams(streams), nil
}

// Ack acknowledges deliveries with XACK.
func (c *RedisConsumer) Ack(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := c.client.XAck(ctx, Stream, ConsumerGroup, ids...).Err(); err != nil {
		return fmt.Errorf("xack: %w", err)
	}
	return nil
}

func parseStreams(streams []redis.XStream) []Delivery {
	var deliveries []Delivery
	for _, s := range streams {
		for _, entry := range s.Messages {
			msg, err := ParseMessage(entry.Values)
			if err != nil {
				// Malformed entries are skipped, not fatal.
				log.Printf("[Relay] Skipping malformed entry %s: %v", entry.ID, err)
				continue
			}
			deliveries = append(deliveries, Delivery{ID: entry.ID, Message: msg})
		}
	}
	return deliveries
}
