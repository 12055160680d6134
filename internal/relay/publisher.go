package relay

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// Publisher is the outbound half of the relay. In production the backend's
// push bridge feeds the stream; locally the test-notification path and the
// test suite use it.
type Publisher interface {
	// Publish appends a message to the relay stream and returns the
	// stream entry ID.
	Publish(ctx context.Context, msg Message) (string, error)
}

// RedisPublisher implements Publisher using XADD.
type RedisPublisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) Publisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, msg Message) (string, error) {
	values, err := msg.ToMap()
	if err != nil {
		return "", err
	}

	entryID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: Stream,
		Values: values,
	}).Result()
	if err != nil {
		return "", fmt.Errorf("xadd push message: %w", err)
	}

	log.Printf("[Relay] Published messageId=%s entry=%s", msg.MessageID, entryID)
	return entryID, nil
}
