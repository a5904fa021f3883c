// internal/pipeline/contextstore/redis.go
package contextstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mindline-backend/internal/models"
)

// Redis stores each conversation as a list of JSON-encoded turns,
// trimmed to the window on every append. TTL keeps abandoned
// conversations from accumulating.
type Redis struct {
	client *redis.Client
	window int
	ttl    time.Duration
}

func NewRedis(client *redis.Client, window int, ttl time.Duration) *Redis {
	return &Redis{client: client, window: window, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key Key) ([]models.ConversationTurn, error) {
	raw, err := r.client.LRange(ctx, key.String(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("context get %s: %w", key.String(), err)
	}

	turns := make([]models.ConversationTurn, 0, len(raw))
	for _, item := range raw {
		var turn models.ConversationTurn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			// A corrupt entry is skipped rather than poisoning the window.
			continue
		}
		turns = append(turns, turn)
	}

	if len(turns) > r.window {
		turns = turns[len(turns)-r.window:]
	}
	return turns, nil
}

func (r *Redis) Append(ctx context.Context, key Key, turn models.ConversationTurn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("context marshal turn: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key.String(), data)
	pipe.LTrim(ctx, key.String(), int64(-r.window), -1)
	pipe.Expire(ctx, key.String(), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("context append %s: %w", key.String(), err)
	}
	return nil
}
