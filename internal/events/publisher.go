// Package events publishes room lifecycle notifications to an external
// broker so sibling services (matchmaking, stats) can react to games
// starting and ending.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const channel = "typeracer-events"

type Publisher interface {
	GameStarted(roomID string, mode string, playerIDs []string)
	GameEnded(roomID string, winnerID string)
}

type event struct {
	Type    string `json:"type"`
	Content any    `json:"content"`
}

// RedisPublisher pushes events onto a redis pub/sub channel. Failures are
// logged and swallowed: the broker is best-effort and must never stall the
// game loop.
type RedisPublisher struct {
	broker *redis.Client
	logger *zap.Logger
}

func NewRedisPublisher(host, port, password string, logger *zap.Logger) *RedisPublisher {
	broker := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       0,
	})
	return &RedisPublisher{broker: broker, logger: logger}
}

func (p *RedisPublisher) GameStarted(roomID string, mode string, playerIDs []string) {
	p.publish(event{Type: "GameStarted", Content: map[string]any{
		"roomId":  roomID,
		"mode":    mode,
		"players": playerIDs,
	}})
}

func (p *RedisPublisher) GameEnded(roomID string, winnerID string) {
	p.publish(event{Type: "GameEnded", Content: map[string]any{
		"roomId":   roomID,
		"winnerId": winnerID,
	}})
}

func (p *RedisPublisher) publish(e event) {
	body, err := json.Marshal(e)
	if err != nil {
		p.logger.Error("could not marshal publisher event", zap.Error(err))
		return
	}
	if err := p.broker.Publish(context.Background(), channel, body).Err(); err != nil {
		p.logger.Error("could not publish event",
			zap.Error(err),
			zap.String("event", e.Type),
		)
	}
}

// Nop is used when no broker is configured.
type Nop struct{}

func (Nop) GameStarted(string, string, []string) {}
func (Nop) GameEnded(string, string)             {}
