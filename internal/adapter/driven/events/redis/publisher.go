package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Wyydra/huddle/internal/config"
	"github.com/Wyydra/huddle/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

// Event is the JSON document published for every membership change.
type Event struct {
	Kind          string    `json:"kind"`
	Room          string    `json:"room"`
	ParticipantID string    `json:"participant_id"`
	Recipients    int       `json:"recipients"`
	Timestamp     time.Time `json:"timestamp"`
}

// Publisher mirrors membership events to the Redis channel <prefix><room>.
type Publisher struct {
	client *redis.Client
	prefix string
}

func NewPublisher(ctx context.Context, cfg config.RedisConfig) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Publisher{client: client, prefix: cfg.ChannelPrefix}, nil
}

func (p *Publisher) Channel(room domain.RoomName) string {
	return p.prefix + room.String()
}

func (p *Publisher) Publish(ctx context.Context, ev domain.MembershipEvent) error {
	data, err := json.Marshal(Event{
		Kind:          string(ev.Kind),
		Room:          ev.Room.String(),
		ParticipantID: ev.Participant.String(),
		Recipients:    len(ev.Recipients),
		Timestamp:     ev.At,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.client.Publish(ctx, p.Channel(ev.Room), data).Err()
}

func (p *Publisher) Close() error {
	return p.client.Close()
}
