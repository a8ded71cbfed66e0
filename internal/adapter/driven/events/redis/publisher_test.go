package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Wyydra/huddle/internal/config"
	"github.com/Wyydra/huddle/internal/core/domain"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestPublisher_Publish(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	srv := miniredis.RunT(t)

	pub, err := NewPublisher(ctx, config.RedisConfig{Address: srv.Addr(), ChannelPrefix: "huddle:room:"})
	req.NoError(err)
	defer pub.Close()

	sub := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	defer sub.Close()
	ps := sub.Subscribe(ctx, "huddle:room:lobby")
	defer ps.Close()
	_, err = ps.Receive(ctx)
	req.NoError(err)

	ev := domain.NewMembershipEvent(domain.EventJoined, "lobby", "b", []domain.ParticipantID{"a"})
	req.NoError(pub.Publish(ctx, ev))

	select {
	case msg := <-ps.Channel():
		var got Event
		req.NoError(json.Unmarshal([]byte(msg.Payload), &got))
		req.Equal("joined", got.Kind)
		req.Equal("lobby", got.Room)
		req.Equal("b", got.ParticipantID)
		req.Equal(1, got.Recipients)
	case <-time.After(time.Second):
		req.Fail("no message published")
	}
}

func TestNewPublisher_Unreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := NewPublisher(context.Background(), config.RedisConfig{Address: addr})
	require.Error(t, err)
}
