package ws

import (
	"context"
	"sync"
	"testing"

	"github.com/Wyydra/huddle/internal/core/domain"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	id   domain.ParticipantID
	full bool

	mu       sync.Mutex
	received []domain.Message
	closed   bool
}

func (c *fakeClient) ID() domain.ParticipantID { return c.id }

func (c *fakeClient) Send(msg domain.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	if c.full {
		return ErrSendBufferFull
	}
	c.received = append(c.received, msg)
	return nil
}

func (c *fakeClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func TestHub_NotifyOnlyRecipients(t *testing.T) {
	req := require.New(t)
	h := NewHub()
	a, b, c := &fakeClient{id: "a"}, &fakeClient{id: "b"}, &fakeClient{id: "c"}
	for _, cl := range []*fakeClient{a, b, c} {
		req.NoError(h.Register(cl))
	}

	msg := domain.UserJoined("c")
	req.NoError(h.Notify(context.Background(), []domain.ParticipantID{"a", "b", "gone"}, msg))

	req.Equal([]domain.Message{msg}, a.received)
	req.Equal([]domain.Message{msg}, b.received)
	req.Empty(c.received)
}

func TestHub_EvictsSlowClient(t *testing.T) {
	req := require.New(t)
	h := NewHub()
	fast, slow := &fakeClient{id: "fast"}, &fakeClient{id: "slow", full: true}
	req.NoError(h.Register(fast))
	req.NoError(h.Register(slow))

	req.NoError(h.Notify(context.Background(), []domain.ParticipantID{"slow", "fast"}, domain.UserJoined("x")))

	req.Len(fast.received, 1)
	req.False(fast.isClosed())
	req.True(slow.isClosed())
	req.Equal(1, h.Count())
}

func TestHub_UnregisterIgnoresStaleClient(t *testing.T) {
	req := require.New(t)
	h := NewHub()
	old, current := &fakeClient{id: "a"}, &fakeClient{id: "a"}
	req.NoError(h.Register(old))
	req.NoError(h.Register(current))

	h.Unregister(old)
	req.False(old.isClosed())
	req.Equal(1, h.Count())

	h.Unregister(current)
	h.Unregister(current)
	req.True(current.isClosed())
	req.Equal(0, h.Count())
}

func TestHub_Stop(t *testing.T) {
	req := require.New(t)
	h := NewHub()
	a := &fakeClient{id: "a"}
	req.NoError(h.Register(a))

	h.Stop()
	req.True(a.isClosed())
	req.Equal(0, h.Count())
	req.Error(h.Register(&fakeClient{id: "b"}))
}
