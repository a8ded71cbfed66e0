package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/Wyydra/huddle/internal/core/domain"
	"github.com/Wyydra/huddle/internal/core/port"
	"github.com/rs/zerolog/log"
)

// Hub tracks live connections by participant id. It implements port.Notifier.
type Hub struct {
	mu      sync.RWMutex
	clients map[domain.ParticipantID]port.Client
	stopped bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[domain.ParticipantID]port.Client),
	}
}

func (h *Hub) Register(c port.Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		return errors.New("hub stopped")
	}
	h.clients[c.ID()] = c
	log.Debug().Str("participant_id", c.ID().String()).Int("count", len(h.clients)).Msg("Client registered")
	return nil
}

// Unregister forgets c and closes it. Unknown or already removed clients are
// ignored.
func (h *Hub) Unregister(c port.Client) {
	h.mu.Lock()
	current, ok := h.clients[c.ID()]
	if ok && current == c {
		delete(h.clients, c.ID())
	}
	count := len(h.clients)
	h.mu.Unlock()

	if ok && current == c {
		c.Close()
		log.Debug().Str("participant_id", c.ID().String()).Int("count", count).Msg("Client unregistered")
	}
}

// Notify enqueues msg for every recipient that is still connected.
// Recipients whose queue is full are evicted; closing them terminates their
// connection, which runs the normal disconnect path.
func (h *Hub) Notify(ctx context.Context, recipients []domain.ParticipantID, msg domain.Message) error {
	var slow []port.Client

	h.mu.RLock()
	for _, id := range recipients {
		c, ok := h.clients[id]
		if !ok {
			continue
		}
		if err := c.Send(msg); err != nil {
			if errors.Is(err, ErrSendBufferFull) {
				slow = append(slow, c)
				continue
			}
			log.Debug().Err(err).Str("participant_id", id.String()).Msg("Dropping message for client")
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		log.Warn().Str("participant_id", c.ID().String()).Str("event", msg.Event).Msg("Client too slow, evicting")
		h.Unregister(c)
	}
	return nil
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop closes every client. Later registrations fail.
func (h *Hub) Stop() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[domain.ParticipantID]port.Client)
	h.stopped = true
	h.mu.Unlock()

	log.Info().Int("count", len(clients)).Msg("Stopping hub, disconnecting all clients")
	for _, c := range clients {
		if err := c.Close(); err != nil {
			log.Error().Err(err).Str("participant_id", c.ID().String()).Msg("Error closing client connection")
		}
	}
}
