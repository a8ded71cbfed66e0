package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/Wyydra/huddle/internal/adapter/driven/gateway/ws"
	"github.com/Wyydra/huddle/internal/core/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Signaling is open to every origin, there is no authentication.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS owns one participant connection from upgrade to termination.
// Inbound frames are handled on this goroutine, so the deferred disconnect
// always runs after any join-room that was already being applied.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Error while upgrading ws")
		return
	}

	id := domain.NewParticipantID()
	client := ws.NewClient(id, conn, h.WSConfig)

	l := log.With().Str("participant_id", id.String()).Logger()

	if err := h.Hub.Register(client); err != nil {
		l.Warn().Err(err).Msg("Rejecting connection")
		conn.Close()
		return
	}

	// Disconnect must still run while the request is torn down.
	ctx := context.WithoutCancel(r.Context())
	h.Signaling.Connect(ctx, id)

	go client.WritePump()

	defer func() {
		h.Signaling.Disconnect(ctx, id)
		h.Hub.Unregister(client)
		conn.Close()
	}()

	client.ReadPump(func(raw []byte) {
		h.handleMessage(ctx, l, id, raw)
	})
}

func (h *Handler) handleMessage(ctx context.Context, l zerolog.Logger, id domain.ParticipantID, raw []byte) {
	msg, err := domain.ParseMessage(raw)
	if err != nil {
		l.Debug().Err(err).Msg("Dropping malformed message")
		return
	}

	switch msg.Event {
	case domain.MsgJoinRoom:
		room, err := msg.RoomName()
		if err != nil {
			l.Debug().Err(err).Msg("Dropping join-room with invalid room name")
			return
		}
		if err := h.Signaling.JoinRoom(ctx, id, room); err != nil {
			if errors.Is(err, domain.ErrAlreadyInRoom) {
				return
			}
			l.Warn().Err(err).Msg("Failed to join room")
		}
	default:
		l.Debug().Str("event", msg.Event).Msg("Dropping unknown event")
	}
}
