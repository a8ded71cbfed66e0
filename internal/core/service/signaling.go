package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Wyydra/huddle/internal/core/domain"
	"github.com/Wyydra/huddle/internal/core/port"
	"github.com/rs/zerolog/log"
)

// SignalingService turns connection lifecycle and inbound requests into
// registry operations, then fans the resulting events out to the room.
type SignalingService struct {
	registry  *Registry
	notifier  port.Notifier
	publisher port.EventPublisher
}

func NewSignalingService(registry *Registry, notifier port.Notifier, publisher port.EventPublisher) *SignalingService {
	return &SignalingService{
		registry:  registry,
		notifier:  notifier,
		publisher: publisher,
	}
}

func (s *SignalingService) Connect(ctx context.Context, id domain.ParticipantID) {
	s.registry.Connect(id)
	log.Info().Str("participant_id", id.String()).Msg("Participant connected")
}

// JoinRoom puts id into room and tells the members already there.
// A second join on the same connection is dropped and ErrAlreadyInRoom is
// returned so the caller can log it.
func (s *SignalingService) JoinRoom(ctx context.Context, id domain.ParticipantID, room domain.RoomName) error {
	ev, err := s.registry.Join(id, room)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyInRoom) {
			current, _ := s.registry.RoomOf(id)
			log.Debug().
				Str("participant_id", id.String()).
				Str("room", room.String()).
				Str("current_room", current.String()).
				Msg("Dropping join-room, participant already in a room")
		}
		return fmt.Errorf("join room %q: %w", room, err)
	}

	log.Info().
		Str("participant_id", id.String()).
		Str("room", room.String()).
		Int("peers", len(ev.Recipients)).
		Msg("Participant joined room")

	s.dispatch(ctx, ev, domain.UserJoined(id))
	return nil
}

// Disconnect runs the leave side effect of a terminated connection.
// It is safe to call more than once.
func (s *SignalingService) Disconnect(ctx context.Context, id domain.ParticipantID) {
	ev, left := s.registry.Disconnect(id)
	if !left {
		log.Info().Str("participant_id", id.String()).Msg("Participant disconnected")
		return
	}

	log.Info().
		Str("participant_id", id.String()).
		Str("room", ev.Room.String()).
		Int("remaining", len(ev.Recipients)).
		Msg("Participant disconnected, left room")

	s.dispatch(ctx, ev, domain.UserDisconnected(id))
}

func (s *SignalingService) Members(ctx context.Context, room domain.RoomName) []domain.ParticipantID {
	return s.registry.MembersOf(room)
}

func (s *SignalingService) Stats() Stats {
	return s.registry.Stats()
}

// dispatch runs outside every registry lock.
func (s *SignalingService) dispatch(ctx context.Context, ev domain.MembershipEvent, msg domain.Message) {
	if len(ev.Recipients) > 0 {
		if err := s.notifier.Notify(ctx, ev.Recipients, msg); err != nil {
			log.Error().Err(err).
				Str("room", ev.Room.String()).
				Str("event", msg.Event).
				Msg("Failed to notify room members")
		}
	}

	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).
			Str("room", ev.Room.String()).
			Str("kind", string(ev.Kind)).
			Msg("Failed to publish membership event")
	}
}
