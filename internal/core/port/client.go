package port

import "github.com/Wyydra/huddle/internal/core/domain"

// Client is one participant connection as seen by the transport.
type Client interface {
	ID() domain.ParticipantID
	Send(msg domain.Message) error
	Close() error
}
