package domain

import (
	"github.com/google/uuid"
)

// ParticipantID identifies one live connection. It is assigned by the
// gateway when the connection is accepted.
type ParticipantID string

// RoomName is the caller-supplied name of a room.
type RoomName string

func NewParticipantID() ParticipantID {
	return ParticipantID(uuid.New().String())
}

func (id ParticipantID) String() string {
	return string(id)
}

func (n RoomName) String() string {
	return string(n)
}
