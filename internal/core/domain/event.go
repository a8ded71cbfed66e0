package domain

import "time"

type EventKind string

const (
	EventJoined EventKind = "joined"
	EventLeft   EventKind = "left"
)

// MembershipEvent is produced by the registry on every state transition.
// Recipients are the other members of Room at the moment of the transition.
type MembershipEvent struct {
	Kind        EventKind
	Room        RoomName
	Participant ParticipantID
	Recipients  []ParticipantID
	At          time.Time
}

func NewMembershipEvent(kind EventKind, room RoomName, participant ParticipantID, recipients []ParticipantID) MembershipEvent {
	return MembershipEvent{
		Kind:        kind,
		Room:        room,
		Participant: participant,
		Recipients:  recipients,
		At:          time.Now(),
	}
}
