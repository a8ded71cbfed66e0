package domain

import "errors"

var (
	ErrAlreadyInRoom   = errors.New("participant already in a room")
	ErrEmptyRoomName   = errors.New("room name cannot be empty")
	ErrParticipantGone = errors.New("participant disconnected")
)
