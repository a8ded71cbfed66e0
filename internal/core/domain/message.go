package domain

import (
	"encoding/json"
	"errors"
)

// Wire event names.
const (
	MsgJoinRoom         = "join-room"
	MsgUserJoined       = "user-joined"
	MsgUserDisconnected = "user-disconnected"
)

// Message is the envelope of every frame exchanged with a client.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func NewMessage(event string, data any) (Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Message{}, err
	}
	return Message{Event: event, Data: raw}, nil
}

// UserJoined tells a room member that id arrived.
func UserJoined(id ParticipantID) Message {
	msg, _ := NewMessage(MsgUserJoined, id.String())
	return msg
}

// UserDisconnected tells a room member that id left.
func UserDisconnected(id ParticipantID) Message {
	msg, _ := NewMessage(MsgUserDisconnected, id.String())
	return msg
}

// ParseMessage decodes an inbound frame.
func ParseMessage(raw []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Message{}, err
	}
	if msg.Event == "" {
		return Message{}, errors.New("message event cannot be empty")
	}
	return msg, nil
}

// RoomName decodes the payload of a join-room message.
func (m Message) RoomName() (RoomName, error) {
	var name string
	if err := json.Unmarshal(m.Data, &name); err != nil {
		return "", err
	}
	if name == "" {
		return "", ErrEmptyRoomName
	}
	return RoomName(name), nil
}
