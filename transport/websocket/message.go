package websocket

import (
	"encoding/json"
	"fmt"
)

// Message is the wire envelope: an action name plus its payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinPayload is the body of a "join" action.
type JoinPayload struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

// MovePayload is the body of a "make-move" action.
type MovePayload struct {
	Index int `json:"index"`
}

func newMessage(action string, payload any) (*Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("could not marshal payload: %w", err)
	}

	return &Message{
		Action:  action,
		Payload: body,
	}, nil
}
