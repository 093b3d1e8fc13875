package models

import "encoding/json"

// Event names carried on the wire. These are part of the client contract
// and must not change.
const (
	EventJoinChat       = "joinChat"
	EventCloseChat      = "closeChat"
	EventReceiveMessage = "receiveMessage"
	EventChatClosed     = "chatClosed"

	EventNewChatNotification    = "newChatNotification"
	EventNewMessageNotification = "newMessageNotification"
	EventChatClosedNotification = "chatClosedNotification"
)

// Event is the envelope for everything sent over a realtime connection,
// in both directions.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// NewEvent marshals payload into an outbound envelope.
func NewEvent(name string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Event: name, Data: data}, nil
}

// JoinChatPayload is the client request to join a per-conversation room.
type JoinChatPayload struct {
	ChatID string `json:"chatId"`
}

// ChatClosedPayload is broadcast to the conversation room when it closes.
type ChatClosedPayload struct {
	Message string `json:"message"`
}

// NotificationPayload is delivered to an admin's mailbox room.
type NotificationPayload struct {
	Message string `json:"message"`
	ChatID  string `json:"chatId"`
}
