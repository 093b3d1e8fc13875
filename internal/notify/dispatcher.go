package notify

import (
	"propchat/backend/internal/logging"
	"propchat/backend/internal/models"
	"propchat/backend/internal/roomhub"
)

// Kind classifies a notification.
type Kind string

const (
	KindNewChat    Kind = "new_chat"
	KindNewMessage Kind = "new_message"
	KindChatClosed Kind = "chat_closed"
)

// Notification is a typed event fanned out to a mailbox room. TargetRoom is
// the recipient's own-id room, not the conversation room.
type Notification struct {
	Kind       Kind
	ChatID     string
	Message    string
	TargetRoom string
}

// Dispatcher maps notification kinds to wire event names and pushes them
// through the room hub. It is stateless; it exists so the event-name and
// payload-shape mapping lives in one place, and so persisted notification
// rows can be added later without touching the session service.
type Dispatcher struct {
	hub roomhub.Hub
}

// NewDispatcher creates a dispatcher bound to a hub.
func NewDispatcher(hub roomhub.Hub) *Dispatcher {
	return &Dispatcher{hub: hub}
}

// Dispatch broadcasts the notification to its target room, best effort.
// Unknown kinds are logged and dropped.
func (d *Dispatcher) Dispatch(n Notification) {
	event, ok := eventName(n.Kind)
	if !ok {
		logging.L().Error().Str("kind", string(n.Kind)).Msg("unknown notification kind")
		return
	}

	d.hub.Broadcast(n.TargetRoom, event, models.NotificationPayload{
		Message: n.Message,
		ChatID:  n.ChatID,
	})
}

func eventName(k Kind) (string, bool) {
	switch k {
	case KindNewChat:
		return models.EventNewChatNotification, true
	case KindNewMessage:
		return models.EventNewMessageNotification, true
	case KindChatClosed:
		return models.EventChatClosedNotification, true
	default:
		return "", false
	}
}
