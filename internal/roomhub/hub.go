package roomhub

import (
	"sync"

	"propchat/backend/internal/logging"
	"propchat/backend/internal/models"
)

// Hub is the runtime registry of room id -> live session handles. A room id
// is either a chat id (per-conversation room) or a participant id (mailbox
// room). Membership is a pure runtime projection: it is rebuilt from scratch
// on reconnect and carries no authority over who may post.
type Hub interface {
	// Join adds a session to a room. Joining a room twice is a no-op.
	Join(s Session, roomID string)
	// Leave removes a session from a room. Leaving a room it is not in is
	// a no-op.
	Leave(s Session, roomID string)
	// LeaveAll removes a session from every room it is in. Called exactly
	// once per disconnect.
	LeaveAll(s Session)
	// Broadcast delivers payload to every session currently in the room,
	// best effort. Unreachable recipients are dropped silently.
	Broadcast(roomID, event string, payload any)
	// BroadcastExcept is Broadcast minus one handle, used to avoid echoing
	// a sender's own message back when the sender appends optimistically.
	BroadcastExcept(roomID, event string, payload any, except Session)
}

// MemoryHub is the single-process Hub implementation: a mutex-guarded map of
// room membership sets.
type MemoryHub struct {
	mu sync.RWMutex
	// rooms maps roomID -> sessionID -> session.
	rooms map[string]map[string]Session
	// members maps sessionID -> the set of rooms it joined, so LeaveAll
	// does not scan every room.
	members map[string]map[string]struct{}
}

// NewMemoryHub creates an empty in-memory hub.
func NewMemoryHub() *MemoryHub {
	return &MemoryHub{
		rooms:   make(map[string]map[string]Session),
		members: make(map[string]map[string]struct{}),
	}
}

func (h *MemoryHub) Join(s Session, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[roomID]
	if !ok {
		room = make(map[string]Session)
		h.rooms[roomID] = room
	}
	room[s.ID()] = s

	joined, ok := h.members[s.ID()]
	if !ok {
		joined = make(map[string]struct{})
		h.members[s.ID()] = joined
	}
	joined[roomID] = struct{}{}

	logging.L().Debug().
		Str("session_id", s.ID()).
		Str("user_id", s.UserID()).
		Str("room_id", roomID).
		Msg("session joined room")
}

func (h *MemoryHub) Leave(s Session, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(s.ID(), roomID)
}

func (h *MemoryHub) LeaveAll(s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for roomID := range h.members[s.ID()] {
		h.leaveLocked(s.ID(), roomID)
	}
	delete(h.members, s.ID())

	logging.L().Debug().
		Str("session_id", s.ID()).
		Str("user_id", s.UserID()).
		Msg("session left all rooms")
}

func (h *MemoryHub) leaveLocked(sessionID, roomID string) {
	if room, ok := h.rooms[roomID]; ok {
		delete(room, sessionID)
		if len(room) == 0 {
			delete(h.rooms, roomID)
		}
	}
	if joined, ok := h.members[sessionID]; ok {
		delete(joined, roomID)
	}
}

func (h *MemoryHub) Broadcast(roomID, event string, payload any) {
	h.BroadcastExcept(roomID, event, payload, nil)
}

func (h *MemoryHub) BroadcastExcept(roomID, event string, payload any, except Session) {
	evt, err := models.NewEvent(event, payload)
	if err != nil {
		logging.L().Error().Err(err).Str("event", event).Msg("failed to encode broadcast payload")
		return
	}

	for _, s := range h.roomSnapshot(roomID) {
		if except != nil && s.ID() == except.ID() {
			continue
		}
		// Fire and forget: a full or closed handle is dropped here and
		// evicted from all rooms when its disconnect lands.
		if err := s.Send(evt); err != nil {
			logging.L().Debug().
				Str("session_id", s.ID()).
				Str("room_id", roomID).
				Str("event", event).
				Msg("dropped event for unreachable session")
		}
	}
}

// RoomSize returns the number of sessions currently in a room.
func (h *MemoryHub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

func (h *MemoryHub) roomSnapshot(roomID string) []Session {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room := h.rooms[roomID]
	if len(room) == 0 {
		return nil
	}
	sessions := make([]Session, 0, len(room))
	for _, s := range room {
		sessions = append(sessions, s)
	}
	return sessions
}
