package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propchat/backend/internal/models"
)

func TestRoleValid(t *testing.T) {
	assert.True(t, models.RoleUser.Valid())
	assert.True(t, models.RoleAdmin.Valid())
	assert.False(t, models.Role("moderator").Valid())
	assert.False(t, models.Role("").Valid())
}

func TestHasParticipant(t *testing.T) {
	session := models.ChatSession{Participants: []string{"user_A", "user_B"}}

	assert.True(t, session.HasParticipant("user_A"))
	assert.False(t, session.HasParticipant("user_C"))
	assert.False(t, session.HasParticipant(""))
}

func TestEmptyContent(t *testing.T) {
	assert.True(t, models.EmptyContent(""))
	assert.True(t, models.EmptyContent("   \t\n"))
	assert.False(t, models.EmptyContent("hello"))
	assert.False(t, models.EmptyContent("  hi  "))
}

func TestNewEvent(t *testing.T) {
	evt, err := models.NewEvent(models.EventReceiveMessage, models.ChatMessage{
		Sender:     models.RoleUser,
		SenderName: "Alice",
		Content:    "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "receiveMessage", evt.Event)

	raw, err := json.Marshal(evt)
	require.NoError(t, err)
	// Message ids and chat ids are internal; only the display fields travel.
	assert.NotContains(t, string(raw), `"chatId"`)
	assert.Contains(t, string(raw), `"senderName":"Alice"`)
}

func TestEventRoundTrip(t *testing.T) {
	raw := []byte(`{"event":"joinChat","data":{"chatId":"chat1"}}`)

	var evt models.Event
	require.NoError(t, json.Unmarshal(raw, &evt))
	assert.Equal(t, models.EventJoinChat, evt.Event)

	var payload models.JoinChatPayload
	require.NoError(t, json.Unmarshal(evt.Data, &payload))
	assert.Equal(t, "chat1", payload.ChatID)
}
