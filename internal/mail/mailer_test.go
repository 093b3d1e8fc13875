package mail

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propchat/backend/internal/config"
	"propchat/backend/internal/models"
)

func TestSummaryTemplateRenders(t *testing.T) {
	m, err := NewSMTPMailer(config.SMTPConfig{From: "noreply@example.com"})
	require.NoError(t, err)

	summary := Summary{
		ChatID:        "chat1",
		PropertyTitle: "Seaside Apartment",
		Participants:  []string{"Alice", "Bob"},
		ClosedAt:      time.Date(2026, 5, 3, 14, 30, 0, 0, time.UTC),
		Messages: []models.ChatMessage{
			{Sender: models.RoleUser, SenderName: "Alice", Content: "is it still available?", Timestamp: time.Date(2026, 5, 3, 14, 0, 0, 0, time.UTC)},
			{Sender: models.RoleAdmin, SenderName: "Bob", Content: "yes, <b>come by</b>", Timestamp: time.Date(2026, 5, 3, 14, 5, 0, 0, time.UTC)},
		},
	}

	var body bytes.Buffer
	require.NoError(t, m.tmpl.Execute(&body, summary))
	html := body.String()

	assert.Contains(t, html, "Seaside Apartment")
	assert.Contains(t, html, "Alice, Bob")
	assert.Contains(t, html, "is it still available?")
	// Message content is escaped, never injected as markup.
	assert.Contains(t, html, "&lt;b&gt;come by&lt;/b&gt;")
	assert.NotContains(t, html, "<b>come by</b>")
}

func TestSMTPMailer_NoRecipient(t *testing.T) {
	m, err := NewSMTPMailer(config.SMTPConfig{})
	require.NoError(t, err)

	err = m.SendChatSummary(context.Background(), "", Summary{ChatID: "chat1"})
	assert.Error(t, err)
}

func TestSMTPMailer_FallbackRecipient(t *testing.T) {
	m, err := NewSMTPMailer(config.SMTPConfig{SummaryTo: "ops@example.com"})
	require.NoError(t, err)

	// The dial will fail (no server configured), but the empty recipient must
	// already have been replaced by the configured fallback.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err = m.SendChatSummary(ctx, "", Summary{ChatID: "chat1"})
	assert.Error(t, err)
	assert.NotContains(t, err.Error(), "no recipient")
}

func TestLogMailer(t *testing.T) {
	assert.NoError(t, LogMailer{}.SendChatSummary(context.Background(), "", Summary{ChatID: "chat1"}))
}
