package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"propchat/backend/internal/config"
	"propchat/backend/internal/logging"
	"propchat/backend/internal/models"
)

// Summary is the template input for a closed-chat email: the full persisted
// message log plus display names, assembled by the session service.
type Summary struct {
	ChatID        string
	PropertyTitle string
	Participants  []string
	ClosedAt      time.Time
	Messages      []models.ChatMessage
}

// Mailer is the narrow outbound-email capability this service consumes.
// Failures are logged by callers and never propagated to users.
type Mailer interface {
	SendChatSummary(ctx context.Context, to string, summary Summary) error
}

// SMTPMailer sends summaries over plain SMTP.
type SMTPMailer struct {
	cfg  config.SMTPConfig
	tmpl *template.Template
}

// NewSMTPMailer parses the summary template once up front.
func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	tmpl, err := template.New("chat_summary").Parse(summaryTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse summary template: %w", err)
	}
	return &SMTPMailer{cfg: cfg, tmpl: tmpl}, nil
}

func (m *SMTPMailer) SendChatSummary(ctx context.Context, to string, summary Summary) error {
	if to == "" {
		to = m.cfg.SummaryTo
	}
	if to == "" {
		return fmt.Errorf("no recipient for chat summary %s", summary.ChatID)
	}

	var body bytes.Buffer
	if err := m.tmpl.Execute(&body, summary); err != nil {
		return fmt.Errorf("failed to render summary for chat %s: %w", summary.ChatID, err)
	}

	msg := bytes.Buffer{}
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: Chat summary for %s\r\n", summary.PropertyTitle)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg.Bytes())
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send summary for chat %s: %w", summary.ChatID, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogMailer is the no-op implementation used when SMTP is disabled: it
// records the dispatch so closed chats remain observable in development.
type LogMailer struct{}

func (LogMailer) SendChatSummary(ctx context.Context, to string, summary Summary) error {
	logging.L().Info().
		Str("chat_id", summary.ChatID).
		Str("to", to).
		Int("messages", len(summary.Messages)).
		Msg("smtp disabled, skipping chat summary email")
	return nil
}

const summaryTemplate = `<!DOCTYPE html>
<html>
  <body>
    <h2>Support chat summary: {{.PropertyTitle}}</h2>
    <p>Chat {{.ChatID}} was closed at {{.ClosedAt.Format "2006-01-02 15:04 MST"}}.</p>
    <p>Participants: {{range $i, $p := .Participants}}{{if $i}}, {{end}}{{$p}}{{end}}</p>
    <table cellpadding="6">
      <tr><th align="left">Time</th><th align="left">From</th><th align="left">Message</th></tr>
      {{range .Messages}}
      <tr>
        <td>{{.Timestamp.Format "15:04:05"}}</td>
        <td>{{.SenderName}} ({{.Sender}})</td>
        <td>{{.Content}}</td>
      </tr>
      {{end}}
    </table>
  </body>
</html>`
