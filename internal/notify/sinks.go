package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"

	"github.com/AlvaroMonteroB/bellinati-negocia/internal/config"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/models"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/observability"
)

// EmailSink sends escalation events by SMTP. Success tags are not
// emailed; email is reserved for cases needing a human.
type EmailSink struct {
	host string
	port int
	user string
	pass string
	from string
	to   string
}

// NewEmailSink returns nil when SMTP is not configured, which callers
// treat as "sink absent".
func NewEmailSink(cfg *config.Config) *EmailSink {
	if cfg.SMTPHost == "" || cfg.EmailFrom == "" || cfg.EmailTo == "" {
		return nil
	}
	return &EmailSink{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.EmailFrom,
		to:   cfg.EmailTo,
	}
}

// Name implements Sink.
func (s *EmailSink) Name() string { return "email" }

// Wants implements Sink.
func (s *EmailSink) Wants(tag models.StatusTag) bool { return tag.IsEscalation() }

// Deliver implements Sink.
func (s *EmailSink) Deliver(_ context.Context, event Event) error {
	subject := fmt.Sprintf("[TRANSBORDO] %s — %s", event.Tag, observability.MaskPhone(event.Phone))
	body := fmt.Sprintf(
		"Transbordo registrado.\r\n\r\nTag: %s\r\nTelefone: %s\r\nCPF: %s\r\nDetalhe: %s\r\nQuando: %s\r\nEvento: %s\r\n",
		event.Tag, event.Phone, event.Document, event.Detail,
		event.At.Format("2006-01-02 15:04:05 MST"), event.ID)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		s.from, s.to, subject, body)

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	return smtp.SendMail(addr, auth, s.from, []string{s.to}, []byte(msg))
}

// SheetSink appends a row to an operator spreadsheet via a webhook URL
// (an Apps Script endpoint in production). It receives every terminal
// tag, success and escalation alike.
type SheetSink struct {
	url    string
	client *http.Client
}

// NewSheetSink returns nil when no webhook is configured.
func NewSheetSink(cfg *config.Config) *SheetSink {
	if cfg.SheetWebhookURL == "" {
		return nil
	}
	return &SheetSink{url: cfg.SheetWebhookURL, client: http.DefaultClient}
}

// Name implements Sink.
func (s *SheetSink) Name() string { return "sheet" }

// Wants implements Sink.
func (s *SheetSink) Wants(tag models.StatusTag) bool { return tag.IsTerminal() }

type sheetRow struct {
	EventID  string `json:"event_id"`
	Tag      string `json:"tag"`
	Phone    string `json:"phone"`
	Document string `json:"document"`
	Detail   string `json:"detail,omitempty"`
	At       string `json:"at"`
}

// Deliver implements Sink.
func (s *SheetSink) Deliver(ctx context.Context, event Event) error {
	row := sheetRow{
		EventID:  event.ID,
		Tag:      string(event.Tag),
		Phone:    event.Phone,
		Document: event.Document,
		Detail:   event.Detail,
		At:       event.At.Format("2006-01-02 15:04:05"),
	}
	encoded, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode sheet row: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build sheet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post sheet row: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sheet webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// ConfiguredSinks assembles the sinks the environment enables.
func ConfiguredSinks(cfg *config.Config) []Sink {
	var sinks []Sink
	if email := NewEmailSink(cfg); email != nil {
		sinks = append(sinks, email)
	}
	if sheet := NewSheetSink(cfg); sheet != nil {
		sinks = append(sinks, sheet)
	}
	return sinks
}
