package services

import (
	"encoding/json"
	"fmt"
	"log"
)

// MailSender delivers one message to one recipient.
type MailSender interface {
	Send(to, subject, body string) error
}

// LogMailSender writes outgoing mail to the standard logger.
type LogMailSender struct{}

func (LogMailSender) Send(to, subject, body string) error {
	log.Printf("Mail to %s: %s\n%s", to, subject, body)
	return nil
}

// MailWorker renders events from the mail queue and hands them to a sender.
type MailWorker struct {
	sender MailSender
}

// NewMailWorker creates a new MailWorker.
func NewMailWorker(sender MailSender) *MailWorker {
	return &MailWorker{sender: sender}
}

// Handle processes one raw message from QueueMail. Unknown event types are
// skipped; malformed messages return an error so the broker can drop them.
func (w *MailWorker) Handle(body []byte) error {
	var envelope struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode mail event: %w", err)
	}

	switch envelope.Type {
	case EventPasswordReset:
		var mail PasswordResetMail
		if err := json.Unmarshal(envelope.Data, &mail); err != nil {
			return fmt.Errorf("failed to decode password reset mail: %w", err)
		}
		if mail.Email == "" || mail.ResetLink == "" {
			return fmt.Errorf("password reset mail is missing recipient or link")
		}
		text := fmt.Sprintf(
			"Hi %s,\n\nUse the link below to reset your password. It expires at %s.\n\n%s\n",
			mail.Username, mail.ExpiresAt.Format("2006-01-02 15:04 MST"), mail.ResetLink,
		)
		return w.sender.Send(mail.Email, "Reset your password", text)
	default:
		log.Printf("Skipping mail event of type %q", envelope.Type)
		return nil
	}
}
