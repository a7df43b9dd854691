package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"
)

// Queue names used for domain events and the mail outbox.
const (
	QueuePaymentEvents = "payment_events"
	QueueMail          = "mail"
)

// Event types carried on QueuePaymentEvents and QueueMail.
const (
	EventPaymentVerified = "payment.verified"
	EventCartCompleted   = "cart.completed"
	EventPasswordReset   = "password_reset"
)

// EventPublisher delivers a JSON payload to a named queue.
type EventPublisher interface {
	Publish(queue string, payload interface{}) error
}

// Event is the envelope for everything published by the services.
type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

// PasswordResetMail is the mail outbox payload for a reset request.
type PasswordResetMail struct {
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	ResetLink string    `json:"resetLink"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LogPublisher writes events to the standard logger. It stands in for the
// broker when RabbitMQ is disabled. Reset links are redacted.
type LogPublisher struct{}

func (LogPublisher) Publish(queue string, payload interface{}) error {
	if event, ok := payload.(Event); ok {
		if mail, ok := event.Data.(PasswordResetMail); ok {
			mail.ResetLink = redactLink(mail.ResetLink)
			event.Data = mail
			payload = event
		}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	log.Printf("[%s] %s", queue, body)
	return nil
}

// redactLink drops the query string, which carries the reset secret.
func redactLink(link string) string {
	if i := strings.IndexByte(link, '?'); i >= 0 {
		return link[:i] + "?token=[redacted]"
	}
	return link
}

// publish sends an event and only logs failures; callers have already committed.
func publish(p EventPublisher, queue, eventType string, data interface{}) {
	if p == nil {
		return
	}
	event := Event{Type: eventType, OccurredAt: time.Now().UTC(), Data: data}
	if err := p.Publish(queue, event); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
