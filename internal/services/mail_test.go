package services_test

import (
	"encoding/json"
	"testing"
	"time"

	"luxe/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMail struct {
	to, subject, body string
}

type captureSender struct {
	sent []capturedMail
}

func (s *captureSender) Send(to, subject, body string) error {
	s.sent = append(s.sent, capturedMail{to, subject, body})
	return nil
}

func TestMailWorker_PasswordReset(t *testing.T) {
	sender := &captureSender{}
	worker := services.NewMailWorker(sender)

	body, err := json.Marshal(services.Event{
		Type:       services.EventPasswordReset,
		OccurredAt: time.Now(),
		Data: services.PasswordResetMail{
			Email:     "alice@example.com",
			Username:  "alice",
			ResetLink: "http://localhost:5173/reset-password?token=abc.def",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	})
	require.NoError(t, err)

	require.NoError(t, worker.Handle(body))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "alice@example.com", sender.sent[0].to)
	assert.Contains(t, sender.sent[0].body, "token=abc.def")
}

func TestMailWorker_SkipsUnknownTypes(t *testing.T) {
	sender := &captureSender{}
	worker := services.NewMailWorker(sender)

	assert.NoError(t, worker.Handle([]byte(`{"type":"newsletter","data":{}}`)))
	assert.Empty(t, sender.sent)
}

func TestMailWorker_RejectsMalformed(t *testing.T) {
	worker := services.NewMailWorker(&captureSender{})

	assert.Error(t, worker.Handle([]byte(`not json`)))
	assert.Error(t, worker.Handle([]byte(`{"type":"password_reset","data":{"email":""}}`)))
}
