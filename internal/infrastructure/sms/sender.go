// Package sms integrates with an SMS gateway for outbound texts and verifies
// signed inbound webhooks from the gateway.
package sms

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dealercrm/backend/internal/infrastructure/logger"
)

// SendResult is what the gateway reports for a single outbound message.
type SendResult struct {
	ExternalID string
	Accepted   bool
	Detail     string
}

// Sender delivers a text message to a phone number. Implementations wrap a
// concrete gateway; a failed send must come back as an error, not a panic.
type Sender interface {
	Send(ctx context.Context, to, from, body string) (SendResult, error)
}

// LogSender writes outbound messages to the log instead of a gateway. Used
// in development and whenever SMS is disabled in configuration.
type LogSender struct {
	mu   sync.Mutex
	sent []SentMessage
}

// SentMessage is an outbound message captured by LogSender.
type SentMessage struct {
	To   string
	From string
	Body string
}

// NewLogSender creates a sender that records instead of delivering.
func NewLogSender() *LogSender {
	return &LogSender{}
}

// Send records the message and reports it as accepted.
func (s *LogSender) Send(ctx context.Context, to, from, body string) (SendResult, error) {
	if to == "" {
		return SendResult{}, fmt.Errorf("sms: recipient number is required")
	}

	s.mu.Lock()
	s.sent = append(s.sent, SentMessage{To: to, From: from, Body: body})
	s.mu.Unlock()

	logger.FromContext(ctx).Info("sms send (log only)")

	return SendResult{
		ExternalID: "log-" + uuid.New().String(),
		Accepted:   true,
	}, nil
}

// Sent returns a copy of every message captured so far.
func (s *LogSender) Sent() []SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SentMessage, len(s.sent))
	copy(out, s.sent)
	return out
}

var _ Sender = (*LogSender)(nil)
