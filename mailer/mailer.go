//go:generate go run go.uber.org/mock/mockgen -source=mailer.go -destination=../mocks/mock_mailer.go -package=mocks
// Package mailer is the boundary to the outbound mail collaborator.
// Delivery itself is outside the core: the engine only hands a passcode
// over and logs failures, it never fails an OTP request on mail errors.
package mailer

import (
	"context"
	"log/slog"
)

type Mailer interface {
	SendOtp(ctx context.Context, email, passcode string) error
}

// LogMailer is the development sink used when no relay is configured.
// The passcode goes to Debug only; Info confirms dispatch without it,
// since a cleartext echo is unacceptable in production logs.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendOtp(_ context.Context, email, passcode string) error {
	m.log.Info("OTP dispatched", "to", email)
	m.log.Debug("OTP passcode (dev only)", "to", email, "passcode", passcode)
	return nil
}
