// Package domain contains core concepts of the chat system.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Identity is a registered user, created on the first successful OTP
// verification. Email and Username are immutable unique keys; only the
// presence fields change afterwards. Identities are never hard-deleted.
type Identity struct {
	ID           uuid.UUID
	Email        string
	Username     string
	Online       bool
	ConnectionID string
	CreatedAt    time.Time
}

// NormalizeEmail lowercases and trims an email so that the same address
// always maps to the same Identity and OTP challenge bucket.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
