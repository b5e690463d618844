package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// OtpTTL is how long a challenge stays verifiable after issuance.
	OtpTTL = 5 * time.Minute
	// OtpMaxAttempts is the number of wrong passcodes a single challenge
	// tolerates before it is permanently exhausted.
	OtpMaxAttempts = 5
	// OtpRequestWindow and OtpMaxRequests bound challenge creation per
	// email: at most OtpMaxRequests challenges per rolling window.
	OtpRequestWindow = time.Hour
	OtpMaxRequests   = 10
)

// OtpChallenge is a hashed one-time passcode issued for an email.
// The cleartext passcode never appears here; CodeHash is a bcrypt hash.
// Later challenges for the same email supersede earlier ones: only the
// newest challenge is consulted at verification time.
type OtpChallenge struct {
	ID        uuid.UUID
	Email     string
	CodeHash  string
	Attempts  int
	CreatedAt time.Time
}

// ExpiredAt reports whether the challenge is past its TTL at the given
// instant. Expiry is evaluated at use, never by a scheduled timer.
func (c OtpChallenge) ExpiredAt(now time.Time) bool {
	return now.Sub(c.CreatedAt) > OtpTTL
}

// Exhausted reports whether the attempt budget is spent. An exhausted
// challenge never validates again, regardless of passcode correctness.
func (c OtpChallenge) Exhausted() bool {
	return c.Attempts >= OtpMaxAttempts
}
