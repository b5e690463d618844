package errors

import "fmt"

var (
	// User-correctable request problems.
	ErrValidation    = fmt.Errorf("validation failed")
	ErrUsernameTaken = fmt.Errorf("username already taken")

	// OTP issuance and verification outcomes.
	ErrRateLimited      = fmt.Errorf("too many OTP requests")
	ErrInvalidOtp       = fmt.Errorf("invalid OTP")
	ErrTooManyAttempts  = fmt.Errorf("too many failed attempts")
	ErrInvalidOrExpired = fmt.Errorf("invalid or expired OTP")
	// ErrNeedsUsername is a required-next-step signal, not a failure:
	// the passcode was right but the email has no identity yet.
	ErrNeedsUsername = fmt.Errorf("username required for new registration")

	// ErrAuthToken refuses a connection before any event exchange.
	ErrAuthToken = fmt.Errorf("invalid or expired token")

	// Store lookups.
	ErrChallengeNotFound = fmt.Errorf("no OTP challenge found")
	ErrIdentityNotFound  = fmt.Errorf("identity not found")

	// ErrPersistence marks a durable-backend fault. It never reaches a
	// caller: the failover layer degrades to the volatile backend.
	ErrPersistence = fmt.Errorf("persistence unavailable")
)
