package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rautela2003/realtime-chat-app/auth"
	"github.com/rautela2003/realtime-chat-app/domain"
	apperrors "github.com/rautela2003/realtime-chat-app/errors"
	"github.com/rautela2003/realtime-chat-app/mailer"
	"github.com/rautela2003/realtime-chat-app/repositories"
)

type IAuthService interface {
	RequestOtp(ctx context.Context, email string) error
	VerifyOtp(ctx context.Context, email, otp, username string) (Token, domain.Identity, error)
}

type Token string

// AuthService drives the challenge lifecycle for one email:
// no challenge -> issued -> verified, expired or exhausted. Expiry and
// the attempt budget are evaluated at verification time, never by a
// timer.
type AuthService struct {
	otps   repositories.IOtpRepository
	users  repositories.IUserRepository
	tokens *auth.TokenService
	mail   mailer.Mailer
	log    *slog.Logger
	now    func() time.Time
}

func NewAuthService(otps repositories.IOtpRepository, users repositories.IUserRepository,
	tokens *auth.TokenService, mail mailer.Mailer, log *slog.Logger) *AuthService {
	return &AuthService{
		otps:   otps,
		users:  users,
		tokens: tokens,
		mail:   mail,
		log:    log,
		now:    time.Now,
	}
}

// RequestOtp issues a fresh challenge unless the email has exhausted
// its rolling request window. A rejected request records nothing.
func (s *AuthService) RequestOtp(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if err := auth.ValidateRequestOtp(auth.RequestOtpRequest{Email: email}); err != nil {
		return err
	}

	recent, err := s.otps.CountRecent(email, domain.OtpRequestWindow)
	if err != nil {
		return err
	}
	if recent >= domain.OtpMaxRequests {
		return apperrors.ErrRateLimited
	}

	passcode, err := auth.GeneratePasscode()
	if err != nil {
		return err
	}
	hash, err := auth.HashPasscode(passcode)
	if err != nil {
		return err
	}
	challenge := domain.OtpChallenge{
		ID:        uuid.New(),
		Email:     email,
		CodeHash:  hash,
		CreatedAt: s.now().UTC(),
	}
	if err = s.otps.Put(challenge); err != nil {
		return err
	}

	// Mail failure is logged, not surfaced: the challenge exists and the
	// user can retry delivery by requesting again.
	if err = s.mail.SendOtp(ctx, email, passcode); err != nil {
		s.log.Error("OTP mail delivery failed", "email", email, "error", err)
	}
	return nil
}

// VerifyOtp validates a candidate passcode against the newest challenge
// for the email. Outcomes:
//   - wrong passcode: attempt counted, ErrInvalidOtp, or
//     ErrTooManyAttempts once the budget is spent;
//   - stale or missing challenge: ErrInvalidOrExpired;
//   - correct passcode for an unknown email without a username:
//     ErrNeedsUsername, attempt not counted, challenge left intact;
//   - success: challenge consumed, identity created if needed, session
//     token minted.
func (s *AuthService) VerifyOtp(ctx context.Context, email, otp, username string) (Token, domain.Identity, error) {
	email = domain.NormalizeEmail(email)
	if err := auth.ValidateVerifyOtp(auth.VerifyOtpRequest{Email: email, Otp: otp, Username: username}); err != nil {
		return "", domain.Identity{}, err
	}

	challenge, err := s.otps.Current(email)
	if err != nil {
		return "", domain.Identity{}, apperrors.ErrInvalidOrExpired
	}
	if challenge.ExpiredAt(s.now()) {
		return "", domain.Identity{}, apperrors.ErrInvalidOrExpired
	}
	if challenge.Exhausted() {
		return "", domain.Identity{}, apperrors.ErrTooManyAttempts
	}

	if !auth.ComparePasscode(otp, challenge.CodeHash) {
		if err = s.otps.IncrementAttempts(challenge); err != nil {
			s.log.Warn("Failed to record OTP attempt", "email", email, "error", err)
		}
		if challenge.Attempts+1 >= domain.OtpMaxAttempts {
			return "", domain.Identity{}, apperrors.ErrTooManyAttempts
		}
		return "", domain.Identity{}, apperrors.ErrInvalidOtp
	}

	identity, err := s.users.GetByEmail(email)
	if err != nil {
		// First verification for this email: a username must arrive in
		// the same request. Asking for one is a next step, not a failed
		// attempt, so the challenge stays issued and uncounted.
		if username == "" {
			return "", domain.Identity{}, apperrors.ErrNeedsUsername
		}
		identity = domain.Identity{
			ID:        uuid.New(),
			Email:     email,
			Username:  username,
			CreatedAt: s.now().UTC(),
		}
		if err = s.users.Create(identity); err != nil {
			return "", domain.Identity{}, err
		}
	}

	// Single use: the matched challenge is gone before the token exists.
	if err = s.otps.Delete(challenge); err != nil {
		s.log.Warn("Failed to delete consumed challenge", "email", email, "error", err)
	}

	token, err := s.tokens.Issue(identity)
	if err != nil {
		return "", domain.Identity{}, err
	}
	return Token(token), identity, nil
}
