package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rautela2003/realtime-chat-app/domain"
	apperrors "github.com/rautela2003/realtime-chat-app/errors"
)

// SessionClaims is the payload of a session token. Tokens are stateless:
// validity is signature plus expiry only, so a token cannot be revoked
// before its natural expiry.
type SessionClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService mints and validates signed, time-bounded session tokens.
type TokenService struct {
	secret   []byte
	duration time.Duration
}

func NewTokenService(secret string, duration time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), duration: duration}
}

// Issue creates a signed JWT for a verified identity using HS256.
func (s *TokenService) Issue(identity domain.Identity) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		UserID:   identity.ID.String(),
		Email:    identity.Email,
		Username: identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "realtime-chat-app",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses a token string and checks signature and expiry.
// Malformed, badly signed and expired tokens all map to ErrAuthToken so
// the transport layer refuses them uniformly.
func (s *TokenService) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, apperrors.ErrAuthToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrAuthToken
	}
	return claims, nil
}
