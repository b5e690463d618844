package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rautela2003/realtime-chat-app/auth"
	"github.com/rautela2003/realtime-chat-app/domain"
	"github.com/rautela2003/realtime-chat-app/mocks"
	"github.com/rautela2003/realtime-chat-app/repositories"
	"github.com/rautela2003/realtime-chat-app/runtime"
	"github.com/rautela2003/realtime-chat-app/services"
)

type apiFixture struct {
	server   *httptest.Server
	tokens   *auth.TokenService
	passcode *string
}

// newAPI assembles the whole surface on volatile stores so the tests
// exercise the real service logic end to end. The mailed passcode is
// captured instead of delivered.
func newAPI(t *testing.T) apiFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := slog.Default()

	var passcode string
	mail := mocks.NewMockMailer(ctrl)
	mail.EXPECT().SendOtp(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, sent string) error {
			passcode = sent
			return nil
		}).AnyTimes()

	users := repositories.NewMemoryUserRepository()
	tokens := auth.NewTokenService("handlers-test-secret", time.Hour)
	authService := services.NewAuthService(repositories.NewMemoryOtpRepository(), users, tokens, mail, log)

	registry := runtime.NewRegistry()
	orchestrator := runtime.NewOrchestrator(log, registry, runtime.NewBus(log, registry),
		runtime.NewTypingDebouncer(runtime.TypingInterval), users,
		repositories.NewMemoryMessageRepository(domain.HistoryLimit), false)

	server := httptest.NewServer(NewRouter(log, authService, services.NewChatService(orchestrator)))
	t.Cleanup(server.Close)
	return apiFixture{server: server, tokens: tokens, passcode: &passcode}
}

func (f apiFixture) post(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	encoded, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(f.server.URL+path, "application/json", bytes.NewReader(encoded))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRequestOtp(t *testing.T) {
	req := require.New(t)
	f := newAPI(t)

	t.Run("sends a passcode", func(t *testing.T) {
		resp := f.post(t, "/auth/request-otp", map[string]string{"email": "alice@example.com"})
		req.Equal(http.StatusOK, resp.StatusCode)
		body := decode[map[string]string](t, resp)
		req.Equal("OTP sent successfully", body["message"])
		req.Regexp(`^[0-9]{6}$`, *f.passcode)
	})

	t.Run("missing email", func(t *testing.T) {
		resp := f.post(t, "/auth/request-otp", map[string]string{})
		req.Equal(http.StatusBadRequest, resp.StatusCode)
		req.Equal("Email is required", decode[errorBody](t, resp).Error)
	})

	t.Run("malformed email", func(t *testing.T) {
		resp := f.post(t, "/auth/request-otp", map[string]string{"email": "not-an-address"})
		req.Equal(http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rate limited after ten requests", func(t *testing.T) {
		for i := 0; i < 9; i++ {
			resp := f.post(t, "/auth/request-otp", map[string]string{"email": "alice@example.com"})
			req.Equal(http.StatusOK, resp.StatusCode)
			resp.Body.Close()
		}
		resp := f.post(t, "/auth/request-otp", map[string]string{"email": "alice@example.com"})
		req.Equal(http.StatusTooManyRequests, resp.StatusCode)
	})
}

func TestVerifyOtp(t *testing.T) {
	req := require.New(t)
	f := newAPI(t)

	resp := f.post(t, "/auth/request-otp", map[string]string{"email": "bob@example.com"})
	req.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	t.Run("new identity needs a username first", func(t *testing.T) {
		resp := f.post(t, "/auth/verify-otp",
			map[string]string{"email": "bob@example.com", "otp": *f.passcode})
		req.Equal(http.StatusBadRequest, resp.StatusCode)
		body := decode[errorBody](t, resp)
		req.True(body.IsNewUser)
	})

	t.Run("retry with username mints a session", func(t *testing.T) {
		resp := f.post(t, "/auth/verify-otp",
			map[string]string{"email": "bob@example.com", "otp": *f.passcode, "username": "bob"})
		req.Equal(http.StatusOK, resp.StatusCode)
		body := decode[verifyOtpResponse](t, resp)
		req.Equal("bob", body.User.Username)
		req.Equal("bob@example.com", body.User.Email)

		claims, err := f.tokens.Validate(body.Token)
		req.NoError(err)
		req.Equal("bob", claims.Username)
	})

	t.Run("passcode is single use", func(t *testing.T) {
		resp := f.post(t, "/auth/verify-otp",
			map[string]string{"email": "bob@example.com", "otp": *f.passcode})
		req.Equal(http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing fields", func(t *testing.T) {
		resp := f.post(t, "/auth/verify-otp", map[string]string{"email": "bob@example.com"})
		req.Equal(http.StatusBadRequest, resp.StatusCode)
		req.Equal("Email and OTP are required", decode[errorBody](t, resp).Error)
	})
}

func TestMessages(t *testing.T) {
	req := require.New(t)
	f := newAPI(t)

	t.Run("post then replay oldest first", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			resp := f.post(t, "/messages",
				map[string]string{"username": "alice", "text": fmt.Sprintf("message %d", i)})
			req.Equal(http.StatusCreated, resp.StatusCode)
			posted := decode[messageBody](t, resp)
			req.Equal(string(domain.DefaultRoom), posted.Room)
		}

		resp, err := http.Get(f.server.URL + "/messages/latest")
		req.NoError(err)
		req.Equal(http.StatusOK, resp.StatusCode)
		history := decode[[]messageBody](t, resp)
		req.Len(history, 3)
		req.Equal("message 0", history[0].Text)
		req.Equal("message 2", history[2].Text)
	})

	t.Run("rejects an empty message", func(t *testing.T) {
		resp := f.post(t, "/messages", map[string]string{"username": "alice", "text": ""})
		req.Equal(http.StatusBadRequest, resp.StatusCode)
	})
}
