// Package httpapi is the REST boundary consumed by the UI collaborator.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/rautela2003/realtime-chat-app/errors"
	"github.com/rautela2003/realtime-chat-app/services"
)

// NewRouter wires the REST surface. The websocket endpoint is mounted
// by the caller so this package stays free of transport upgrades.
func NewRouter(log *slog.Logger, authService services.IAuthService, chatService services.IChatService) *http.ServeMux {
	h := &handlers{log: log, auth: authService, chat: chatService}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/request-otp", h.requestOtp)
	mux.HandleFunc("POST /auth/verify-otp", h.verifyOtp)
	mux.HandleFunc("GET /messages/latest", h.latestMessages)
	mux.HandleFunc("POST /messages", h.postMessage)
	return mux
}

type handlers struct {
	log  *slog.Logger
	auth services.IAuthService
	chat services.IChatService
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type errorBody struct {
	Error     string `json:"error"`
	IsNewUser bool   `json:"isNewUser,omitempty"`
}

// writeError maps the error taxonomy onto the boundary contract. Every
// user-facing failure carries an actionable message; anything
// unrecognized is an internal fault and stays generic.
func (h *handlers) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNeedsUsername):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), IsNewUser: true})
	case errors.Is(err, apperrors.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "Too many OTP requests. Try again later."})
	case errors.Is(err, apperrors.ErrInvalidOtp),
		errors.Is(err, apperrors.ErrTooManyAttempts),
		errors.Is(err, apperrors.ErrInvalidOrExpired),
		errors.Is(err, apperrors.ErrUsernameTaken),
		errors.Is(err, apperrors.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		h.log.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Server error"})
	}
}
