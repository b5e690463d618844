package httpapi

import (
	"encoding/json"
	"net/http"
)

type requestOtpBody struct {
	Email string `json:"email"`
}

type verifyOtpBody struct {
	Email    string `json:"email"`
	Otp      string `json:"otp"`
	Username string `json:"username"`
}

type userBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type verifyOtpResponse struct {
	Token string   `json:"token"`
	User  userBody `json:"user"`
}

func (h *handlers) requestOtp(w http.ResponseWriter, r *http.Request) {
	var body requestOtpBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Email is required"})
		return
	}
	if err := h.auth.RequestOtp(r.Context(), body.Email); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent successfully"})
}

func (h *handlers) verifyOtp(w http.ResponseWriter, r *http.Request) {
	var body verifyOtpBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" || body.Otp == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Email and OTP are required"})
		return
	}
	token, identity, err := h.auth.VerifyOtp(r.Context(), body.Email, body.Otp, body.Username)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyOtpResponse{
		Token: string(token),
		User:  userBody{Username: identity.Username, Email: identity.Email},
	})
}
