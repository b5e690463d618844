package auth

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/rautela2003/realtime-chat-app/errors"
)

var validate = validator.New()

type RequestOtpRequest struct {
	Email string `validate:"required,email"`
}

type VerifyOtpRequest struct {
	Email    string `validate:"required,email"`
	Otp      string `validate:"required,len=6,numeric"`
	Username string `validate:"omitempty,min=2,max=32"`
}

type PostMessageRequest struct {
	Username string `validate:"required"`
	Text     string `validate:"required,max=2000"`
	Room     string `validate:"omitempty,max=64"`
}

func ValidateRequestOtp(req RequestOtpRequest) error {
	return wrap(validate.Struct(req))
}

func ValidateVerifyOtp(req VerifyOtpRequest) error {
	return wrap(validate.Struct(req))
}

func ValidatePostMessage(req PostMessageRequest) error {
	return wrap(validate.Struct(req))
}

// wrap folds validator details under the user-correctable sentinel so
// handlers can map every field problem to a 400 with errors.Is.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
}
