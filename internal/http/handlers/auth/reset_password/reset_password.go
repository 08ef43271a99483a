package resetpassword

import (
	e "accounts/internal/core/domain/errors"
	ratelimiter "accounts/internal/core/domain/rate_limiter"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	service "accounts/internal/core/services/reset_password"
	"accounts/internal/http/handlers/response"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
)

var nationalIDRegexp = regexp.MustCompile(`^\d{14}$`)

type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(service services.Service[service.Input, service.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	NationalID string `json:"national_id"`
	Token      string `json:"token"`
	Password   string `json:"password"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(
			&i.NationalID,
			validation.Required,
			validation.Match(nationalIDRegexp).Error("must consist of exactly 14 digits"),
		),
		validation.Field(&i.Token, validation.Required, validation.Length(0, 64)),
		validation.Field(&i.Password, validation.Required, validation.Length(1, 72)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderInvalidRequest(rw)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	_, err := h.service.Run(
		r.Context(),
		service.Input{
			NationalID:  user.NationalID(input.NationalID),
			Token:       user.PasswordResetToken(input.Token),
			NewPassword: user.RawPassword(input.Password),
		},
	)
	if err != nil {
		switch {
		case errors.Is(err, ratelimiter.ErrRateLimitExceeded):
			response.RenderRateLimitExceeded(rw)
		case errors.Is(err, user.ErrUserDoesNotExist):
			response.RenderError(rw, "user not found", http.StatusNotFound)
		case errors.Is(err, user.ErrInvalidPasswordResetToken):
			response.RenderError(rw, "invalid or expired token", http.StatusUnprocessableEntity)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	response.RenderMessage(rw, "Password has been reset successfully", http.StatusOK)
}
