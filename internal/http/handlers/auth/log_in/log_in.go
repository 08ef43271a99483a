package login

import (
	e "accounts/internal/core/domain/errors"
	ratelimiter "accounts/internal/core/domain/rate_limiter"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	service "accounts/internal/core/services/log_in"
	"accounts/internal/http/handlers/response"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"time"

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
		validation.Field(&i.Password, validation.Required, validation.Length(0, 72)),
	)
}

type Result struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
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

	result, err := h.service.Run(
		r.Context(),
		service.Input{
			NationalID: user.NationalID(input.NationalID),
			Password:   user.RawPassword(input.Password),
		},
	)
	if errors.Is(err, ratelimiter.ErrRateLimitExceeded) {
		response.RenderRateLimitExceeded(rw)
		return
	}
	if errors.Is(err, user.ErrInvalidCredentials) {
		response.RenderError(rw, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	response.Render(
		rw,
		Result{
			AccessToken: string(result.Session.Token),
			TokenType:   "bearer",
			ExpiresAt:   result.Session.ExpiresAt,
		},
		http.StatusOK,
	)
}
