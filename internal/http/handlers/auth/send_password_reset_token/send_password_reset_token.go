package sendpasswordresettoken

import (
	e "accounts/internal/core/domain/errors"
	ratelimiter "accounts/internal/core/domain/rate_limiter"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	service "accounts/internal/core/services/send_password_reset_token"
	"accounts/internal/http/handlers/response"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
)

const TEST_TOKEN_HEADER = "x-test-password-reset-token"

var nationalIDRegexp = regexp.MustCompile(`^\d{14}$`)

type Handler struct {
	service    services.Service[service.Input, service.Result]
	isTestMode bool
}

func New(
	service services.Service[service.Input, service.Result],
	isTestMode bool,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, isTestMode: isTestMode}
}

type Input struct {
	NationalID string `json:"national_id"`
	Method     string `json:"method"`
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
		validation.Field(&i.Method, validation.Required, validation.Length(0, 32)),
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

	result, err := h.service.Run(
		r.Context(),
		service.Input{
			NationalID: user.NationalID(input.NationalID),
			Method:     user.DeliveryMethod(input.Method),
		},
	)
	if err != nil {
		switch {
		case errors.Is(err, ratelimiter.ErrRateLimitExceeded):
			response.RenderRateLimitExceeded(rw)
		case errors.Is(err, user.ErrUnsupportedDeliveryMethod):
			response.RenderError(rw, "unsupported delivery method", http.StatusUnprocessableEntity)
		case errors.Is(err, user.ErrUserDoesNotExist):
			response.RenderError(rw, "user not found", http.StatusNotFound)
		case errors.Is(err, user.ErrDeliveryFailed):
			response.RenderError(rw, "could not deliver password reset token", http.StatusBadGateway)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	if h.isTestMode {
		rw.Header().Set(TEST_TOKEN_HEADER, string(result.Reset.Token))
	}
	response.RenderMessage(rw, "Password reset token sent via "+string(result.Method), http.StatusOK)
}
