package register

import (
	c "accounts/internal/core/domain/common"
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	signup "accounts/internal/core/services/sign_up"
	"accounts/internal/http/handlers/response"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var (
	nationalIDRegexp = regexp.MustCompile(`^\d{14}$`)
	phoneRegexp      = regexp.MustCompile(`^\d{11}$`)
)

type Handler struct {
	service services.Service[signup.Input, signup.Result]
}

func New(service services.Service[signup.Input, signup.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	NationalID string `json:"national_id"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name, validation.Required, validation.Length(1, 256)),
		validation.Field(
			&i.Phone,
			validation.Required,
			validation.Match(phoneRegexp).Error("must consist of exactly 11 digits"),
		),
		validation.Field(
			&i.NationalID,
			validation.Required,
			validation.Match(nationalIDRegexp).Error("must consist of exactly 14 digits"),
		),
		validation.Field(&i.Email, validation.Required, is.Email, validation.Length(0, 512)),
		validation.Field(&i.Password, validation.Required, validation.Length(1, 72)),
	)
}

type Result struct {
	Message string        `json:"message"`
	User    response.User `json:"user"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderInvalidRequest(rw)
		return
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		signup.Input{
			Name:       input.Name,
			Phone:      user.Phone(input.Phone),
			NationalID: user.NationalID(input.NationalID),
			Email:      c.NewEmail(input.Email),
			Password:   user.RawPassword(input.Password),
		},
	)
	switch {
	case errors.Is(err, user.ErrNationalIDAlreadyExists):
		response.RenderError(rw, "national id already registered", http.StatusConflict)
		return
	case errors.Is(err, user.ErrEmailAlreadyExists):
		response.RenderError(rw, "email already registered", http.StatusConflict)
		return
	case err != nil:
		response.RenderInternalError(rw)
		return
	}

	u := response.User{}
	u.FromDomainUser(result.User)
	response.Render(rw, Result{Message: "User registered successfully", User: u}, http.StatusCreated)
}
