package sendpasswordresettoken

import (
	ratelimiter "accounts/internal/core/domain/rate_limiter"
	"accounts/internal/core/domain/user"
	service "accounts/internal/core/services/send_password_reset_token"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const VALID_BODY = `{"national_id": "29001011234567", "method": "email"}`

type stubService struct {
	err   error
	input *service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	s.input = &input
	result = service.Result{Reset: user.PasswordReset{Token: "aB3dE9"}, Method: input.Method}
	return result, s.err
}

func TestTokenSent(t *testing.T) {
	s := &stubService{}
	rr := httptest.NewRecorder()

	New(s, false).ServeHTTP(
		rr,
		httptest.NewRequest(http.MethodPost, "/auth/password_reset/token", strings.NewReader(VALID_BODY)),
	)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, service.Input{NationalID: "29001011234567", Method: user.DeliveryMethodEmail}, *s.input)
	require.Empty(t, rr.Header().Get(TEST_TOKEN_HEADER))
	require.JSONEq(t, `{"message": "Password reset token sent via email"}`, rr.Body.String())
}

func TestTokenIsExposedInTestMode(t *testing.T) {
	rr := httptest.NewRecorder()

	New(&stubService{}, true).ServeHTTP(
		rr,
		httptest.NewRequest(http.MethodPost, "/auth/password_reset/token", strings.NewReader(VALID_BODY)),
	)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "aB3dE9", rr.Header().Get(TEST_TOKEN_HEADER))
}

func TestErrors(t *testing.T) {
	cases := []struct {
		id     string
		body   string
		err    error
		status int
	}{
		{id: "invalid json", body: `{`, status: http.StatusBadRequest},
		{id: "missing method", body: `{"national_id": "29001011234567"}`, status: http.StatusBadRequest},
		{id: "invalid national id", body: `{"national_id": "abc", "method": "email"}`, status: http.StatusBadRequest},
		{id: "user not found", body: VALID_BODY, err: user.ErrUserDoesNotExist, status: http.StatusNotFound},
		{
			id:     "unsupported method",
			body:   `{"national_id": "29001011234567", "method": "pigeon"}`,
			err:    user.ErrUnsupportedDeliveryMethod,
			status: http.StatusUnprocessableEntity,
		},
		{
			id:     "delivery failed",
			body:   VALID_BODY,
			err:    fmt.Errorf("%w: %v", user.ErrDeliveryFailed, errors.New("ses is down")),
			status: http.StatusBadGateway,
		},
		{
			id:     "rate limit",
			body:   VALID_BODY,
			err:    ratelimiter.ErrRateLimitExceeded,
			status: http.StatusTooManyRequests,
		},
		{id: "internal", body: VALID_BODY, err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			rr := httptest.NewRecorder()

			New(&stubService{err: testcase.err}, true).ServeHTTP(
				rr,
				httptest.NewRequest(http.MethodPost, "/auth/password_reset/token", strings.NewReader(testcase.body)),
			)

			require.Equal(t, testcase.status, rr.Code)
			require.Empty(t, rr.Header().Get(TEST_TOKEN_HEADER))
		})
	}
}
