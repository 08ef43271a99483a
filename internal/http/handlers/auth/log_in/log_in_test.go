package login

import (
	ratelimiter "accounts/internal/core/domain/rate_limiter"
	"accounts/internal/core/domain/user"
	service "accounts/internal/core/services/log_in"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const VALID_BODY = `{"national_id": "29001011234567", "password": "secret"}`

var EXPIRES_AT = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

type stubService struct {
	err   error
	input *service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	s.input = &input
	if s.err != nil {
		return result, s.err
	}
	result.Session = user.Session{Token: "jwt", NationalID: input.NationalID, ExpiresAt: EXPIRES_AT}
	return result, nil
}

func TestLogInSuccess(t *testing.T) {
	s := &stubService{}
	rr := httptest.NewRecorder()

	New(s).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(VALID_BODY)))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, service.Input{NationalID: "29001011234567", Password: "secret"}, *s.input)

	var result Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	require.Equal(t, Result{AccessToken: "jwt", TokenType: "bearer", ExpiresAt: EXPIRES_AT}, result)
}

func TestLogInErrors(t *testing.T) {
	cases := []struct {
		id     string
		body   string
		err    error
		status int
	}{
		{id: "invalid json", body: `[`, status: http.StatusBadRequest},
		{id: "missing password", body: `{"national_id": "29001011234567"}`, status: http.StatusBadRequest},
		{id: "invalid national id", body: `{"national_id": "1", "password": "p"}`, status: http.StatusBadRequest},
		{id: "invalid credentials", body: VALID_BODY, err: user.ErrInvalidCredentials, status: http.StatusUnauthorized},
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

			New(&stubService{err: testcase.err}).ServeHTTP(
				rr,
				httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(testcase.body)),
			)

			require.Equal(t, testcase.status, rr.Code)
		})
	}
}
