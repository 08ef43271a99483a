package auth

import (
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services/auth"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseToken(t *testing.T) {
	cases := []struct {
		header   string
		expected user.SessionToken
		ok       bool
	}{
		{header: "Bearer abc.def.ghi", expected: "abc.def.ghi", ok: true},
		{header: "bearer abc.def.ghi", expected: "abc.def.ghi", ok: true},
		{header: "  Bearer   abc  ", expected: "abc", ok: true},
		{header: "", ok: false},
		{header: "Bearer", ok: false},
		{header: "Bearer ", ok: false},
		{header: "Basic dXNlcjpwYXNz", ok: false},
		{header: "abc.def.ghi", ok: false},
		{header: "Bearer " + strings.Repeat("a", AUTH_TOKEN_MAX_LEN+1), ok: false},
	}

	for _, testcase := range cases {
		t.Run(testcase.header, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if testcase.header != "" {
				r.Header.Set("Authorization", testcase.header)
			}

			token, ok := ParseToken(r)

			require.Equal(t, testcase.ok, ok)
			require.Equal(t, testcase.expected, token)
		})
	}
}

func TestSetAuthTokenToContext(t *testing.T) {
	var fromContext interface{}
	handler := SetAuthTokenToContext(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromContext = r.Context().Value(auth.CONTEXT_AUTH_TOKEN_KEY)
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer token")
	handler.ServeHTTP(httptest.NewRecorder(), r)
	require.Equal(t, user.SessionToken("token"), fromContext)

	fromContext = nil
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Nil(t, fromContext)
}
