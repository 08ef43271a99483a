package login

import (
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	NATIONAL_ID = user.NationalID("12345678901234")
	PASSWORD    = user.RawPassword("p1")
	SESSION_TTL = 30 * time.Minute
)

var NOW = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type suite struct {
	log      *logging.FakeLogger
	userRepo *user.FakeUserRepository
	hasher   *user.FakePasswordHasher
	issuer   *user.FakeSessionIssuer
}

func setupSuite(t *testing.T) *suite {
	t.Helper()
	s := &suite{
		log:      logging.NewFakeLogger(),
		userRepo: user.NewFakeUserRepository(),
		hasher:   user.NewFakePasswordHasher(),
		issuer:   user.NewFakeSessionIssuer(SESSION_TTL, func() time.Time { return NOW }),
	}
	hash, err := s.hasher.HashPassword(PASSWORD)
	require.NoError(t, err)
	_, err = s.userRepo.Create(context.Background(), user.CreateUserInput{
		Name:         "A",
		Phone:        "01012345678",
		NationalID:   NATIONAL_ID,
		Email:        "a@x.com",
		PasswordHash: hash,
		CreatedAt:    NOW,
	})
	require.NoError(t, err)
	return s
}

func TestLogInSuccess(t *testing.T) {
	s := setupSuite(t)
	service := New(s.log, s.userRepo, s.hasher, s.issuer)

	result, err := service.Run(context.Background(), Input{NationalID: NATIONAL_ID, Password: PASSWORD})

	require.NoError(t, err)
	require.Equal(t, NATIONAL_ID, result.Session.NationalID)
	require.NotEmpty(t, result.Session.Token)
	require.True(t, result.Session.ExpiresAt.After(result.Session.IssuedAt))
	require.Equal(t, SESSION_TTL, result.Session.ExpiresAt.Sub(result.Session.IssuedAt))
}

func TestLogInInvalidCredentials(t *testing.T) {
	cases := []struct {
		id         string
		nationalID user.NationalID
		password   user.RawPassword
	}{
		{id: "wrong password", nationalID: NATIONAL_ID, password: "p2"},
		{id: "empty password", nationalID: NATIONAL_ID, password: ""},
		{id: "unknown national id", nationalID: "00000000000000", password: PASSWORD},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			s := setupSuite(t)
			service := New(s.log, s.userRepo, s.hasher, s.issuer)

			_, err := service.Run(
				context.Background(),
				Input{NationalID: testcase.nationalID, Password: testcase.password},
			)

			require.ErrorIs(t, err, user.ErrInvalidCredentials)
		})
	}
}

func TestLogInIssuerError(t *testing.T) {
	s := setupSuite(t)
	s.issuer.ReturnError = true
	service := New(s.log, s.userRepo, s.hasher, s.issuer)

	_, err := service.Run(context.Background(), Input{NationalID: NATIONAL_ID, Password: PASSWORD})

	require.Error(t, err)
	require.NotErrorIs(t, err, user.ErrInvalidCredentials)
	require.Equal(t, 1, s.log.CountByLevel(logging.ERROR))
}

func TestLogInStorageError(t *testing.T) {
	s := setupSuite(t)
	s.userRepo.ReturnError = true
	service := New(s.log, s.userRepo, s.hasher, s.issuer)

	_, err := service.Run(context.Background(), Input{NationalID: NATIONAL_ID, Password: PASSWORD})

	require.Error(t, err)
	require.NotErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestRateLimitKey(t *testing.T) {
	require.Equal(t, "log-in::12345678901234", Input{NationalID: NATIONAL_ID}.GetRateLimitKey())
}
