package user

import (
	c "accounts/internal/core/domain/common"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var EXPIRES_AT = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestPasswordResetIsValid(t *testing.T) {
	reset := PasswordReset{Token: PasswordResetToken("aB3xY9"), ExpiresAt: EXPIRES_AT}
	cases := []struct {
		id      string
		token   string
		now     time.Time
		isValid bool
	}{
		{id: "exact match before expiry", token: "aB3xY9", now: EXPIRES_AT.Add(-time.Second), isValid: true},
		{id: "at expiry", token: "aB3xY9", now: EXPIRES_AT, isValid: false},
		{id: "after expiry", token: "aB3xY9", now: EXPIRES_AT.Add(time.Minute), isValid: false},
		{id: "different case", token: "ab3xy9", now: EXPIRES_AT.Add(-time.Second), isValid: false},
		{id: "prefix", token: "aB3xY", now: EXPIRES_AT.Add(-time.Second), isValid: false},
		{id: "empty", token: "", now: EXPIRES_AT.Add(-time.Second), isValid: false},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			require.Equal(t, testcase.isValid, reset.IsValid(PasswordResetToken(testcase.token), testcase.now))
		})
	}
}

func TestCanResetPasswordWithoutToken(t *testing.T) {
	u := User{ID: 1, PasswordReset: c.None[PasswordReset]()}
	require.False(t, u.CanResetPassword(PasswordResetToken(""), EXPIRES_AT))
	require.False(t, u.CanResetPassword(PasswordResetToken("aB3xY9"), EXPIRES_AT))
}

func TestCanResetPasswordWithToken(t *testing.T) {
	u := User{
		ID:            1,
		PasswordReset: c.NewOptional(PasswordReset{Token: "aB3xY9", ExpiresAt: EXPIRES_AT}, true),
	}
	require.True(t, u.CanResetPassword(PasswordResetToken("aB3xY9"), EXPIRES_AT.Add(-time.Millisecond)))
	require.False(t, u.CanResetPassword(PasswordResetToken("aB3xY9"), EXPIRES_AT))
}

func TestSendersGet(t *testing.T) {
	sender := NewFakePasswordResetTokenSender()
	senders := PasswordResetTokenSenders{DeliveryMethodEmail: sender}

	actual, err := senders.Get(DeliveryMethodEmail)
	require.NoError(t, err)
	require.NoError(t, actual.SendPasswordResetToken(context.Background(), User{}, PasswordReset{}))
	require.Equal(t, 1, sender.SentCount())

	_, err = senders.Get(DeliveryMethodSMS)
	require.ErrorIs(t, err, ErrUnsupportedDeliveryMethod)

	_, err = senders.Get(DeliveryMethod("carrier-pigeon"))
	require.ErrorIs(t, err, ErrUnsupportedDeliveryMethod)
}

func TestValidate(t *testing.T) {
	u := User{ID: 1, NationalID: "12345678901234", Email: "a@x.com", PasswordHash: "hash"}
	require.NoError(t, u.Validate())

	u.PasswordHash = ""
	require.Error(t, u.Validate())
}
