package user

import (
	"context"
	"time"
)

type PasswordResetToken string

type PasswordReset struct {
	Token     PasswordResetToken
	ExpiresAt time.Time
}

func (r PasswordReset) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

func (r PasswordReset) IsValid(token PasswordResetToken, now time.Time) bool {
	return token != "" && r.Token == token && !r.IsExpired(now)
}

type PasswordResetTokenGenerator interface {
	GeneratePasswordResetToken() PasswordResetToken
}

// DeliveryMethod names an out-of-band channel for reset tokens. The set of
// methods is defined by the registered senders.
type DeliveryMethod string

const (
	DeliveryMethodEmail DeliveryMethod = "email"
	DeliveryMethodSMS   DeliveryMethod = "sms"
)

type PasswordResetTokenSender interface {
	SendPasswordResetToken(ctx context.Context, u User, reset PasswordReset) error
}

type PasswordResetTokenSenders map[DeliveryMethod]PasswordResetTokenSender

func (s PasswordResetTokenSenders) Get(method DeliveryMethod) (PasswordResetTokenSender, error) {
	sender, ok := s[method]
	if !ok || sender == nil {
		return nil, ErrUnsupportedDeliveryMethod
	}
	return sender, nil
}
