package sendpasswordresettoken

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	"context"
	"errors"
	"fmt"
	"time"
)

type Input struct {
	NationalID user.NationalID
	Method     user.DeliveryMethod
}

func (i Input) GetRateLimitKey() string {
	return "send-password-reset-token::" + string(i.NationalID)
}

type Result struct {
	Reset  user.PasswordReset
	Method user.DeliveryMethod
}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	tokenGenerator user.PasswordResetTokenGenerator
	senders        user.PasswordResetTokenSenders
	validDuration  time.Duration
	now            func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	tokenGenerator user.PasswordResetTokenGenerator,
	senders user.PasswordResetTokenSenders,
	validDuration time.Duration,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if tokenGenerator == nil {
		panic(e.NewNilArgumentError("tokenGenerator"))
	}
	if senders == nil {
		panic(e.NewNilArgumentError("senders"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	if validDuration <= 0 {
		panic(fmt.Sprintf("validDuration must be positive, got %s", validDuration))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
		tokenGenerator: tokenGenerator,
		senders:        senders,
		validDuration:  validDuration,
		now:            now,
	}
}

// Run stores a fresh reset token for the user, replacing the previous one, and
// delivers it with the requested method. A delivery failure is returned as
// ErrDeliveryFailed together with the already stored token.
func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	sender, err := s.senders.Get(input.Method)
	if err != nil {
		s.log.Info(
			ctx,
			"Unsupported password reset token delivery method.",
			logging.Entry("method", input.Method),
		)
		return result, err
	}

	reset := user.PasswordReset{
		Token:     s.tokenGenerator.GeneratePasswordResetToken(),
		ExpiresAt: s.now().Add(s.validDuration),
	}
	u, err := s.userRepository.SetPasswordResetToken(ctx, input.NationalID, reset)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(
			ctx,
			"User not found for password reset.",
			logging.Entry("nationalID", input.NationalID),
		)
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not store password reset token.",
			logging.Entry("nationalID", input.NationalID),
			logging.Entry("err", err),
		)
		return result, err
	}

	result = Result{Reset: reset, Method: input.Method}
	if err := sender.SendPasswordResetToken(ctx, u, reset); err != nil {
		s.log.Error(
			ctx,
			"Could not send password reset token.",
			logging.Entry("userID", u.ID),
			logging.Entry("method", input.Method),
			logging.Entry("err", err),
		)
		return result, fmt.Errorf("%w: %v", user.ErrDeliveryFailed, err)
	}

	s.log.Info(
		ctx,
		"Password reset token has been sent.",
		logging.Entry("userID", u.ID),
		logging.Entry("method", input.Method),
		logging.Entry("expiresAt", reset.ExpiresAt),
	)
	return result, nil
}
