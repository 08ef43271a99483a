package services

import (
	"accounts/internal/app/deps"
	drl "accounts/internal/core/domain/rate_limiter"
	"accounts/internal/core/services"
	"accounts/internal/core/services/auth"
	getuserbysessiontoken "accounts/internal/core/services/get_user_by_session_token"
	login "accounts/internal/core/services/log_in"
	ratelimiting "accounts/internal/core/services/rate_limiting"
	resetpassword "accounts/internal/core/services/reset_password"
	sendpasswordresettoken "accounts/internal/core/services/send_password_reset_token"
	signup "accounts/internal/core/services/sign_up"
)

var (
	LogInLimit                  = drl.Limit{Interval: drl.Hour, Value: 10}
	SendPasswordResetTokenLimit = drl.Limit{Interval: drl.Hour, Value: 5}
	// Bounds token guessing within the lifetime of a single reset token.
	ResetPasswordLimit = drl.Limit{Interval: drl.Minute, Value: 5}
)

type Services struct {
	SignUp                 services.Service[signup.Input, signup.Result]
	LogIn                  services.Service[login.Input, login.Result]
	SendPasswordResetToken services.Service[sendpasswordresettoken.Input, sendpasswordresettoken.Result]
	ResetPassword          services.Service[resetpassword.Input, resetpassword.Result]
	GetUserBySessionToken  services.Service[getuserbysessiontoken.Input, getuserbysessiontoken.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.SignUp = signup.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.PasswordHasher,
		deps.Now,
	)
	s.LogIn = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		LogInLimit,
		login.New(
			deps.Logger,
			deps.UserRepository,
			deps.PasswordHasher,
			deps.SessionIssuer,
		),
	)
	s.SendPasswordResetToken = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		SendPasswordResetTokenLimit,
		sendpasswordresettoken.New(
			deps.Logger,
			deps.UserRepository,
			deps.PasswordResetTokenGenerator,
			deps.PasswordResetTokenSenders,
			deps.Config.PasswordResetTokenTTL,
			deps.Now,
		),
	)
	s.ResetPassword = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		ResetPasswordLimit,
		resetpassword.New(
			deps.Logger,
			deps.UnitOfWork,
			deps.PasswordHasher,
			deps.Now,
		),
	)
	s.GetUserBySessionToken = auth.WithAuthentication(
		deps.SessionIssuer,
		deps.UserRepository,
		getuserbysessiontoken.New(),
	)

	return s
}
