package auth

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	"context"
	"errors"
)

type contextAuthToken string

const CONTEXT_AUTH_TOKEN_KEY = contextAuthToken("authToken")

type Input interface {
	WithAuthenticatedUser(u user.User) Input
}

type service[T Input, S any] struct {
	sessionIssuer  user.SessionIssuer
	userRepository user.UserRepository
	inner          services.Service[T, S]
}

// WithAuthentication resolves the bearer token stored in the context into a
// user before running inner. Any token problem is reported as ErrInvalidSessionToken.
func WithAuthentication[T Input, S any](
	sessionIssuer user.SessionIssuer,
	userRepository user.UserRepository,
	inner services.Service[T, S],
) services.Service[T, S] {
	if sessionIssuer == nil {
		panic(e.NewNilArgumentError("sessionIssuer"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &service[T, S]{
		sessionIssuer:  sessionIssuer,
		userRepository: userRepository,
		inner:          inner,
	}
}

func (s *service[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	authToken, ok := ctx.Value(CONTEXT_AUTH_TOKEN_KEY).(user.SessionToken)
	if !ok {
		return result, user.ErrInvalidSessionToken
	}
	session, err := s.sessionIssuer.Validate(authToken)
	if err != nil {
		return result, user.ErrInvalidSessionToken
	}
	u, err := s.userRepository.GetByNationalID(ctx, session.NationalID)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		return result, user.ErrInvalidSessionToken
	}
	if err != nil {
		return result, err
	}
	return s.inner.Run(ctx, input.WithAuthenticatedUser(u).(T))
}
