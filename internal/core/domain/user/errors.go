package user

import (
	"errors"
	"fmt"
)

var ErrConflict = errors.New("user already exists")

var (
	ErrNationalIDAlreadyExists   = fmt.Errorf("%w: national id already registered", ErrConflict)
	ErrEmailAlreadyExists        = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrUserDoesNotExist          = errors.New("user does not exist")
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrInvalidSessionToken       = errors.New("invalid session token")
	ErrInvalidPasswordResetToken = errors.New("invalid or expired password reset token")
	ErrUnsupportedDeliveryMethod = errors.New("unsupported delivery method")
	ErrDeliveryFailed            = errors.New("password reset token delivery failed")
)
