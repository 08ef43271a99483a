package user

import (
	c "accounts/internal/core/domain/common"
	e "accounts/internal/core/domain/errors"
	"fmt"
	"time"
)

type ID int64

// NationalID is the stable identity of an account: unique, exactly 14 digits,
// never changed after registration.
type NationalID string

type Phone string

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

type User struct {
	ID            ID
	Name          string
	Phone         Phone
	NationalID    NationalID
	Email         c.Email
	PasswordHash  PasswordHash
	PasswordReset c.Optional[PasswordReset]
	CreatedAt     time.Time
}

func (u *User) Validate() error {
	if u.NationalID == "" {
		return e.NewInvalidStateError(fmt.Sprintf("national id is not set for user %d", u.ID))
	}
	if u.Email == "" {
		return e.NewInvalidStateError(fmt.Sprintf("email is not set for user %d", u.ID))
	}
	if u.PasswordHash == "" {
		return e.NewInvalidStateError(fmt.Sprintf("password hash is not set for user %d", u.ID))
	}
	return nil
}

// CanResetPassword reports whether token matches the live reset token of the user.
// An expired token is treated the same as a missing one.
func (u *User) CanResetPassword(token PasswordResetToken, now time.Time) bool {
	if !u.PasswordReset.IsPresent {
		return false
	}
	return u.PasswordReset.Value.IsValid(token, now)
}

type PasswordHasher interface {
	HashPassword(password RawPassword) (PasswordHash, error)
	ValidatePassword(password RawPassword, hash PasswordHash) bool
}
