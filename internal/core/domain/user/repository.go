package user

import (
	c "accounts/internal/core/domain/common"
	"context"
	"time"
)

type CreateUserInput struct {
	Name         string
	Phone        Phone
	NationalID   NationalID
	Email        c.Email
	PasswordHash PasswordHash
	CreatedAt    time.Time
}

type UserRepository interface {
	Create(ctx context.Context, input CreateUserInput) (User, error)
	GetByID(ctx context.Context, id ID) (User, error)
	GetByNationalID(ctx context.Context, nationalID NationalID) (User, error)
	// GetByNationalIDForUpdate locks the row until the surrounding transaction ends.
	GetByNationalIDForUpdate(ctx context.Context, nationalID NationalID) (User, error)
	GetByEmail(ctx context.Context, email c.Email) (User, error)
	// SetPasswordResetToken replaces any previous reset token of the user.
	SetPasswordResetToken(ctx context.Context, nationalID NationalID, reset PasswordReset) (User, error)
	// SetPassword stores the new hash and clears the reset token in the same write.
	SetPassword(ctx context.Context, id ID, password PasswordHash) error
}
