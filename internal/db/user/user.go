package user

import (
	c "accounts/internal/core/domain/common"
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/user"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

const (
	PG_UNIQUE_CONSTRAINT_ERR_CODE = "23505"
	NATIONAL_ID_CONSTRAINT_NAME   = "users_national_id_idx"
	EMAIL_CONSTRAINT_NAME         = "users_email_idx"
)

const userColumns = `
	id, name, phone, national_id, email, password_hash,
	reset_token, reset_token_expires_at, created_at`

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type PgxUserRepository struct {
	db DBTX
}

func NewPgxRepository(db DBTX) *PgxUserRepository {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxUserRepository{db: db}
}

func (r *PgxUserRepository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO users (name, phone, national_id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		input.Name,
		string(input.Phone),
		string(input.NationalID),
		string(input.Email),
		string(input.PasswordHash),
		input.CreatedAt,
	)
	u, err = scanUser(row)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == PG_UNIQUE_CONSTRAINT_ERR_CODE {
		switch pgErr.ConstraintName {
		case NATIONAL_ID_CONSTRAINT_NAME:
			return u, user.ErrNationalIDAlreadyExists
		case EMAIL_CONSTRAINT_NAME:
			return u, user.ErrEmailAlreadyExists
		}
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func (r *PgxUserRepository) GetByID(ctx context.Context, id user.ID) (u user.User, err error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, int64(id))
}

func (r *PgxUserRepository) GetByNationalID(ctx context.Context, nationalID user.NationalID) (u user.User, err error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE national_id = $1`, string(nationalID))
}

func (r *PgxUserRepository) GetByNationalIDForUpdate(
	ctx context.Context,
	nationalID user.NationalID,
) (u user.User, err error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE national_id = $1 FOR UPDATE`, string(nationalID))
}

func (r *PgxUserRepository) GetByEmail(ctx context.Context, email c.Email) (u user.User, err error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, string(email))
}

func (r *PgxUserRepository) SetPasswordResetToken(
	ctx context.Context,
	nationalID user.NationalID,
	reset user.PasswordReset,
) (u user.User, err error) {
	return r.getOne(
		ctx,
		`UPDATE users SET reset_token = $1, reset_token_expires_at = $2
		WHERE national_id = $3
		RETURNING `+userColumns,
		string(reset.Token),
		reset.ExpiresAt.UTC(),
		string(nationalID),
	)
}

func (r *PgxUserRepository) SetPassword(ctx context.Context, id user.ID, password user.PasswordHash) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE users SET password_hash = $1, reset_token = NULL, reset_token_expires_at = NULL
		WHERE id = $2`,
		string(password),
		int64(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *PgxUserRepository) getOne(ctx context.Context, query string, args ...interface{}) (u user.User, err error) {
	u, err = scanUser(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func scanUser(row pgx.Row) (u user.User, err error) {
	var (
		id             int64
		name           string
		phone          string
		nationalID     string
		email          string
		passwordHash   string
		resetToken     sql.NullString
		resetExpiresAt sql.NullTime
		createdAt      time.Time
	)
	err = row.Scan(
		&id,
		&name,
		&phone,
		&nationalID,
		&email,
		&passwordHash,
		&resetToken,
		&resetExpiresAt,
		&createdAt,
	)
	if err != nil {
		return u, err
	}
	return decodeUser(id, name, phone, nationalID, email, passwordHash, resetToken, resetExpiresAt, createdAt)
}

func decodeUser(
	id int64,
	name, phone, nationalID, email, passwordHash string,
	resetToken sql.NullString,
	resetExpiresAt sql.NullTime,
	createdAt time.Time,
) (user.User, error) {
	if resetToken.Valid != resetExpiresAt.Valid {
		return user.User{}, e.NewInvalidStateError(fmt.Sprintf("partial password reset stored for user %d", id))
	}
	reset := c.None[user.PasswordReset]()
	if resetToken.Valid {
		reset = c.NewOptional(
			user.PasswordReset{
				Token:     user.PasswordResetToken(resetToken.String),
				ExpiresAt: resetExpiresAt.Time.UTC(),
			},
			true,
		)
	}
	return user.User{
		ID:            user.ID(id),
		Name:          name,
		Phone:         user.Phone(phone),
		NationalID:    user.NationalID(nationalID),
		Email:         c.Email(email),
		PasswordHash:  user.PasswordHash(passwordHash),
		PasswordReset: reset,
		CreatedAt:     createdAt.UTC(),
	}, nil
}
