package user

import (
	c "accounts/internal/core/domain/common"
	"accounts/internal/core/domain/user"
	"accounts/internal/db"
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

const (
	NAME          = "Alice"
	PHONE         = user.Phone("01012345678")
	NATIONAL_ID   = user.NationalID("29001011234567")
	EMAIL         = c.Email("alice@example.com")
	PASSWORD_HASH = user.PasswordHash("test-password-hash")
)

var NOW time.Time = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

type testSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *PgxUserRepository
}

func (suite *testSuite) SetupSuite() {
	suite.pool = db.CreateTestPool(suite.T())
	suite.repo = NewPgxRepository(suite.pool)
}

func (suite *testSuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func TestPgxUserRepository(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) createUser() user.User {
	u, err := suite.repo.Create(context.Background(), user.CreateUserInput{
		Name:         NAME,
		Phone:        PHONE,
		NationalID:   NATIONAL_ID,
		Email:        EMAIL,
		PasswordHash: PASSWORD_HASH,
		CreatedAt:    NOW,
	})
	suite.Require().NoError(err)
	return u
}

func (suite *testSuite) TestCreateSuccess() {
	u := suite.createUser()

	assert := suite.Require()
	assert.NotZero(u.ID)
	assert.Equal(NAME, u.Name)
	assert.Equal(PHONE, u.Phone)
	assert.Equal(NATIONAL_ID, u.NationalID)
	assert.Equal(EMAIL, u.Email)
	assert.Equal(PASSWORD_HASH, u.PasswordHash)
	assert.Equal(NOW, u.CreatedAt)
	assert.False(u.PasswordReset.IsPresent)
}

func (suite *testSuite) TestCreateConflicts() {
	suite.createUser()

	cases := []struct {
		id       string
		input    user.CreateUserInput
		expected error
	}{
		{
			id: "national id",
			input: user.CreateUserInput{
				Name:         "Bob",
				Phone:        PHONE,
				NationalID:   NATIONAL_ID,
				Email:        "bob@example.com",
				PasswordHash: PASSWORD_HASH,
				CreatedAt:    NOW,
			},
			expected: user.ErrNationalIDAlreadyExists,
		},
		{
			id: "email",
			input: user.CreateUserInput{
				Name:         "Bob",
				Phone:        PHONE,
				NationalID:   "29001019999999",
				Email:        EMAIL,
				PasswordHash: PASSWORD_HASH,
				CreatedAt:    NOW,
			},
			expected: user.ErrEmailAlreadyExists,
		},
	}

	for _, testcase := range cases {
		suite.Run(testcase.id, func() {
			_, err := suite.repo.Create(context.Background(), testcase.input)

			suite.Require().ErrorIs(err, testcase.expected)
			suite.Require().ErrorIs(err, user.ErrConflict)
		})
	}
}

func (suite *testSuite) TestGetters() {
	created := suite.createUser()
	ctx := context.Background()

	byID, err := suite.repo.GetByID(ctx, created.ID)
	suite.Require().NoError(err)
	suite.Require().Equal(created, byID)

	byNationalID, err := suite.repo.GetByNationalID(ctx, NATIONAL_ID)
	suite.Require().NoError(err)
	suite.Require().Equal(created, byNationalID)

	byEmail, err := suite.repo.GetByEmail(ctx, EMAIL)
	suite.Require().NoError(err)
	suite.Require().Equal(created, byEmail)

	forUpdate, err := suite.repo.GetByNationalIDForUpdate(ctx, NATIONAL_ID)
	suite.Require().NoError(err)
	suite.Require().Equal(created, forUpdate)
}

func (suite *testSuite) TestGettersUserDoesNotExist() {
	ctx := context.Background()

	_, err := suite.repo.GetByID(ctx, 1000)
	suite.Require().ErrorIs(err, user.ErrUserDoesNotExist)

	_, err = suite.repo.GetByNationalID(ctx, NATIONAL_ID)
	suite.Require().ErrorIs(err, user.ErrUserDoesNotExist)

	_, err = suite.repo.GetByNationalIDForUpdate(ctx, NATIONAL_ID)
	suite.Require().ErrorIs(err, user.ErrUserDoesNotExist)

	_, err = suite.repo.GetByEmail(ctx, EMAIL)
	suite.Require().ErrorIs(err, user.ErrUserDoesNotExist)
}

func (suite *testSuite) TestSetPasswordResetTokenOverwrites() {
	suite.createUser()
	ctx := context.Background()

	first := user.PasswordReset{Token: "aaaaaa", ExpiresAt: NOW.Add(time.Minute)}
	u, err := suite.repo.SetPasswordResetToken(ctx, NATIONAL_ID, first)
	suite.Require().NoError(err)
	suite.Require().Equal(c.NewOptional(first, true), u.PasswordReset)

	second := user.PasswordReset{Token: "bbbbbb", ExpiresAt: NOW.Add(2 * time.Minute)}
	_, err = suite.repo.SetPasswordResetToken(ctx, NATIONAL_ID, second)
	suite.Require().NoError(err)

	u, err = suite.repo.GetByNationalID(ctx, NATIONAL_ID)
	suite.Require().NoError(err)
	suite.Require().Equal(c.NewOptional(second, true), u.PasswordReset)
}

func (suite *testSuite) TestSetPasswordResetTokenUserDoesNotExist() {
	_, err := suite.repo.SetPasswordResetToken(
		context.Background(),
		NATIONAL_ID,
		user.PasswordReset{Token: "aaaaaa", ExpiresAt: NOW},
	)
	suite.Require().ErrorIs(err, user.ErrUserDoesNotExist)
}

func (suite *testSuite) TestSetPasswordClearsResetToken() {
	created := suite.createUser()
	ctx := context.Background()
	_, err := suite.repo.SetPasswordResetToken(
		ctx,
		NATIONAL_ID,
		user.PasswordReset{Token: "aaaaaa", ExpiresAt: NOW.Add(time.Minute)},
	)
	suite.Require().NoError(err)

	err = suite.repo.SetPassword(ctx, created.ID, "new-hash")
	suite.Require().NoError(err)

	u, err := suite.repo.GetByID(ctx, created.ID)
	suite.Require().NoError(err)
	suite.Require().Equal(user.PasswordHash("new-hash"), u.PasswordHash)
	suite.Require().False(u.PasswordReset.IsPresent)
}

func (suite *testSuite) TestSetPasswordUserDoesNotExist() {
	err := suite.repo.SetPassword(context.Background(), 1000, "new-hash")
	suite.Require().ErrorIs(err, user.ErrUserDoesNotExist)
}
