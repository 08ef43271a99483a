package user

import (
	c "accounts/internal/core/domain/common"
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"sync"
	"time"
)

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}

type FakeSessionIssuer struct {
	TTL         time.Duration
	Now         func() time.Time
	ReturnError bool
}

func NewFakeSessionIssuer(ttl time.Duration, now func() time.Time) *FakeSessionIssuer {
	return &FakeSessionIssuer{TTL: ttl, Now: now}
}

func (i *FakeSessionIssuer) Issue(u User) (s Session, err error) {
	if i.ReturnError {
		return s, fmt.Errorf("could not issue session for user %d", u.ID)
	}
	now := i.Now()
	return Session{
		Token:      SessionToken("session::" + string(u.NationalID)),
		NationalID: u.NationalID,
		IssuedAt:   now,
		ExpiresAt:  now.Add(i.TTL),
	}, nil
}

func (i *FakeSessionIssuer) Validate(token SessionToken) (s Session, err error) {
	const prefix = "session::"
	raw := string(token)
	if len(raw) <= len(prefix) || raw[:len(prefix)] != prefix {
		return s, ErrInvalidSessionToken
	}
	now := i.Now()
	return Session{
		Token:      token,
		NationalID: NationalID(raw[len(prefix):]),
		IssuedAt:   now,
		ExpiresAt:  now.Add(i.TTL),
	}, nil
}

// FakePasswordResetTokenGenerator returns the configured tokens in order and
// repeats the last one when they run out.
type FakePasswordResetTokenGenerator struct {
	Tokens []PasswordResetToken
	next   int
	lock   sync.Mutex
}

func NewFakePasswordResetTokenGenerator(tokens ...string) *FakePasswordResetTokenGenerator {
	g := &FakePasswordResetTokenGenerator{}
	for _, token := range tokens {
		g.Tokens = append(g.Tokens, PasswordResetToken(token))
	}
	return g
}

func (g *FakePasswordResetTokenGenerator) GeneratePasswordResetToken() PasswordResetToken {
	g.lock.Lock()
	defer g.lock.Unlock()
	if len(g.Tokens) == 0 {
		panic("no tokens configured")
	}
	ix := g.next
	if ix >= len(g.Tokens) {
		ix = len(g.Tokens) - 1
	}
	g.next++
	return g.Tokens[ix]
}

type FakePasswordResetTokenSender struct {
	Sent        []PasswordReset
	SentTo      []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakePasswordResetTokenSender() *FakePasswordResetTokenSender {
	return &FakePasswordResetTokenSender{}
}

func (s *FakePasswordResetTokenSender) SendPasswordResetToken(
	ctx context.Context,
	u User,
	reset PasswordReset,
) error {
	if s.ReturnError {
		return fmt.Errorf("could not send password reset token")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, reset)
	s.SentTo = append(s.SentTo, u)
	return nil
}

func (s *FakePasswordResetTokenSender) SentCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Sent)
}

type FakeUserRepository struct {
	Users       []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10)}
}

func (r *FakeUserRepository) Create(ctx context.Context, input CreateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not create user %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	maxID := ID(0)
	for _, existing := range r.Users {
		if existing.NationalID == input.NationalID {
			return u, ErrNationalIDAlreadyExists
		}
		if existing.Email == input.Email {
			return u, ErrEmailAlreadyExists
		}
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	u = User{
		ID:           maxID + 1,
		Name:         input.Name,
		Phone:        input.Phone,
		NationalID:   input.NationalID,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		CreatedAt:    input.CreatedAt,
	}
	r.Users = append(r.Users, u)
	return u, nil
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id ID) (u User, err error) {
	return r.find(func(u User) bool { return u.ID == id })
}

func (r *FakeUserRepository) GetByNationalID(ctx context.Context, nationalID NationalID) (u User, err error) {
	return r.find(func(u User) bool { return u.NationalID == nationalID })
}

func (r *FakeUserRepository) GetByNationalIDForUpdate(
	ctx context.Context,
	nationalID NationalID,
) (u User, err error) {
	return r.find(func(u User) bool { return u.NationalID == nationalID })
}

func (r *FakeUserRepository) GetByEmail(ctx context.Context, email c.Email) (u User, err error) {
	return r.find(func(u User) bool { return u.Email == email })
}

func (r *FakeUserRepository) SetPasswordResetToken(
	ctx context.Context,
	nationalID NationalID,
	reset PasswordReset,
) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not set password reset token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.NationalID == nationalID {
			r.Users[ix].PasswordReset = c.NewOptional(reset, true)
			return r.Users[ix], nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) SetPassword(ctx context.Context, id ID, password PasswordHash) error {
	if r.ReturnError {
		return fmt.Errorf("could not set password")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id {
			r.Users[ix].PasswordHash = password
			r.Users[ix].PasswordReset = c.None[PasswordReset]()
			return nil
		}
	}
	return ErrUserDoesNotExist
}

func (r *FakeUserRepository) find(match func(u User) bool) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if match(u) {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}
