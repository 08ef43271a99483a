package session

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/user"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWT issues HS256 signed bearer tokens whose subject is the national id.
type JWT struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewJWT(secret string, ttl time.Duration, issuer string, now func() time.Time) *JWT {
	if secret == "" {
		panic("JWT secret must not be empty")
	}
	if ttl <= 0 {
		panic("session TTL must be positive")
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &JWT{secret: []byte(secret), ttl: ttl, issuer: issuer, now: now}
}

func (j *JWT) Issue(u user.User) (session user.Session, err error) {
	if u.NationalID == "" {
		return session, errors.New("could not issue session for a user without national id")
	}

	// JWT numeric dates have a second precision.
	issuedAt := j.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(j.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   string(u.NationalID),
		Issuer:    j.issuer,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.New().String(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return session, err
	}

	return user.Session{
		Token:      user.SessionToken(signed),
		NationalID: u.NationalID,
		IssuedAt:   issuedAt,
		ExpiresAt:  expiresAt,
	}, nil
}

func (j *JWT) Validate(token user.SessionToken) (session user.Session, err error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	}
	if j.issuer != "" {
		options = append(options, jwt.WithIssuer(j.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(
		string(token),
		claims,
		func(t *jwt.Token) (interface{}, error) { return j.secret, nil },
		options...,
	)
	if err != nil {
		return session, errors.Join(user.ErrInvalidSessionToken, err)
	}
	if claims.Subject == "" {
		return session, user.ErrInvalidSessionToken
	}

	session = user.Session{
		Token:      token,
		NationalID: user.NationalID(claims.Subject),
		ExpiresAt:  claims.ExpiresAt.Time.UTC(),
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	return session, nil
}
