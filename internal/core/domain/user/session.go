package user

import "time"

type SessionToken string

// Session is a signed, stateless bearer credential. Only the issuer holding the
// signing secret can produce or check it.
type Session struct {
	Token      SessionToken
	NationalID NationalID
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

type SessionIssuer interface {
	Issue(u User) (Session, error)
	Validate(token SessionToken) (Session, error)
}
