package randomstringgenerator

import (
	"accounts/internal/core/domain/user"
	"crypto/rand"
	"math/big"
)

const (
	alphabet                 = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	passwordResetTokenLength = 6
)

type Generator struct {
	chars []byte
	max   *big.Int
}

func NewGenerator() *Generator {
	return &Generator{
		chars: []byte(alphabet),
		max:   big.NewInt(int64(len(alphabet))),
	}
}

func (g *Generator) GeneratePasswordResetToken() user.PasswordResetToken {
	return user.PasswordResetToken(g.generate(passwordResetTokenLength))
}

func (g *Generator) generate(length int) string {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, g.max)
		if err != nil {
			panic("could not read from crypto/rand: " + err.Error())
		}
		b[i] = g.chars[n.Int64()]
	}
	return string(b)
}
