package randomstringgenerator

import (
	"accounts/internal/core/domain/user"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordResetTokenGenerator(t *testing.T) {
	generator := NewGenerator()
	tokens := make(map[user.PasswordResetToken]struct{})
	for i := 0; i < 1000; i++ {
		token := generator.GeneratePasswordResetToken()

		require.Len(t, string(token), 6)
		for _, r := range string(token) {
			require.True(t, strings.ContainsRune(alphabet, r), "unexpected symbol %q", r)
		}
		tokens[token] = struct{}{}
	}
	// 62^6 combinations make a collision among a thousand tokens very unlikely.
	require.Greater(t, len(tokens), 990)
}

func TestAllSymbolsAreUsed(t *testing.T) {
	generator := NewGenerator()
	seen := make(map[rune]struct{})
	for i := 0; i < 2000; i++ {
		for _, r := range generator.generate(8) {
			seen[r] = struct{}{}
		}
	}
	require.Len(t, seen, len(alphabet))
}
